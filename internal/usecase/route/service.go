// Package route classifies incoming questions into backend routes.
//
// Classification is two-tier: a completion-based classifier first, with a
// deterministic keyword classifier beneath it. The service never fails to
// produce a decision.
package route

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domroute "github.com/kailas-cloud/askdex/internal/domain/route"
	"github.com/kailas-cloud/askdex/internal/metrics"
)

const routingPrompt = `You are an intelligent query router. Analyze the user's question and determine which system(s) should handle it.

Available systems:
1. STRUCTURED - For analytical queries about structured data (orders, customers, products, payments, order items). Examples:
   - "What are the top 5 customers by revenue?"
   - "Show me sales by product category"
   - "Which customers have the highest order values?"
   - "What's the total revenue this month?"

2. DOCUMENT - For questions about documents, PDFs, reports, unstructured content. Examples:
   - "What does the sustainability report say about carbon emissions?"
   - "What are the key findings in the document?"
   - "Summarize the construction cost report"
   - "What did the earnings call mention about revenue?"

3. BOTH - For hybrid queries that need both structured data and document information. Examples:
   - "Compare our sales data with what the report says about market trends"
   - "What do our financial reports say about the numbers in our database?"

Respond ONLY with a JSON object in this exact format:
{
  "route": "STRUCTURED" | "DOCUMENT" | "BOTH",
  "reasoning": "Brief explanation of why this route was chosen"
}

User question: %s`

// Keyword sets for the deterministic fallback tier. Matching is
// case-insensitive substring containment.
var (
	analyticsKeywords = []string{
		"customer", "order", "product", "payment", "revenue", "sales",
		"total", "sum", "count", "average", "top", "highest", "lowest",
		"by", "group", "aggregate", "database", "table",
	}
	documentKeywords = []string{
		"report", "document", "pdf", "sustainability", "earnings",
		"transcript", "statement", "findings", "mentioned", "says",
		"according to", "in the document", "in the report",
	}
)

// Service routes questions to the structured path, the document path, or both.
type Service struct {
	complete Completer
	models   []string
	logger   *zap.Logger
}

// New creates a router service. models is the ordered preference list for
// the classification completion.
func New(complete Completer, models []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{complete: complete, models: models, logger: logger}
}

// Route classifies a question. The completion tier is tried first; any
// failure there (transport, parse, invalid route value) falls through to
// the keyword tier, so a decision is always returned.
func (s *Service) Route(ctx context.Context, question string) domroute.Decision {
	d, err := s.routeSemantic(ctx, question)
	if err != nil {
		s.logger.Debug("semantic routing failed, using keyword fallback",
			zap.Error(err))
		d = routeByKeywords(question)
		metrics.RouteDecisionsTotal.WithLabelValues(string(d.Route), "fallback").Inc()
		return d
	}
	metrics.RouteDecisionsTotal.WithLabelValues(string(d.Route), "semantic").Inc()
	return d
}

func (s *Service) routeSemantic(ctx context.Context, question string) (domroute.Decision, error) {
	raw, err := s.complete.Complete(ctx, fmt.Sprintf(routingPrompt, question), s.models)
	if err != nil {
		return domroute.Decision{}, err
	}

	var parsed struct {
		Route     string `json:"route"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return domroute.Decision{}, fmt.Errorf("parse routing response: %w", err)
	}

	r, err := domroute.Parse(parsed.Route)
	if err != nil {
		return domroute.Decision{}, err
	}
	return domroute.Decision{
		Route:      r,
		Reasoning:  parsed.Reasoning,
		Confidence: domroute.SemanticConfidence,
	}, nil
}

// extractJSON strips code-fence wrapping and, failing that, returns the
// first balanced brace-delimited substring. Models wrap JSON in markdown
// fences often enough that strict parsing alone is not viable.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

// routeByKeywords is the deterministic tier. The higher keyword count wins;
// a tie with both counts positive routes to both backends; no matches at
// all defaults to the document path.
func routeByKeywords(question string) domroute.Decision {
	lower := strings.ToLower(question)

	analyticsScore := countMatches(lower, analyticsKeywords)
	documentScore := countMatches(lower, documentKeywords)

	var r domroute.Route
	var reasoning string
	switch {
	case analyticsScore > documentScore && analyticsScore > 0:
		r = domroute.Structured
		reasoning = "Query contains analytics/database keywords"
	case documentScore > analyticsScore && documentScore > 0:
		r = domroute.Document
		reasoning = "Query contains document/report keywords"
	case analyticsScore > 0 && documentScore > 0:
		r = domroute.Both
		reasoning = "Query contains both analytics and document keywords"
	default:
		r = domroute.Document
		reasoning = "Default routing - query is ambiguous"
	}

	return domroute.Decision{
		Route:      r,
		Reasoning:  reasoning,
		Confidence: domroute.FallbackConfidence,
	}
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
