// Package ask composes the router, the SQL synthesizer, and the document
// answerer into one question-answering pipeline.
package ask

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain/answer"
)

// maxInlineRows bounds how many result rows the merged text spells out.
const maxInlineRows = 5

// noResultsSentinel keeps MergedText non-empty when neither path produced
// usable text.
const noResultsSentinel = "No results generated. Please try rephrasing your question."

// Service is the orchestrator. One call handles one question end to end.
type Service struct {
	router Router
	synth  Synthesizer
	rag    Answerer
	logger *zap.Logger
}

// New creates an orchestrator service.
func New(router Router, synth Synthesizer, rag Answerer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{router: router, synth: synth, rag: rag, logger: logger}
}

// Ask routes a question, dispatches it to the backend(s) the route names,
// and merges the outcomes into one response. Both sub-results are attached
// even when failed so callers can inspect what happened. The two paths run
// in parallel when the route requires both; they share no mutable state.
func (s *Service) Ask(ctx context.Context, question string, k int) answer.Combined {
	decision := s.router.Route(ctx, question)
	s.logger.Info("question routed",
		zap.String("route", string(decision.Route)),
		zap.Float64("confidence", decision.Confidence))

	var structured *answer.Structured
	var rag *answer.RAG

	switch {
	case decision.Route.NeedsStructured() && decision.Route.NeedsDocument():
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			res := s.synth.Synthesize(ctx, question)
			structured = &res
		}()
		go func() {
			defer wg.Done()
			res := s.rag.Answer(ctx, question, k)
			rag = &res
		}()
		wg.Wait()
	case decision.Route.NeedsStructured():
		res := s.synth.Synthesize(ctx, question)
		structured = &res
	default:
		res := s.rag.Answer(ctx, question, k)
		rag = &res
	}

	return answer.Combined{
		ID:         uuid.NewString(),
		Question:   question,
		Decision:   decision,
		Structured: structured,
		RAG:        rag,
		MergedText: merge(structured, rag),
	}
}

// merge builds the final response text from whichever sub-results exist.
func merge(structured *answer.Structured, rag *answer.RAG) string {
	var sections []string
	if structured != nil {
		sections = append(sections, structuredSection(structured))
	}
	if rag != nil {
		sections = append(sections, ragSection(rag))
	}

	switch len(sections) {
	case 0:
		return noResultsSentinel
	case 1:
		return sections[0]
	default:
		return "## Combined Results\n\n" + strings.Join(sections, "\n\n---\n\n")
	}
}

func structuredSection(res *answer.Structured) string {
	if !res.Success {
		detail := res.Error
		if detail == "" {
			detail = "Unknown error"
		}
		return fmt.Sprintf("Analytics query error: %s", detail)
	}
	if res.RowCount == 0 {
		return "Analytics query completed but returned no results."
	}

	var b strings.Builder
	b.WriteString("## Analytics Results\n\n")
	fmt.Fprintf(&b, "Found %d result(s).\n\n", res.RowCount)

	for i, row := range res.Rows {
		if i == maxInlineRows {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatRow(res.Columns, row))
	}
	if res.RowCount > maxInlineRows {
		fmt.Fprintf(&b, "\n... and %d more results", res.RowCount-maxInlineRows)
	}
	return strings.TrimRight(b.String(), "\n")
}

func ragSection(res *answer.RAG) string {
	if res.Success {
		if res.Answer == "" {
			return "No answer generated"
		}
		return res.Answer
	}
	if res.Error != "" {
		return fmt.Sprintf("Document query error: %s", res.Error)
	}
	// Empty retrieval: no error, but a fixed answer explaining the outcome.
	if res.Answer != "" {
		return res.Answer
	}
	return "Document query error: Unknown error"
}

// formatRow renders one row in declared column order.
func formatRow(columns []string, row map[string]any) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s: %v", col, row[col]))
	}
	return strings.Join(parts, ", ")
}
