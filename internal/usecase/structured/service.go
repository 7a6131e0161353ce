// Package structured turns natural-language questions into executed SQL.
package structured

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain/answer"
	domwh "github.com/kailas-cloud/askdex/internal/domain/warehouse"
)

// Service synthesizes a SQL statement for a question, executes it, and
// normalizes the result. Every failure mode is captured in the returned
// result rather than surfaced as an error.
type Service struct {
	complete      Completer
	schemas       SchemaInspector
	exec          Executor
	models        []string
	tables        []string
	relationships []domwh.Relationship
	logger        *zap.Logger
}

// New creates a synthesizer service. tables is the fixed set of known
// warehouse tables offered to the model; relationships is optional context
// and is never validated against the live schema.
func New(
	complete Completer, schemas SchemaInspector, exec Executor,
	models, tables []string, relationships []domwh.Relationship,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		complete:      complete,
		schemas:       schemas,
		exec:          exec,
		models:        models,
		tables:        tables,
		relationships: relationships,
		logger:        logger,
	}
}

// Synthesize generates, sanitizes, and executes SQL for a question.
// Schemas are fetched fresh on every call so the prompt never sees a stale
// view. A table whose metadata cannot be read is omitted from the prompt,
// not fatal.
func (s *Service) Synthesize(ctx context.Context, question string) answer.Structured {
	prompt := s.buildPrompt(ctx, question)

	raw, err := s.complete.Complete(ctx, prompt, s.models)
	if err != nil {
		s.logger.Warn("sql generation failed", zap.Error(err))
		return answer.Structured{Error: "generation failed"}
	}

	query := domwh.SanitizeSQL(raw)
	if query == "" {
		return answer.Structured{Error: "generation failed"}
	}

	if !domwh.IsReadOnly(query) {
		s.logger.Warn("generated statement rejected by read-only guard",
			zap.String("sql", query))
		return answer.Structured{
			SQL:   query,
			Error: "generated statement is not a read-only query",
		}
	}

	cols, rows, err := s.exec.Execute(ctx, query)
	if err != nil {
		// The SQL stays in the result so callers can show what was attempted.
		return answer.Structured{
			SQL:   query,
			Error: fmt.Sprintf("SQL execution failed: %s", err),
		}
	}

	return answer.Structured{
		SQL:      query,
		Columns:  cols,
		Rows:     rows,
		RowCount: len(rows),
		Success:  true,
	}
}

func (s *Service) buildPrompt(ctx context.Context, question string) string {
	var b strings.Builder
	b.WriteString("You are a SQL expert. Generate a valid SQL query.\n\n")
	b.WriteString("Available tables and their columns:\n")

	for _, table := range s.tables {
		cols, err := s.schemas.DescribeTable(ctx, table)
		if err != nil {
			s.logger.Debug("table omitted from prompt",
				zap.String("table", table), zap.Error(err))
			continue
		}
		if len(cols) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", table)
		for _, col := range cols {
			fmt.Fprintf(&b, "  - %s (%s)\n", col.Name, col.Type)
		}
	}

	if len(s.relationships) > 0 {
		b.WriteString("\nTable relationships:\n")
		for _, rel := range s.relationships {
			if len(rel.Columns) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- %s.%s -> %s.%s (%s)\n",
				rel.LeftTable, rel.Columns[0].LeftColumn,
				rel.RightTable, rel.Columns[0].RightColumn,
				rel.Type)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	b.WriteString("Generate ONLY the SQL SELECT query. No explanations, no markdown, just SQL.")
	return b.String()
}
