package structured

import (
	"context"

	domwh "github.com/kailas-cloud/askdex/internal/domain/warehouse"
)

// SchemaInspector reads column metadata for warehouse tables. An unknown
// table yields an empty slice, not an error.
type SchemaInspector interface {
	DescribeTable(ctx context.Context, table string) ([]domwh.Column, error)
}

// Executor runs SQL against the warehouse and returns ordered columns plus
// rows keyed by column name.
type Executor interface {
	Execute(ctx context.Context, query string) ([]string, []map[string]any, error)
}

// Completer generates text with a prioritized model fallback list.
type Completer interface {
	Complete(ctx context.Context, prompt string, models []string) (string, error)
}
