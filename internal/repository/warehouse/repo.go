// Package warehouse implements the structured query executor and schema
// inspector over database/sql.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	domwh "github.com/kailas-cloud/askdex/internal/domain/warehouse"
)

// Repo implements usecase/structured.Executor and SchemaInspector.
type Repo struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates a warehouse repository over an open database handle.
func New(db *sql.DB, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{db: db, logger: logger}
}

// Open connects to the warehouse and verifies connectivity.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Repo, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}
	return New(db, logger), nil
}

// Close releases the underlying handle.
func (r *Repo) Close() error { return r.db.Close() }

// DescribeTable returns the column metadata for a table. An unknown table
// yields an empty slice, not an error, so the synthesizer can simply omit
// it from the prompt.
func (r *Repo) DescribeTable(ctx context.Context, table string) ([]domwh.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, type, [notnull] FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	var cols []domwh.Column
	for rows.Next() {
		var name, typ string
		var notNull int
		if err := rows.Scan(&name, &typ, &notNull); err != nil {
			return nil, fmt.Errorf("describe %s: scan: %w", table, err)
		}
		cols = append(cols, domwh.Column{
			Name:     name,
			Type:     typ,
			Nullable: notNull == 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	return cols, nil
}

// Execute runs a query and returns ordered column names plus rows with
// values normalized to JSON-representable types. Column order from the
// query result is preserved.
func (r *Repo) Execute(ctx context.Context, query string) ([]string, []map[string]any, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}

	var out []map[string]any
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}

	r.logger.Debug("warehouse query executed",
		zap.Int("rows", len(out)),
		zap.Duration("latency", time.Since(start)),
	)
	return cols, out, nil
}

// normalizeValue converts driver values into JSON-representable types:
// byte slices become strings, timestamps become RFC 3339 strings, and any
// other non-primitive falls back to its string form.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool, int64, float64, string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
