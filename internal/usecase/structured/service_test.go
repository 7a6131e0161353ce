package structured

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	domwh "github.com/kailas-cloud/askdex/internal/domain/warehouse"
)

type stubCompleter struct {
	resp   string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ []string) (string, error) {
	s.prompt = prompt
	return s.resp, s.err
}

type stubInspector struct {
	schemas map[string][]domwh.Column
	errs    map[string]error
}

func (s *stubInspector) DescribeTable(_ context.Context, table string) ([]domwh.Column, error) {
	if err := s.errs[table]; err != nil {
		return nil, err
	}
	return s.schemas[table], nil
}

type stubExecutor struct {
	cols []string
	rows []map[string]any
	err  error
	sql  string
}

func (s *stubExecutor) Execute(_ context.Context, query string) ([]string, []map[string]any, error) {
	s.sql = query
	return s.cols, s.rows, s.err
}

func twoTables() *stubInspector {
	return &stubInspector{schemas: map[string][]domwh.Column{
		"ORDERS": {
			{Name: "ORDER_ID", Type: "INTEGER"},
			{Name: "CUSTOMER_ID", Type: "INTEGER"},
			{Name: "TOTAL", Type: "REAL"},
		},
		"CUSTOMERS": {
			{Name: "CUSTOMER_ID", Type: "INTEGER"},
			{Name: "NAME", Type: "TEXT"},
		},
	}}
}

func TestSynthesize_Success(t *testing.T) {
	completer := &stubCompleter{resp: "```sql\nSELECT NAME, SUM(TOTAL) AS T FROM ORDERS GROUP BY NAME;\n```"}
	exec := &stubExecutor{
		cols: []string{"NAME", "T"},
		rows: []map[string]any{
			{"NAME": "Acme", "T": 350.0},
			{"NAME": "Globex", "T": 10.0},
		},
	}
	svc := New(completer, twoTables(), exec,
		[]string{"llama3-8b"}, []string{"ORDERS", "CUSTOMERS"}, nil, zap.NewNop())

	res := svc.Synthesize(context.Background(), "total by customer")
	if !res.Success {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if res.SQL != "SELECT NAME, SUM(TOTAL) AS T FROM ORDERS GROUP BY NAME" {
		t.Errorf("sanitized sql = %q", res.SQL)
	}
	if exec.sql != res.SQL {
		t.Errorf("executed %q, reported %q", exec.sql, res.SQL)
	}
	if res.RowCount != 2 || len(res.Rows) != 2 {
		t.Errorf("row count = %d", res.RowCount)
	}
	if len(res.Columns) != 2 || res.Columns[0] != "NAME" {
		t.Errorf("columns = %v", res.Columns)
	}
}

func TestSynthesize_PromptContent(t *testing.T) {
	completer := &stubCompleter{resp: "SELECT 1"}
	rels := []domwh.Relationship{{
		LeftTable: "ORDERS", RightTable: "CUSTOMERS", Type: "many_to_one",
		Columns: []domwh.RelationshipColumn{{LeftColumn: "CUSTOMER_ID", RightColumn: "CUSTOMER_ID"}},
	}}
	svc := New(completer, twoTables(), &stubExecutor{},
		[]string{"llama3-8b"}, []string{"ORDERS", "CUSTOMERS"}, rels, zap.NewNop())

	svc.Synthesize(context.Background(), "who ordered the most?")

	for _, want := range []string{
		"ORDERS:",
		"CUSTOMERS:",
		"  - ORDER_ID (INTEGER)",
		"- ORDERS.CUSTOMER_ID -> CUSTOMERS.CUSTOMER_ID (many_to_one)",
		"Question: who ordered the most?",
	} {
		if !strings.Contains(completer.prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, completer.prompt)
		}
	}
}

func TestSynthesize_UnreadableTableOmitted(t *testing.T) {
	completer := &stubCompleter{resp: "SELECT 1"}
	insp := twoTables()
	insp.errs = map[string]error{"CUSTOMERS": errors.New("connection reset")}
	svc := New(completer, insp, &stubExecutor{},
		[]string{"llama3-8b"}, []string{"ORDERS", "CUSTOMERS"}, nil, zap.NewNop())

	res := svc.Synthesize(context.Background(), "anything")
	if !res.Success {
		t.Fatalf("schema failure for one table must not be fatal: %s", res.Error)
	}
	if strings.Contains(completer.prompt, "CUSTOMERS:") {
		t.Error("unreadable table must be omitted from the prompt")
	}
	if !strings.Contains(completer.prompt, "ORDERS:") {
		t.Error("readable table must stay in the prompt")
	}
}

func TestSynthesize_GenerationFailure(t *testing.T) {
	tests := []struct {
		name string
		stub *stubCompleter
	}{
		{"completer error", &stubCompleter{err: errors.New("all models failed")}},
		{"empty after sanitize", &stubCompleter{resp: "```sql\n```"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &stubExecutor{}
			svc := New(tt.stub, twoTables(), exec,
				[]string{"llama3-8b"}, []string{"ORDERS"}, nil, zap.NewNop())

			res := svc.Synthesize(context.Background(), "anything")
			if res.Success {
				t.Fatal("expected failure")
			}
			if res.Error != "generation failed" {
				t.Errorf("error = %q, want \"generation failed\"", res.Error)
			}
			if exec.sql != "" {
				t.Error("nothing must be executed when generation fails")
			}
		})
	}
}

func TestSynthesize_ReadOnlyGuard(t *testing.T) {
	completer := &stubCompleter{resp: "DROP TABLE ORDERS"}
	exec := &stubExecutor{}
	svc := New(completer, twoTables(), exec,
		[]string{"llama3-8b"}, []string{"ORDERS"}, nil, zap.NewNop())

	res := svc.Synthesize(context.Background(), "delete everything")
	if res.Success {
		t.Fatal("non-read-only statement must be rejected")
	}
	if res.SQL != "DROP TABLE ORDERS" {
		t.Errorf("rejected SQL must be preserved, got %q", res.SQL)
	}
	if exec.sql != "" {
		t.Error("rejected statement must never reach the executor")
	}
}

func TestSynthesize_ExecutionError(t *testing.T) {
	completer := &stubCompleter{resp: "SELECT * FROM MISSING"}
	exec := &stubExecutor{err: errors.New("no such table: MISSING")}
	svc := New(completer, twoTables(), exec,
		[]string{"llama3-8b"}, []string{"ORDERS"}, nil, zap.NewNop())

	res := svc.Synthesize(context.Background(), "anything")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.SQL != "SELECT * FROM MISSING" {
		t.Errorf("failed SQL must be preserved, got %q", res.SQL)
	}
	if !strings.Contains(res.Error, "no such table: MISSING") {
		t.Errorf("error must carry the executor message, got %q", res.Error)
	}
}
