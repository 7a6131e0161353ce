package warehouse

import "testing"

func TestSanitizeSQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced with language", "```sql\nSELECT 1;\n```", "SELECT 1"},
		{"bare fence", "```\nSELECT a FROM t\n```", "SELECT a FROM t"},
		{"sql label", "SQL: SELECT * FROM orders;", "SELECT * FROM orders"},
		{"query label", "Query:\nSELECT name FROM customers", "SELECT name FROM customers"},
		{"label inside fence", "```sql\nSQL: SELECT 1\n```", "SELECT 1"},
		{"plain", "SELECT COUNT(*) FROM payments", "SELECT COUNT(*) FROM payments"},
		{"trailing terminator only", "SELECT 1;", "SELECT 1"},
		{"whitespace", "  \n SELECT 1 \n ", "SELECT 1"},
		{"empty", "", ""},
		{"single terminator stripped", "SELECT 1;;", "SELECT 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeSQL(tt.in); got != tt.want {
				t.Errorf("SanitizeSQL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsReadOnly(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT * FROM orders", true},
		{"select 1", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"with recursive c as (select 1) select * from c", true},
		{"DROP TABLE orders", false},
		{"DELETE FROM customers", false},
		{"UPDATE orders SET total = 0", false},
		{"INSERT INTO t VALUES (1)", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := IsReadOnly(tt.sql); got != tt.want {
			t.Errorf("IsReadOnly(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}
