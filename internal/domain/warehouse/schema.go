// Package warehouse holds the structured-data vocabulary: table schemas,
// relationship configuration, and the cleanup applied to model-generated SQL.
package warehouse

// Column describes one table column.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableSchema is a read-only snapshot of a table's columns, fetched fresh
// per synthesizer invocation and never cached across calls.
type TableSchema struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
}

// RelationshipColumn joins one column pair across two tables.
type RelationshipColumn struct {
	LeftColumn  string `yaml:"left_column" json:"left_column"`
	RightColumn string `yaml:"right_column" json:"right_column"`
}

// Relationship is an externally supplied join hint used only to enrich the
// SQL-generation prompt. It is never validated against the live schema.
type Relationship struct {
	LeftTable  string               `yaml:"left_table" json:"left_table"`
	RightTable string               `yaml:"right_table" json:"right_table"`
	Type       string               `yaml:"type" json:"type"`
	Columns    []RelationshipColumn `yaml:"columns" json:"columns"`
}
