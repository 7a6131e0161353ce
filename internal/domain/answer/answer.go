// Package answer defines the result shapes produced by the two answer
// pipelines and the combined response returned to callers.
package answer

import (
	"github.com/kailas-cloud/askdex/internal/domain/fragment"
	"github.com/kailas-cloud/askdex/internal/domain/route"
)

// Structured is the outcome of one SQL-synthesis invocation.
type Structured struct {
	SQL      string           `json:"sql"`
	Columns  []string         `json:"columns,omitempty"`
	Rows     []map[string]any `json:"rows,omitempty"`
	RowCount int              `json:"row_count"`
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
}

// RAG is the outcome of one retrieval-augmented answering invocation.
type RAG struct {
	Answer  string               `json:"answer"`
	Sources []fragment.SourceRef `json:"sources"`
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
}

// Combined is the terminal artifact for one question. Built once, never
// mutated after construction. MergedText is never empty: when neither path
// produced usable text it holds a fixed sentinel.
type Combined struct {
	ID         string         `json:"id"`
	Question   string         `json:"question"`
	Decision   route.Decision `json:"classification"`
	Structured *Structured    `json:"structured,omitempty"`
	RAG        *RAG           `json:"rag,omitempty"`
	MergedText string         `json:"merged_text"`
}
