// Package db defines the narrow contract askdex needs from the fragment
// store backend: connectivity checks and KNN search. The store is
// pre-populated by the ingestion pipeline; nothing in this service writes
// to it.
package db

import (
	"context"
	"time"
)

// Store is the fragment store facade.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs vector similarity queries.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Score is cosine similarity in [0,1]
// after distance conversion.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
