// Package fragment implements the fragment store client: given a question,
// it returns the top-K stored document fragments ranked by cosine
// similarity. Embedding the question is this client's responsibility; the
// answering pipeline never computes vectors.
package fragment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/askdex/internal/db"
	domfrag "github.com/kailas-cloud/askdex/internal/domain/fragment"
	"github.com/kailas-cloud/askdex/internal/metrics"
)

// Hash field names written by the ingestion pipeline.
const (
	fieldSourceID = "source_id"
	fieldIndex    = "fragment_index"
	fieldContent  = "content"
)

// store is the consumer interface for retrieval operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Embedder vectorizes question text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Repo implements usecase/rag.Retriever.
type Repo struct {
	store store
	embed Embedder
	index string
}

// New creates a fragment store client over the given index.
func New(s store, embed Embedder, index string) *Repo {
	return &Repo{store: s, embed: embed, index: index}
}

// TopK returns up to k fragments ranked descending by similarity to the
// question. A store holding fewer than k fragments returns exactly that
// many; zero hits is an empty slice, not an error.
func (r *Repo) TopK(ctx context.Context, question string, k int) ([]domfrag.Retrieved, error) {
	vec, err := r.embed.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		Vector:       vec,
		K:            k,
		ReturnFields: []string{fieldSourceID, fieldIndex, fieldContent, "__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", r.index, err)
	}

	retrieved := parseEntries(sr)
	metrics.RetrievalFragmentsReturned.Observe(float64(len(retrieved)))
	return retrieved, nil
}

func parseEntries(sr *db.SearchResult) []domfrag.Retrieved {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	out := make([]domfrag.Retrieved, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		idx, _ := strconv.Atoi(entry.Fields[fieldIndex])
		out = append(out, domfrag.Retrieved{
			Fragment: domfrag.Fragment{
				SourceID: entry.Fields[fieldSourceID],
				Index:    idx,
				Content:  entry.Fields[fieldContent],
			},
			Similarity: entry.Score,
		})
	}
	return out
}
