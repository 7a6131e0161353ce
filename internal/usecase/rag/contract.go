package rag

import (
	"context"

	domfrag "github.com/kailas-cloud/askdex/internal/domain/fragment"
)

// Retriever finds the top-k document fragments for a question, ranked
// descending by similarity. Embedding the question is the store's job.
type Retriever interface {
	TopK(ctx context.Context, question string, k int) ([]domfrag.Retrieved, error)
}

// Completer generates text with a prioritized model fallback list.
type Completer interface {
	Complete(ctx context.Context, prompt string, models []string) (string, error)
}
