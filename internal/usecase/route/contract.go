package route

import "context"

// Completer generates text with a prioritized model fallback list.
type Completer interface {
	Complete(ctx context.Context, prompt string, models []string) (string, error)
}
