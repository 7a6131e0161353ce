package ask

import (
	"context"

	"github.com/kailas-cloud/askdex/internal/domain/answer"
	domroute "github.com/kailas-cloud/askdex/internal/domain/route"
)

// Router classifies a question into a backend route. It never fails.
type Router interface {
	Route(ctx context.Context, question string) domroute.Decision
}

// Synthesizer runs the structured path. Failures are encoded in the result.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string) answer.Structured
}

// Answerer runs the document path. Failures are encoded in the result.
type Answerer interface {
	Answer(ctx context.Context, question string, k int) answer.RAG
}
