// Package rag answers questions from retrieved document fragments.
package rag

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain/answer"
	domfrag "github.com/kailas-cloud/askdex/internal/domain/fragment"
)

// noContextAnswer is returned when retrieval finds nothing. An empty store
// is a defined result state, not an error.
const noContextAnswer = "I couldn't find any relevant information in the documents. Please try rephrasing your question."

// Models still leak retrieval bookkeeping into answers despite the prompt
// instructions, so residual markers are scrubbed afterwards.
var (
	chunkRefPattern  = regexp.MustCompile(`(?i)\bchunk\s*\[?\d+\]?`)
	fileRefPattern   = regexp.MustCompile(`\[?\d+\]?\s*\(file:.*?\)`)
	bareFilePattern  = regexp.MustCompile(`\(file:.*?\)`)
	blankRunsPattern = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// Service produces natural-language answers with source provenance.
type Service struct {
	retrieve Retriever
	complete Completer
	models   []string
	logger   *zap.Logger
}

// New creates an answerer service. models is the ordered preference list
// for the answer completion.
func New(retrieve Retriever, complete Completer, models []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retrieve: retrieve, complete: complete, models: models, logger: logger}
}

// Answer retrieves the top-k fragments for a question and generates an
// answer grounded in them. Sources are attached in ranking order with
// bounded previews. Retrieval and generation failures are captured in the
// result, never surfaced as errors.
func (s *Service) Answer(ctx context.Context, question string, k int) answer.RAG {
	fragments, err := s.retrieve.TopK(ctx, question, k)
	if err != nil {
		s.logger.Warn("fragment retrieval failed", zap.Error(err))
		return answer.RAG{Error: err.Error()}
	}
	if len(fragments) == 0 {
		return answer.RAG{Answer: noContextAnswer, Sources: []domfrag.SourceRef{}}
	}

	raw, err := s.complete.Complete(ctx, buildPrompt(question, fragments), s.models)
	if err != nil {
		s.logger.Warn("answer generation failed", zap.Error(err))
		return answer.RAG{Error: err.Error()}
	}

	sources := make([]domfrag.SourceRef, 0, len(fragments))
	for _, f := range fragments {
		sources = append(sources, f.Ref())
	}

	return answer.RAG{
		Answer:  cleanAnswer(raw),
		Sources: sources,
		Success: true,
	}
}

func buildPrompt(question string, fragments []domfrag.Retrieved) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant that answers questions based on the provided document context. ")
	b.WriteString("Provide a clear, detailed, and comprehensive answer to the user's question. ")
	b.WriteString("Use only the information from the context below. ")
	b.WriteString("If the answer is not in the context, politely say you don't have that information.\n\n")
	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("- Do NOT mention chunks, chunk numbers, files, or any technical details in your answer\n")
	b.WriteString("- Do NOT reference the context structure (e.g., 'in chunk [1]', 'according to file X')\n")
	b.WriteString("- Provide a natural, flowing answer as if you're an expert on the topic\n")
	b.WriteString("- Synthesize information from all relevant parts of the context\n")
	b.WriteString("- Write in a clear, professional manner\n\n")

	b.WriteString("Context from documents:\n")
	for i, f := range fragments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(f.Fragment.Content)
	}

	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer (provide a clear, detailed response without mentioning chunks or files):")
	return b.String()
}

// cleanAnswer removes leftover retrieval markers and collapses runs of
// blank lines.
func cleanAnswer(s string) string {
	s = chunkRefPattern.ReplaceAllString(s, "")
	s = fileRefPattern.ReplaceAllString(s, "")
	s = bareFilePattern.ReplaceAllString(s, "")
	s = blankRunsPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
