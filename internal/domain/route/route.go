// Package route defines the backend-route taxonomy for incoming questions.
//
// Both the completion-based classifier and the deterministic keyword
// fallback consume this package, so the set of valid routes cannot drift
// between the two tiers.
package route

import (
	"fmt"
	"strings"
)

// Route is the chosen backend path for a question.
type Route string

const (
	// Structured routes the question to SQL synthesis over warehouse tables.
	Structured Route = "STRUCTURED"
	// Document routes the question to retrieval-augmented answering.
	Document Route = "DOCUMENT"
	// Both dispatches the question to both backends.
	Both Route = "BOTH"
)

// Confidence constants for the two classifier tiers.
const (
	// SemanticConfidence is reported when the completion-based classifier
	// produced a valid decision.
	SemanticConfidence = 0.9
	// FallbackConfidence is reported by the keyword classifier, signaling
	// reduced certainty.
	FallbackConfidence = 0.6
)

// Parse converts a string into a Route, case-insensitively.
func Parse(s string) (Route, error) {
	switch Route(strings.ToUpper(strings.TrimSpace(s))) {
	case Structured:
		return Structured, nil
	case Document:
		return Document, nil
	case Both:
		return Both, nil
	default:
		return "", fmt.Errorf("invalid route %q", s)
	}
}

// String implements fmt.Stringer.
func (r Route) String() string { return string(r) }

// NeedsStructured reports whether the structured path must run.
func (r Route) NeedsStructured() bool { return r == Structured || r == Both }

// NeedsDocument reports whether the document path must run.
func (r Route) NeedsDocument() bool { return r == Document || r == Both }

// Decision is the routing verdict for one question. Produced exactly once
// per question; immutable after construction.
type Decision struct {
	Route      Route   `json:"route"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}
