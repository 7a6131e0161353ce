// Package fragment holds the retrieval unit for the document path: a chunk
// of a source document paired with its embedding, owned by the external
// fragment store and never mutated here.
package fragment

// Fragment is one stored document chunk. Immutable once created.
type Fragment struct {
	SourceID string
	Index    int
	Content  string
	// Embedding is populated only when the store returns vectors; the
	// answering pipeline never reads it.
	Embedding []float32
}

// Retrieved pairs a fragment with its cosine similarity to the question.
// Ephemeral: lifetime is a single retrieval call.
type Retrieved struct {
	Fragment   Fragment
	Similarity float64
}

// PreviewLen bounds the source preview attached to answers. Full fragment
// text never leaves the retrieval layer in a response.
const PreviewLen = 200

// SourceRef is the single provenance shape carried through the system.
type SourceRef struct {
	SourceID   string  `json:"source_id"`
	Index      int     `json:"fragment_index"`
	Similarity float64 `json:"similarity"`
	Preview    string  `json:"preview"`
}

// Ref builds the provenance entry for a retrieved fragment, truncating the
// content to PreviewLen runes.
func (r Retrieved) Ref() SourceRef {
	return SourceRef{
		SourceID:   r.Fragment.SourceID,
		Index:      r.Fragment.Index,
		Similarity: r.Similarity,
		Preview:    preview(r.Fragment.Content),
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLen {
		return content
	}
	return string(runes[:PreviewLen]) + "..."
}
