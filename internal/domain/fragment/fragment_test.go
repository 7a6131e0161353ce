package fragment

import (
	"strings"
	"testing"
)

func TestRef_ShortContent(t *testing.T) {
	r := Retrieved{
		Fragment:   Fragment{SourceID: "report.pdf", Index: 3, Content: "short text"},
		Similarity: 0.83,
	}

	ref := r.Ref()
	if ref.SourceID != "report.pdf" || ref.Index != 3 {
		t.Errorf("unexpected ref identity: %+v", ref)
	}
	if ref.Similarity != 0.83 {
		t.Errorf("similarity = %v, want 0.83", ref.Similarity)
	}
	if ref.Preview != "short text" {
		t.Errorf("short content must not be truncated, got %q", ref.Preview)
	}
}

func TestRef_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", PreviewLen*3)
	r := Retrieved{Fragment: Fragment{Content: long}}

	ref := r.Ref()
	if len([]rune(ref.Preview)) != PreviewLen+3 {
		t.Errorf("preview length = %d, want %d", len([]rune(ref.Preview)), PreviewLen+3)
	}
	if !strings.HasSuffix(ref.Preview, "...") {
		t.Error("truncated preview must end with ellipsis")
	}
}

func TestRef_MultibyteBoundary(t *testing.T) {
	long := strings.Repeat("ä", PreviewLen+50)
	r := Retrieved{Fragment: Fragment{Content: long}}

	ref := r.Ref()
	if strings.ContainsRune(ref.Preview, '�') {
		t.Error("preview split a multibyte rune")
	}
}
