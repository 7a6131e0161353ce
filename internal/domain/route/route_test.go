package route

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Route
		wantErr bool
	}{
		{"STRUCTURED", Structured, false},
		{"DOCUMENT", Document, false},
		{"BOTH", Both, false},
		{"structured", Structured, false},
		{" both \n", Both, false},
		{"ANALYTICS", "", true},
		{"", "", true},
		{"ALL", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNeeds(t *testing.T) {
	if !Structured.NeedsStructured() || Structured.NeedsDocument() {
		t.Error("Structured should need only the structured path")
	}
	if Document.NeedsStructured() || !Document.NeedsDocument() {
		t.Error("Document should need only the document path")
	}
	if !Both.NeedsStructured() || !Both.NeedsDocument() {
		t.Error("Both should need both paths")
	}
}
