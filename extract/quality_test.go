package extract

import "testing"

func TestPrintableRatio(t *testing.T) {
	if r := printableRatio("normal readable text"); r != 1.0 {
		t.Errorf("clean text ratio = %f, want 1.0", r)
	}
	garbage := "ok"
	if r := printableRatio(garbage); r > 0.5 {
		t.Errorf("PUA-heavy text ratio = %f, want <= 0.5", r)
	}
	if r := printableRatio(""); r != 1.0 {
		t.Errorf("empty text ratio = %f, want 1.0", r)
	}
}

func TestWordlikeRatio(t *testing.T) {
	if r := wordlikeRatio("these are normal words"); r != 1.0 {
		t.Errorf("normal words ratio = %f, want 1.0", r)
	}
	if r := wordlikeRatio("a b c d"); r != 0 {
		t.Errorf("single-char tokens ratio = %f, want 0", r)
	}
	if r := wordlikeRatio(""); r != 0 {
		t.Errorf("empty text ratio = %f, want 0", r)
	}
}

func TestNeedsOCR(t *testing.T) {
	tests := []struct {
		name string
		q    Quality
		want bool
	}{
		{"scanned images, no text", Quality{CharsPerPage: 5, HasImageStreams: true, PrintableRatio: 1}, true},
		{"broken font encoding", Quality{CharsPerPage: 2000, PrintableRatio: 0.4}, true},
		{"healthy text layer", Quality{CharsPerPage: 2000, PrintableRatio: 0.99}, false},
		{"sparse text without images", Quality{CharsPerPage: 10, PrintableRatio: 1}, false},
	}
	for _, tt := range tests {
		if got := tt.q.NeedsOCR(); got != tt.want {
			t.Errorf("%s: NeedsOCR = %v, want %v", tt.name, got, tt.want)
		}
	}
}
