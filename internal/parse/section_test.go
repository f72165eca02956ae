package parse

import "testing"

func TestSection(t *testing.T) {
	text := "preamble ---START--- middle ---END--- trailer"

	if got := Section(text, "---START---", "---END---"); got != " middle " {
		t.Fatalf("unexpected section: %q", got)
	}
	if got := Section(text, "---MISSING---", "---END---"); got != "" {
		t.Fatalf("expected empty for missing start, got %q", got)
	}
	if got := Section(text, "---START---", "---MISSING---"); got != "" {
		t.Fatalf("expected empty for missing end, got %q", got)
	}
	if got := Section("", "a", "b"); got != "" {
		t.Fatalf("expected empty for empty input, got %q", got)
	}
}
