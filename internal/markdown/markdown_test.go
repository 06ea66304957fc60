package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	html, err := ToHTML("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}

	if !strings.Contains(html, "<h1") {
		t.Errorf("expected h1 tag in output: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("expected bold text in output: %s", html)
	}
}

func TestToHTMLGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |"
	html, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected table in output: %s", html)
	}
}

func TestToHTMLRawHTMLPassthrough(t *testing.T) {
	html, err := ToHTML(`<div class="callout">hi</div>`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(html, `<div class="callout">`) {
		t.Errorf("expected raw HTML passed through: %s", html)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"plain words", "one two three", 3},
		{"empty", "", 0},
		{"markdown syntax ignored", "# Heading\n\n- item one\n- item two", 5},
		{"bold markers ignored", "some **bold** text", 3},
		{"html tags ignored", "<p>hello world</p>", 2},
		{"urls ignored", "see https://example.com/path for details", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.source); got != tt.want {
				t.Errorf("WordCount(%q) = %d, want %d", tt.source, got, tt.want)
			}
		})
	}
}
