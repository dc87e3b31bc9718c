package richtext

import (
	"strings"
	"testing"
)

func TestSanitizeKeepsAllowedMarkup(t *testing.T) {
	in := `<p>Hello <strong>world</strong></p><ul><li>one</li></ul>`
	got := Sanitize(in)
	if got != in {
		t.Errorf("allowed markup should pass through unchanged, got %q", got)
	}
}

func TestSanitizeDropsScriptWithContent(t *testing.T) {
	got := Sanitize(`<p>before</p><script>alert("xss")</script><p>after</p>`)
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Errorf("script and its content should be removed, got %q", got)
	}
	if !strings.Contains(got, "before") || !strings.Contains(got, "after") {
		t.Errorf("surrounding content should survive, got %q", got)
	}
}

func TestSanitizeStripsUnknownTagsKeepsText(t *testing.T) {
	got := Sanitize(`<div><p>kept</p><iframe src="x"></iframe></div>`)
	if strings.Contains(got, "div") || strings.Contains(got, "iframe") {
		t.Errorf("unknown tags should be stripped, got %q", got)
	}
	if !strings.Contains(got, "<p>kept</p>") {
		t.Errorf("nested allowed content should survive, got %q", got)
	}
}

func TestSanitizeWhitelistsAttributes(t *testing.T) {
	got := Sanitize(`<a href="https://example.com" onclick="evil()">link</a>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("event handler attributes must be dropped, got %q", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("href should be kept, got %q", got)
	}

	got = Sanitize(`<img src="javascript:alert(1)" alt="x">`)
	if strings.Contains(got, "javascript") {
		t.Errorf("javascript: URLs must be dropped, got %q", got)
	}
}

func TestSanitizeDanglingBracket(t *testing.T) {
	got := Sanitize(`<p>text</p><a href`)
	if strings.Contains(got, "<a") {
		t.Errorf("dangling tag should be escaped, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	got := StripTags(`<h1>Title</h1><p>Body &amp; more</p>`)
	if got != "Title Body & more" {
		t.Errorf("StripTags = %q, want %q", got, "Title Body & more")
	}
}

func TestExcerpt(t *testing.T) {
	content := `<p>The quick brown fox jumps over the lazy dog and keeps on running into the distance.</p>`

	got := Excerpt(content, 40)
	if len(got) > 45 {
		t.Errorf("excerpt too long: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("long excerpt should end with ellipsis, got %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("excerpt should be plain text, got %q", got)
	}

	short := Excerpt("<p>Short.</p>", 160)
	if short != "Short." {
		t.Errorf("short content should be returned whole, got %q", short)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/page", "https://example.com/page"},
		{"/relative/path", "/relative/path"},
		{"#anchor", "#anchor"},
		{"mailto:a@b.com", "mailto:a@b.com"},
		{"javascript:alert(1)", ""},
		{"data:text/html;base64,xxx", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SafeURL(tt.in); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
