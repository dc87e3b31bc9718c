package flowpress

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Top 5 Ways to Invest!", "top-5-ways-to-invest"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple---Separators___Here", "multiple-separators-here"},
		{"Café Culture", "caf-culture"},
		{"already-a-slug", "already-a-slug"},
		{"Trailing Punctuation?!", "trailing-punctuation"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{}
	if got := uniqueSlug("my-post", taken); got != "my-post" {
		t.Errorf("free slug = %q, want %q", got, "my-post")
	}

	taken["my-post"] = true
	if got := uniqueSlug("my-post", taken); got != "my-post-2" {
		t.Errorf("first collision = %q, want %q", got, "my-post-2")
	}

	taken["my-post-2"] = true
	if got := uniqueSlug("my-post", taken); got != "my-post-3" {
		t.Errorf("second collision = %q, want %q", got, "my-post-3")
	}

	// Deterministic for the same taken set.
	if a, b := uniqueSlug("my-post", taken), uniqueSlug("my-post", taken); a != b {
		t.Errorf("uniqueSlug not deterministic: %q vs %q", a, b)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog"}, "https://example.com/blog/"},
		{"https://example.com/", []string{"blog", "tech", "my-post"}, "https://example.com/blog/tech/my-post/"},
		{"http://localhost:3000", []string{"contact"}, "http://localhost:3000/contact/"},
	}

	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestPostLink(t *testing.T) {
	p := Post{Slug: "rise-of-agents", Category: "AI"}
	if got := PostLink(p); got != "/blog/ai/rise-of-agents/" {
		t.Errorf("PostLink = %q, want %q", got, "/blog/ai/rise-of-agents/")
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"a", "", "  ", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("FilterEmpty = %v, want [a b]", got)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	p := Post{
		Title:     "The Rise of Agents",
		Slug:      "the-rise-of-agents",
		Category:  "AI",
		Author:    "Jo",
		Excerpt:   "Agents everywhere.",
		CreatedAt: "2026-01-02T00:00:00Z",
		Tags:      []string{"ai", "agents"},
	}
	st := SiteSettings{SiteName: "Future Flow Hub"}

	got := BlogPostingJsonLD(p, st, "https://example.com")
	for _, want := range []string{
		`"BlogPosting"`,
		`"The Rise of Agents"`,
		`https://example.com/blog/ai/the-rise-of-agents/`,
		`"Jo"`,
		`"Future Flow Hub"`,
		`"ai, agents"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BlogPostingJsonLD missing %s in %s", want, got)
		}
	}
}
