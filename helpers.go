package flowpress

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug: lowercase, [a-z0-9-] only,
// no consecutive hyphens, no trailing hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// uniqueSlug disambiguates base against taken slugs by appending a counter:
// base, base-2, base-3, ... The result is deterministic for a given set.
func uniqueSlug(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostLink returns the public path of a post: /blog/<category-slug>/<slug>/.
func PostLink(p Post) string {
	return "/blog/" + Slugify(p.Category) + "/" + p.Slug + "/"
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema from the
// current site settings.
func WebsiteJsonLD(st SiteSettings, baseURL string) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        st.SiteName,
		"url":         BuildURL(baseURL),
		"description": st.Description,
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(p Post, st SiteSettings, baseURL string) string {
	postURL := BuildURL(baseURL, "blog", Slugify(p.Category), p.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      p.Title,
		"description":   p.Excerpt,
		"datePublished": p.CreatedAt,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if p.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  p.Author,
		}
	}
	if st.SiteName != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  st.SiteName,
		}
	}
	if len(p.Tags) > 0 {
		data["keywords"] = strings.Join(p.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
