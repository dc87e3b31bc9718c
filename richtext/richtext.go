// Package richtext handles the rich HTML bodies produced by the admin
// editor: sanitizing user-supplied markup down to a safe tag set and
// deriving plain-text excerpts for listings and meta descriptions.
package richtext

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// allowedTags maps permitted element names to the attributes kept on them.
// Everything else is stripped; script and style lose their content too.
var allowedTags = map[string][]string{
	"p": nil, "br": nil, "hr": nil,
	"h1": nil, "h2": nil, "h3": nil, "h4": nil,
	"strong": nil, "b": nil, "em": nil, "i": nil, "u": nil, "s": nil,
	"ul": nil, "ol": nil, "li": nil,
	"blockquote": nil, "code": nil, "pre": nil,
	"a":   {"href"},
	"img": {"src", "alt", "width", "height"},
}

var (
	reTagName = regexp.MustCompile(`^</?\s*([a-zA-Z][a-zA-Z0-9]*)`)
	reAttr    = regexp.MustCompile(`([a-zA-Z-]+)\s*=\s*("([^"]*)"|'([^']*)')`)
)

// Sanitize reduces raw editor HTML to the allowed tag set. Unknown tags are
// dropped (their text content kept), script/style content is removed
// entirely, attributes are whitelisted per tag, and every URL attribute is
// passed through SafeURL.
func Sanitize(raw string) string {
	var b strings.Builder
	s := raw
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:lt])
		s = s[lt:]
		gt := strings.Index(s, ">")
		if gt < 0 {
			// Dangling "<" with no closing bracket: escape and stop.
			b.WriteString(html.EscapeString(s))
			break
		}
		tag := s[:gt+1]
		s = s[gt+1:]

		m := reTagName.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		name := strings.ToLower(m[1])

		if name == "script" || name == "style" {
			if !strings.HasPrefix(tag, "</") {
				// Drop everything up to and including the closing tag.
				if end := strings.Index(strings.ToLower(s), "</"+name); end >= 0 {
					s = s[end:]
					if gt2 := strings.Index(s, ">"); gt2 >= 0 {
						s = s[gt2+1:]
					} else {
						s = ""
					}
				} else {
					s = ""
				}
			}
			continue
		}

		attrs, known := allowedTags[name]
		if !known {
			continue
		}
		if strings.HasPrefix(tag, "</") {
			b.WriteString("</" + name + ">")
			continue
		}
		b.WriteString("<" + name)
		for _, am := range reAttr.FindAllStringSubmatch(tag, -1) {
			attrName := strings.ToLower(am[1])
			if !contains(attrs, attrName) {
				continue
			}
			val := am[3]
			if val == "" {
				val = am[4]
			}
			if attrName == "href" || attrName == "src" {
				val = SafeURL(val)
				if val == "" {
					continue
				}
			} else {
				val = html.EscapeString(html.UnescapeString(val))
			}
			b.WriteString(` ` + attrName + `="` + val + `"`)
		}
		if strings.HasSuffix(tag, "/>") || name == "br" || name == "hr" || name == "img" {
			b.WriteString("/>")
		} else {
			b.WriteString(">")
		}
	}
	return b.String()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// StripTags removes all markup and returns the unescaped text content with
// whitespace collapsed.
func StripTags(raw string) string {
	var b strings.Builder
	s := raw
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:lt])
		b.WriteString(" ")
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			break
		}
		s = s[lt+gt+1:]
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

// Excerpt derives a plain-text summary of at most max characters from HTML
// content, cutting at a word boundary with a trailing ellipsis.
func Excerpt(content string, max int) string {
	text := StripTags(content)
	if len(text) <= max {
		return text
	}
	cut := text[:max]
	if sp := strings.LastIndex(cut, " "); sp > 0 {
		cut = cut[:sp]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
