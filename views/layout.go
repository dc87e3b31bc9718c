// Package views provides the default templ components for every flowpress
// page. Sites wanting custom templates supply their own ViewFuncs; these
// defaults make the engine usable out of the box.
package views

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	flowpress "github.com/futureflow/flowpress"
)

// component adapts a plain writer function into a templ.Component.
func component(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(w)
	})
}

func esc(s string) string {
	return html.EscapeString(s)
}

func fontStack(st flowpress.SiteSettings) string {
	switch st.FontFamily {
	case flowpress.FontMerriweather:
		return `Merriweather, Georgia, serif`
	case flowpress.FontSpaceGrotesk:
		return `'Space Grotesk', sans-serif`
	default:
		return `Inter, system-ui, sans-serif`
	}
}

// writeHead emits the shared document head: theme, layout and brand color
// all come from the settings singleton.
func writeHead(w io.Writer, st flowpress.SiteSettings, title, description string) {
	if title == "" {
		title = st.SiteName
	}
	if description == "" {
		description = st.Description
	}
	io.WriteString(w, `<!DOCTYPE html><html lang="en" class="`+esc(st.ThemeMode)+`"><head>`)
	io.WriteString(w, `<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	io.WriteString(w, `<title>`+esc(title)+`</title>`)
	io.WriteString(w, `<meta name="description" content="`+esc(description)+`">`)
	if st.FaviconURL != "" {
		io.WriteString(w, `<link rel="icon" href="`+esc(st.FaviconURL)+`">`)
	}
	io.WriteString(w, `<style>:root{--primary:`+esc(st.PrimaryColor)+`}body{font-family:`+fontStack(st)+`;margin:0}`)
	if st.LayoutMode == flowpress.LayoutBoxed {
		io.WriteString(w, `main{max-width:960px;margin:0 auto;padding:0 1rem}`)
	} else {
		io.WriteString(w, `main{max-width:1400px;margin:0 auto;padding:0 2rem}`)
	}
	if st.ThemeMode == flowpress.ThemeDark {
		io.WriteString(w, `body{background:#0f172a;color:#e2e8f0}a{color:var(--primary)}`)
	} else {
		io.WriteString(w, `body{background:#fff;color:#1e293b}a{color:var(--primary)}`)
	}
	io.WriteString(w, `</style></head><body>`)
}

func writeHeader(w io.Writer, st flowpress.SiteSettings) {
	io.WriteString(w, `<header><nav><a href="/">`)
	if st.LogoURL != "" {
		io.WriteString(w, `<img src="`+esc(st.LogoURL)+`" alt="`+esc(st.SiteName)+`" height="36">`)
	} else {
		io.WriteString(w, `<strong>`+esc(st.SiteName)+`</strong>`)
	}
	io.WriteString(w, `</a> <a href="/blog/">Blog</a> <a href="/contact/">Contact</a> <a href="/privacy/">Privacy</a></nav></header><main>`)
}

func writeFooter(w io.Writer, st flowpress.SiteSettings) {
	io.WriteString(w, `</main><footer><p>`+esc(st.Tagline)+`</p><p>`)
	social := []struct{ name, link string }{
		{"Facebook", st.SocialLinks.Facebook},
		{"Twitter", st.SocialLinks.Twitter},
		{"WhatsApp", st.SocialLinks.WhatsApp},
		{"Instagram", st.SocialLinks.Instagram},
	}
	for _, s := range social {
		if s.link != "" {
			io.WriteString(w, `<a href="`+esc(s.link)+`" rel="noopener noreferrer">`+s.name+`</a> `)
		}
	}
	io.WriteString(w, `</p></footer></body></html>`)
}

func writeMsg(w io.Writer, msg string) {
	if msg != "" {
		io.WriteString(w, `<p class="notice" role="status">`+esc(msg)+`</p>`)
	}
}

func writePostCard(w io.Writer, p flowpress.Post) {
	io.WriteString(w, `<article class="card">`)
	if p.CoverImage != "" {
		io.WriteString(w, `<img src="`+esc(p.CoverImage)+`" alt="" loading="lazy">`)
	}
	io.WriteString(w, `<h3><a href="`+esc(flowpress.PostLink(p))+`">`+esc(p.Title)+`</a></h3>`)
	if p.Category != "" {
		io.WriteString(w, `<span class="category">`+esc(p.Category)+`</span> `)
	}
	io.WriteString(w, `<p>`+esc(p.Excerpt)+`</p></article>`)
}
