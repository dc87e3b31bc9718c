package views

import (
	"io"
	"strconv"

	"github.com/a-h/templ"

	flowpress "github.com/futureflow/flowpress"
)

// Home renders the landing page: featured posts first, then recent ones.
func Home(featured, recent []flowpress.Post, cats []flowpress.Category, st flowpress.SiteSettings) templ.Component {
	return component(func(w io.Writer) error {
		writeHead(w, st, "", "")
		writeHeader(w, st)
		io.WriteString(w, `<h1>`+esc(st.SiteName)+`</h1><p>`+esc(st.Tagline)+`</p>`)
		if len(featured) > 0 {
			io.WriteString(w, `<section><h2>Featured</h2>`)
			for _, p := range featured {
				writePostCard(w, p)
			}
			io.WriteString(w, `</section>`)
		}
		io.WriteString(w, `<section><h2>Latest</h2>`)
		for _, p := range recent {
			writePostCard(w, p)
		}
		io.WriteString(w, `</section><section><h2>Topics</h2><ul>`)
		for _, c := range cats {
			io.WriteString(w, `<li><a href="/blog/?category=`+esc(c.Slug)+`">`+esc(c.Name)+`</a></li>`)
		}
		io.WriteString(w, `</ul></section>`)
		writeFooter(w, st)
		return nil
	})
}

// BlogList renders the searchable, filterable listing of published posts.
func BlogList(posts []flowpress.Post, cats []flowpress.Category, activeCategory, query string, st flowpress.SiteSettings) templ.Component {
	return component(func(w io.Writer) error {
		writeHead(w, st, "Blog — "+st.SiteName, "")
		writeHeader(w, st)
		io.WriteString(w, `<h1>Blog</h1>`)
		io.WriteString(w, `<form method="get" action="/blog/"><input type="search" name="q" value="`+esc(query)+`" placeholder="Search posts">`)
		io.WriteString(w, `<select name="category"><option value="">All categories</option>`)
		for _, c := range cats {
			selected := ""
			if c.Slug == activeCategory {
				selected = ` selected`
			}
			io.WriteString(w, `<option value="`+esc(c.Slug)+`"`+selected+`>`+esc(c.Name)+`</option>`)
		}
		io.WriteString(w, `</select><button type="submit">Filter</button></form>`)
		if len(posts) == 0 {
			io.WriteString(w, `<p>No posts found.</p>`)
		}
		for _, p := range posts {
			writePostCard(w, p)
		}
		writeFooter(w, st)
		return nil
	})
}

// PostDetail renders a single published post with comments and related
// reading.
func PostDetail(post flowpress.Post, related []flowpress.Post, st flowpress.SiteSettings, msg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		title := post.MetaTitle
		if title == "" {
			title = post.Title + " — " + st.SiteName
		}
		description := post.MetaDescription
		if description == "" {
			description = post.Excerpt
		}
		writeHead(w, st, title, description)
		writeHeader(w, st)
		writeMsg(w, msg)
		io.WriteString(w, `<article><h1>`+esc(post.Title)+`</h1>`)
		io.WriteString(w, `<p class="byline">`+esc(post.Author)+` · `+esc(post.Category)+`</p>`)
		if post.CoverImage != "" {
			io.WriteString(w, `<img src="`+esc(post.CoverImage)+`" alt="">`)
		}
		// Post content is sanitized at save time; render as-is.
		io.WriteString(w, post.Content)
		io.WriteString(w, `</article>`)

		io.WriteString(w, `<section><h2>Comments (`+strconv.Itoa(len(post.Comments))+`)</h2>`)
		for _, cm := range post.Comments {
			io.WriteString(w, `<div class="comment"><strong>`+esc(cm.Author)+`</strong><p>`+esc(cm.Body)+`</p></div>`)
		}
		io.WriteString(w, `<form method="post" action="`+esc(flowpress.PostLink(post))+`comment/">`)
		io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`">`)
		io.WriteString(w, `<input name="author" placeholder="Name"><textarea name="body" required placeholder="Your comment"></textarea>`)
		io.WriteString(w, `<button type="submit">Post comment</button></form></section>`)

		if len(related) > 0 {
			io.WriteString(w, `<section><h2>Related</h2>`)
			for _, p := range related {
				writePostCard(w, p)
			}
			io.WriteString(w, `</section>`)
		}

		io.WriteString(w, `<section><h2>Subscribe</h2><form method="post" action="/subscribe/">`)
		io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`">`)
		io.WriteString(w, `<input type="hidden" name="return_to" value="`+esc(flowpress.PostLink(post))+`">`)
		io.WriteString(w, `<input type="email" name="email" required placeholder="you@example.com"><button type="submit">Subscribe</button></form></section>`)
		writeFooter(w, st)
		return nil
	})
}

// Contact renders the contact form page.
func Contact(st flowpress.SiteSettings, msg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		writeHead(w, st, "Contact — "+st.SiteName, "")
		writeHeader(w, st)
		writeMsg(w, msg)
		io.WriteString(w, `<h1>Contact</h1><form method="post" action="/contact/">`)
		io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`">`)
		io.WriteString(w, `<input name="name" placeholder="Name" required>`)
		io.WriteString(w, `<input type="email" name="email" placeholder="Email" required>`)
		io.WriteString(w, `<textarea name="message" placeholder="Message" required></textarea>`)
		io.WriteString(w, `<button type="submit">Send</button></form>`)
		writeFooter(w, st)
		return nil
	})
}

// Privacy renders the static privacy policy page.
func Privacy(st flowpress.SiteSettings) templ.Component {
	return component(func(w io.Writer) error {
		writeHead(w, st, "Privacy Policy — "+st.SiteName, "")
		writeHeader(w, st)
		io.WriteString(w, `<h1>Privacy Policy</h1>`)
		io.WriteString(w, `<p>`+esc(st.SiteName)+` stores newsletter email addresses solely to deliver updates, and aggregate visit counts with no personal data attached. Unsubscribe at any time by contacting us.</p>`)
		writeFooter(w, st)
		return nil
	})
}

// NotFound renders the 404 page.
func NotFound(st flowpress.SiteSettings) templ.Component {
	return component(func(w io.Writer) error {
		writeHead(w, st, "Not Found — "+st.SiteName, "")
		writeHeader(w, st)
		io.WriteString(w, `<h1>Page not found</h1><p><a href="/">Back to the homepage</a></p>`)
		writeFooter(w, st)
		return nil
	})
}

// ServerError renders the 500 page.
func ServerError(st flowpress.SiteSettings) templ.Component {
	return component(func(w io.Writer) error {
		writeHead(w, st, "Something went wrong — "+st.SiteName, "")
		writeHeader(w, st)
		io.WriteString(w, `<h1>Something went wrong</h1><p>Please try again in a moment.</p>`)
		writeFooter(w, st)
		return nil
	})
}
