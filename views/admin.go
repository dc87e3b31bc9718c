package views

import (
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	flowpress "github.com/futureflow/flowpress"
)

func writeAdminHead(w io.Writer, title string) {
	io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	io.WriteString(w, `<meta name="viewport" content="width=device-width, initial-scale=1">`)
	io.WriteString(w, `<title>`+esc(title)+`</title>`)
	io.WriteString(w, `<style>body{font-family:system-ui,sans-serif;margin:0}main{max-width:1100px;margin:0 auto;padding:1rem}`)
	io.WriteString(w, `.warning{background:#fef3c7;border:1px solid #f59e0b;padding:.75rem}.notice{background:#dcfce7;padding:.5rem}</style>`)
	io.WriteString(w, `<script>function del(url,token,msg){if(!confirm(msg))return;`)
	io.WriteString(w, `fetch(url,{method:"DELETE",headers:{"X-CSRF-Token":token}}).then(function(){location.reload()})}</script>`)
	io.WriteString(w, `</head><body><main>`)
}

func writeAdminNav(w io.Writer, csrfToken string) {
	io.WriteString(w, `<nav><a href="/admin/">Dashboard</a> <a href="/admin/posts/new/">New Post</a> `)
	io.WriteString(w, `<a href="/admin/categories/">Categories</a> <a href="/admin/newsletter/">Newsletter</a> `)
	io.WriteString(w, `<a href="/admin/settings/">Settings</a> `)
	io.WriteString(w, `<form method="post" action="/admin/refresh/" style="display:inline">`)
	io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`"><button type="submit">Refresh</button></form> `)
	io.WriteString(w, `<form method="post" action="/admin/logout/" style="display:inline">`)
	io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`"><button type="submit">Log out</button></form></nav>`)
}

func writeAdminFoot(w io.Writer) {
	io.WriteString(w, `</main></body></html>`)
}

// AdminLogin renders the login form, with an inline error on failure.
func AdminLogin(errMsg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		writeAdminHead(w, "Admin Login")
		io.WriteString(w, `<h1>Admin Login</h1>`)
		if errMsg != "" {
			io.WriteString(w, `<p class="warning">`+esc(errMsg)+`</p>`)
		}
		io.WriteString(w, `<form method="post" action="/admin/login/">`)
		io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`">`)
		io.WriteString(w, `<input type="email" name="email" placeholder="Email" required>`)
		io.WriteString(w, `<input type="password" name="password" placeholder="Password" required>`)
		io.WriteString(w, `<button type="submit">Sign in</button></form>`)
		writeAdminFoot(w)
		return nil
	})
}

// AdminDashboard lists every post, drafts included, and surfaces degraded
// collections with the repair script.
func AdminDashboard(posts []flowpress.Post, degraded []string, repairSQL, msg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		writeAdminHead(w, "Dashboard")
		writeAdminNav(w, csrfToken)
		writeMsg(w, msg)
		if len(degraded) > 0 {
			io.WriteString(w, `<div class="warning"><p>Serving from local cache: `+esc(strings.Join(degraded, ", "))+`.</p>`)
			io.WriteString(w, `<p>Run this against the database to restore the missing tables:</p>`)
			io.WriteString(w, `<details><summary>Repair SQL</summary><pre>`+esc(repairSQL)+`</pre></details></div>`)
		}
		io.WriteString(w, `<h1>Posts</h1><table><tr><th>Title</th><th>Category</th><th>Status</th><th>Views</th><th></th></tr>`)
		for _, p := range posts {
			status := "Draft"
			if p.Published {
				status = "Published"
			}
			if p.Featured {
				status += " · Featured"
			}
			io.WriteString(w, `<tr><td><a href="/admin/posts/`+esc(p.ID)+`/">`+esc(p.Title)+`</a></td>`)
			io.WriteString(w, `<td>`+esc(p.Category)+`</td><td>`+status+`</td><td>`+strconv.FormatInt(p.Views, 10)+`</td>`)
			io.WriteString(w, `<td><button onclick="del('/admin/posts/`+esc(p.ID)+`/','`+esc(csrfToken)+`','Delete this post?')">Delete</button></td></tr>`)
		}
		io.WriteString(w, `</table>`)
		writeAdminFoot(w)
		return nil
	})
}

// AdminPostForm renders the compose/edit form for a post. On a failed save
// the submitted values come back in post so the draft is not lost.
func AdminPostForm(post flowpress.Post, cats []flowpress.Category, errMsg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		title := "New Post"
		if post.ID != "" {
			title = "Edit Post"
		}
		writeAdminHead(w, title)
		writeAdminNav(w, csrfToken)
		if errMsg != "" {
			io.WriteString(w, `<p class="warning">`+esc(errMsg)+`</p>`)
		}
		io.WriteString(w, `<h1>`+title+`</h1><form method="post" action="/admin/posts/save/">`)
		io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`">`)
		io.WriteString(w, `<input type="hidden" name="id" value="`+esc(post.ID)+`">`)
		io.WriteString(w, `<input name="title" value="`+esc(post.Title)+`" placeholder="Title" required>`)
		io.WriteString(w, `<input name="slug" value="`+esc(post.Slug)+`" placeholder="Slug (derived from title when empty)">`)
		io.WriteString(w, `<textarea name="excerpt" placeholder="Excerpt (derived from content when empty)">`+esc(post.Excerpt)+`</textarea>`)
		io.WriteString(w, `<textarea name="content" required placeholder="Content (HTML)">`+esc(post.Content)+`</textarea>`)
		io.WriteString(w, `<input name="cover_image" value="`+esc(post.CoverImage)+`" placeholder="Cover image URL">`)
		io.WriteString(w, `<select name="category"><option value="">No category</option>`)
		for _, c := range cats {
			selected := ""
			if c.Name == post.Category {
				selected = ` selected`
			}
			io.WriteString(w, `<option value="`+esc(c.Name)+`"`+selected+`>`+esc(c.Name)+`</option>`)
		}
		io.WriteString(w, `</select>`)
		io.WriteString(w, `<input name="author" value="`+esc(post.Author)+`" placeholder="Author">`)
		io.WriteString(w, `<input name="tags" value="`+esc(strings.Join(post.Tags, ", "))+`" placeholder="Tags (comma-separated)">`)
		io.WriteString(w, `<input name="meta_title" value="`+esc(post.MetaTitle)+`" placeholder="SEO title override">`)
		io.WriteString(w, `<input name="meta_description" value="`+esc(post.MetaDescription)+`" placeholder="SEO description override">`)
		io.WriteString(w, checkbox("published", "Published", post.Published))
		io.WriteString(w, checkbox("featured", "Featured", post.Featured))
		io.WriteString(w, `<button type="submit">Save</button></form>`)
		writeAdminFoot(w)
		return nil
	})
}

func checkbox(name, label string, checked bool) string {
	attr := ""
	if checked {
		attr = ` checked`
	}
	return `<label><input type="checkbox" name="` + name + `" value="1"` + attr + `> ` + label + `</label>`
}

// AdminCategories renders the category manager, warning about posts that
// would be orphaned by a delete.
func AdminCategories(cats []flowpress.Category, posts []flowpress.Post, msg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		counts := make(map[string]int)
		for _, p := range posts {
			counts[p.Category]++
		}
		writeAdminHead(w, "Categories")
		writeAdminNav(w, csrfToken)
		writeMsg(w, msg)
		io.WriteString(w, `<h1>Categories</h1><table><tr><th>Name</th><th>Slug</th><th>Posts</th><th></th></tr>`)
		for _, c := range cats {
			io.WriteString(w, `<tr><td>`+esc(c.Name)+`</td><td>`+esc(c.Slug)+`</td><td>`+strconv.Itoa(counts[c.Name])+`</td>`)
			confirm := "Delete this category? Posts keep its name and become orphaned."
			io.WriteString(w, `<td><button onclick="del('/admin/categories/`+esc(c.ID)+`/','`+esc(csrfToken)+`','`+confirm+`')">Delete</button></td></tr>`)
		}
		io.WriteString(w, `</table><h2>Add category</h2><form method="post" action="/admin/categories/save/">`)
		io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`">`)
		io.WriteString(w, `<input name="name" placeholder="Name" required><input name="slug" placeholder="Slug (optional)">`)
		io.WriteString(w, `<button type="submit">Add</button></form>`)
		writeAdminFoot(w)
		return nil
	})
}

// AdminNewsletter renders the subscriber manager.
func AdminNewsletter(subs []flowpress.Subscriber, msg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		writeAdminHead(w, "Newsletter")
		writeAdminNav(w, csrfToken)
		writeMsg(w, msg)
		io.WriteString(w, `<h1>Subscribers (`+strconv.Itoa(len(subs))+`)</h1>`)
		io.WriteString(w, `<p><a href="/admin/newsletter/export.csv">Export CSV</a></p>`)
		io.WriteString(w, `<table><tr><th>Email</th><th>Subscribed</th><th></th></tr>`)
		for _, s := range subs {
			io.WriteString(w, `<tr><td>`+esc(s.Email)+`</td><td>`+esc(s.CreatedAt)+`</td>`)
			io.WriteString(w, `<td><button onclick="del('/admin/newsletter/`+esc(s.ID)+`/','`+esc(csrfToken)+`','Remove this subscriber?')">Remove</button></td></tr>`)
		}
		io.WriteString(w, `</table>`)
		writeAdminFoot(w)
		return nil
	})
}

// AdminSettings renders the appearance/settings manager. When the settings
// collection is degraded a persistent, non-blocking notice is shown.
func AdminSettings(st flowpress.SiteSettings, degraded bool, msg, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		writeAdminHead(w, "Settings")
		writeAdminNav(w, csrfToken)
		writeMsg(w, msg)
		if degraded {
			io.WriteString(w, `<p class="warning">Settings are being served from the local cache. Changes apply immediately here but are not confirmed by the server.</p>`)
		}
		io.WriteString(w, `<h1>Site Settings</h1><form method="post" action="/admin/settings/save/">`)
		io.WriteString(w, `<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`">`)
		io.WriteString(w, `<input name="site_name" value="`+esc(st.SiteName)+`" placeholder="Site name" required>`)
		io.WriteString(w, `<input name="tagline" value="`+esc(st.Tagline)+`" placeholder="Tagline">`)
		io.WriteString(w, `<textarea name="description" placeholder="Description">`+esc(st.Description)+`</textarea>`)
		io.WriteString(w, `<input name="logo_url" value="`+esc(st.LogoURL)+`" placeholder="Logo URL">`)
		io.WriteString(w, `<input name="favicon_url" value="`+esc(st.FaviconURL)+`" placeholder="Favicon URL">`)
		io.WriteString(w, `<input name="primary_color" type="color" value="`+esc(st.PrimaryColor)+`">`)
		io.WriteString(w, selectField("font_family", st.FontFamily,
			flowpress.FontInter, flowpress.FontMerriweather, flowpress.FontSpaceGrotesk))
		io.WriteString(w, selectField("layout_mode", st.LayoutMode, flowpress.LayoutWide, flowpress.LayoutBoxed))
		io.WriteString(w, selectField("theme_mode", st.ThemeMode, flowpress.ThemeLight, flowpress.ThemeDark))
		io.WriteString(w, `<input name="facebook" value="`+esc(st.SocialLinks.Facebook)+`" placeholder="Facebook URL">`)
		io.WriteString(w, `<input name="twitter" value="`+esc(st.SocialLinks.Twitter)+`" placeholder="Twitter URL">`)
		io.WriteString(w, `<input name="whatsapp" value="`+esc(st.SocialLinks.WhatsApp)+`" placeholder="WhatsApp URL">`)
		io.WriteString(w, `<input name="instagram" value="`+esc(st.SocialLinks.Instagram)+`" placeholder="Instagram URL">`)
		io.WriteString(w, `<p>Total visits: `+strconv.FormatInt(st.TotalVisits, 10)+`</p>`)
		io.WriteString(w, `<button type="submit">Save</button></form>`)
		writeAdminFoot(w)
		return nil
	})
}

func selectField(name, current string, options ...string) string {
	var b strings.Builder
	b.WriteString(`<select name="` + name + `">`)
	for _, opt := range options {
		selected := ""
		if opt == current {
			selected = ` selected`
		}
		b.WriteString(`<option value="` + esc(opt) + `"` + selected + `>` + esc(opt) + `</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}
