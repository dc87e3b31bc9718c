package flowpress

import (
	"encoding/csv"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/futureflow/flowpress/richtext"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin("", CsrfToken(c)))
	}
	a.State.SetAdminMode(true)
	return a.renderDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	res := a.State.Login(c.FormValue("email"), c.FormValue("password"))
	if !res.Success {
		a.loginLimiter.Record(c.RealIP())
		return Render(c, a.Views.AdminLogin(res.Message, CsrfToken(c)))
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	a.State.Logout()
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleAdminRefresh(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.State.Refresh()
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape("Data refreshed."))
}

func (a *App) renderDashboard(c echo.Context, msg string) error {
	return Render(c, a.Views.AdminDashboard(
		a.State.Posts(), a.State.Degraded(), SchemaSQL, msg, CsrfToken(c)))
}

func (a *App) handleAdminPostNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminPostForm(Post{}, a.State.Categories(), "", CsrfToken(c)))
}

func (a *App) handleAdminPostEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, found := a.State.PostByID(c.Param("id"))
	if !found {
		return c.NoContent(http.StatusNotFound)
	}
	return Render(c, a.Views.AdminPostForm(post, a.State.Categories(), "", CsrfToken(c)))
}

func (a *App) handleAdminPostSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	content := richtext.Sanitize(c.FormValue("content"))
	excerpt := strings.TrimSpace(c.FormValue("excerpt"))
	if excerpt == "" {
		excerpt = richtext.Excerpt(content, 160)
	}
	tags := FilterEmpty(strings.Split(c.FormValue("tags"), ","))
	p := Post{
		ID:              c.FormValue("id"),
		Title:           strings.TrimSpace(c.FormValue("title")),
		Slug:            strings.TrimSpace(c.FormValue("slug")),
		Excerpt:         excerpt,
		Content:         content,
		CoverImage:      strings.TrimSpace(c.FormValue("cover_image")),
		Category:        strings.TrimSpace(c.FormValue("category")),
		Author:          strings.TrimSpace(c.FormValue("author")),
		Published:       c.FormValue("published") != "",
		Featured:        c.FormValue("featured") != "",
		MetaTitle:       strings.TrimSpace(c.FormValue("meta_title")),
		MetaDescription: strings.TrimSpace(c.FormValue("meta_description")),
		Tags:            tags,
	}

	var res Result
	if p.ID == "" {
		res = a.State.AddPost(p)
	} else {
		if existing, found := a.State.PostByID(p.ID); found {
			p.Views = existing.Views
			p.Comments = existing.Comments
		}
		res = a.State.UpdatePost(p)
	}
	if !res.Success {
		// Keep the author's draft on screen instead of discarding it.
		return Render(c, a.Views.AdminPostForm(p, a.State.Categories(), res.Message, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(res.Message))
}

func (a *App) handleAdminPostDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	res := a.State.DeletePost(c.Param("id"))
	return a.renderDashboard(c, res.Message)
}

func (a *App) handleAdminCategories(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderCategories(c, c.QueryParam("msg"))
}

func (a *App) renderCategories(c echo.Context, msg string) error {
	return Render(c, a.Views.AdminCategories(
		a.State.Categories(), a.State.Posts(), msg, CsrfToken(c)))
}

func (a *App) handleAdminCategorySave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	cat := Category{
		ID:   c.FormValue("id"),
		Name: strings.TrimSpace(c.FormValue("name")),
		Slug: strings.TrimSpace(c.FormValue("slug")),
	}
	var res Result
	if cat.ID == "" {
		res = a.State.AddCategory(cat)
	} else {
		res = a.State.UpdateCategory(cat)
	}
	return a.renderCategories(c, res.Message)
}

func (a *App) handleAdminCategoryDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	res := a.State.DeleteCategory(c.Param("id"))
	return a.renderCategories(c, res.Message)
}

func (a *App) handleAdminNewsletter(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminNewsletter(
		a.State.Subscribers(), c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminSubscriberDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	res := a.State.RemoveSubscriber(c.Param("id"))
	return Render(c, a.Views.AdminNewsletter(
		a.State.Subscribers(), res.Message, CsrfToken(c)))
}

func (a *App) handleAdminNewsletterExport(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="subscribers.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"email", "subscribed_at"}); err != nil {
		return err
	}
	for _, sub := range a.State.Subscribers() {
		if err := w.Write([]string{sub.Email, sub.CreatedAt}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (a *App) handleAdminSettings(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminSettings(
		a.State.Settings(), !a.State.Healthy(ColSettings), c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminSettingsSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	st := SiteSettings{
		SiteName:     strings.TrimSpace(c.FormValue("site_name")),
		Tagline:      strings.TrimSpace(c.FormValue("tagline")),
		Description:  strings.TrimSpace(c.FormValue("description")),
		LogoURL:      strings.TrimSpace(c.FormValue("logo_url")),
		FaviconURL:   strings.TrimSpace(c.FormValue("favicon_url")),
		PrimaryColor: strings.TrimSpace(c.FormValue("primary_color")),
		FontFamily:   c.FormValue("font_family"),
		LayoutMode:   c.FormValue("layout_mode"),
		ThemeMode:    c.FormValue("theme_mode"),
		SocialLinks: SocialLinks{
			Facebook:  strings.TrimSpace(c.FormValue("facebook")),
			Twitter:   strings.TrimSpace(c.FormValue("twitter")),
			WhatsApp:  strings.TrimSpace(c.FormValue("whatsapp")),
			Instagram: strings.TrimSpace(c.FormValue("instagram")),
		},
	}
	res := a.State.UpdateSettings(st)
	return Render(c, a.Views.AdminSettings(
		a.State.Settings(), res.Degraded || !a.State.Healthy(ColSettings), res.Message, CsrfToken(c)))
}
