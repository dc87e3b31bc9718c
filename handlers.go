package flowpress

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	a.recordVisit(c)
	featured := a.State.FeaturedPosts()
	recent := a.State.PublishedPosts()
	if len(recent) > 6 {
		recent = recent[:6]
	}
	return Render(c, a.Views.Home(featured, recent, a.State.Categories(), a.State.Settings()))
}

func (a *App) handleBlogList(c echo.Context) error {
	a.recordVisit(c)
	query := c.QueryParam("q")
	category := c.QueryParam("category")
	posts := a.State.SearchPublished(query, category)
	return Render(c, a.Views.BlogList(posts, a.State.Categories(), category, query, a.State.Settings()))
}

func (a *App) handlePost(c echo.Context) error {
	a.recordVisit(c)
	post, found := a.State.FindPublished(c.Param("category"), c.Param("slug"))
	if !found {
		// Never render a broken state for a missing post.
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.State.Settings()))
	}
	a.State.IncrementPostViews(post.ID)
	post.Views++
	related := RelatedPosts(post, a.State.PublishedPosts())
	if len(related) > 3 {
		related = related[:3]
	}
	return Render(c, a.Views.PostDetail(post, related, a.State.Settings(), c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleComment(c echo.Context) error {
	post, found := a.State.FindPublished(c.Param("category"), c.Param("slug"))
	if !found {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.State.Settings()))
	}
	res := a.State.AddComment(post.ID, c.FormValue("author"), c.FormValue("body"))
	return c.Redirect(http.StatusSeeOther, PostLink(post)+"?msg="+url.QueryEscape(res.Message))
}

func (a *App) handleContact(c echo.Context) error {
	a.recordVisit(c)
	return Render(c, a.Views.Contact(a.State.Settings(), c.QueryParam("msg"), CsrfToken(c)))
}

// handleContactSubmit acknowledges the form; actual delivery is handled by
// an external form-submission endpoint the template posts through.
func (a *App) handleContactSubmit(c echo.Context) error {
	if strings.TrimSpace(c.FormValue("message")) == "" {
		return c.Redirect(http.StatusSeeOther, "/contact/?msg="+url.QueryEscape("Please enter a message."))
	}
	return c.Redirect(http.StatusSeeOther, "/contact/?msg="+url.QueryEscape("Thanks! We'll get back to you."))
}

func (a *App) handlePrivacy(c echo.Context) error {
	a.recordVisit(c)
	return Render(c, a.Views.Privacy(a.State.Settings()))
}

func (a *App) handleSubscribe(c echo.Context) error {
	res := a.State.AddSubscriber(c.FormValue("email"))
	target := c.FormValue("return_to")
	if target == "" || !strings.HasPrefix(target, "/") {
		target = "/blog/"
	}
	return c.Redirect(http.StatusSeeOther, target+"?msg="+url.QueryEscape(res.Message))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.State.PublishedPosts())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.State.PublishedPosts())
}

func (a *App) handleFavicon(c echo.Context) error {
	if u := a.State.Settings().FaviconURL; u != "" {
		return c.Redirect(http.StatusFound, u)
	}
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

// RelatedPosts finds published posts sharing current's category or at least
// one tag.
func RelatedPosts(current Post, posts []Post) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Post
	for _, p := range posts {
		if p.ID == current.ID {
			continue
		}
		if p.Category != "" && p.Category == current.Category {
			related = append(related, p)
			continue
		}
		for _, t := range p.Tags {
			if _, shared := tagSet[strings.ToLower(strings.TrimSpace(t))]; shared {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, isHTTP := err.(*echo.HTTPError)
	if isHTTP && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.State.Settings()))
		return
	}
	code := http.StatusInternalServerError
	if isHTTP {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.State.Settings()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
