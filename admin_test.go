package flowpress

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

func marker(name string, fields ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, name)
		for _, f := range fields {
			io.WriteString(w, "|"+f)
		}
		return nil
	})
}

func adminTestApp(t *testing.T) *App {
	t.Helper()
	gw := newFakeGateway()
	st := NewState(gw, NewSnapshots(t.TempDir()))
	st.logf = func(string, ...any) {}
	st.Refresh()
	return &App{
		Echo:    echo.New(),
		Gateway: gw,
		State:   st,
		Views: ViewFuncs{
			AdminPostForm: func(p Post, cats []Category, errMsg, csrfToken string) templ.Component {
				return marker("postform", p.Title, p.Content, errMsg)
			},
			AdminDashboard: func(posts []Post, degraded []string, repairSQL, msg, csrfToken string) templ.Component {
				return marker("dashboard", msg)
			},
		},
	}
}

// postAsAdmin runs handler on a form POST with an authenticated session.
func postAsAdmin(t *testing.T, a *App, form url.Values, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/posts/save/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)

	store := sessions.NewCookieStore([]byte("test-secret"))
	wrapped := session.Middleware(store)(func(c echo.Context) error {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return handler(c)
	})
	if err := wrapped(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	return rec
}

func TestAdminPostSaveFailureKeepsDraft(t *testing.T) {
	a := adminTestApp(t)

	// Missing title fails validation; the submitted body must come back in
	// the form, not vanish behind the dashboard.
	form := url.Values{
		"title":   {""},
		"content": {"<p>hard-won draft</p>"},
	}
	rec := postAsAdmin(t, a, form, a.handleAdminPostSave)

	body := rec.Body.String()
	if !strings.HasPrefix(body, "postform") {
		t.Fatalf("expected the post form to be re-rendered, got %q", body)
	}
	if !strings.Contains(body, "hard-won draft") {
		t.Errorf("submitted content should be preserved, got %q", body)
	}
	if !strings.Contains(body, "Title is required.") {
		t.Errorf("validation message should be shown, got %q", body)
	}
	if strings.Contains(body, "dashboard") {
		t.Errorf("dashboard must not replace the form on failure, got %q", body)
	}
}

func TestAdminPostSaveSuccessRedirects(t *testing.T) {
	a := adminTestApp(t)

	form := url.Values{
		"title":   {"A Fine Post"},
		"content": {"<p>body</p>"},
	}
	rec := postAsAdmin(t, a, form, a.handleAdminPostSave)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); !strings.HasPrefix(loc, "/admin/") {
		t.Errorf("redirect location = %q, want /admin/", loc)
	}
	if len(a.State.Posts()) != 1 {
		t.Errorf("post count = %d, want 1", len(a.State.Posts()))
	}
}
