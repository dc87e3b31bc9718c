// Package flowpress is a content-management blog platform built with Go,
// Echo, and templ: a public site (home, blog, post detail, contact,
// privacy) and an admin back-office (dashboard, posts, categories,
// newsletter, appearance settings) backed by a relational store, cookie
// sessions, and bucketed file uploads.
//
// Users provide their own templ components via the ViewFuncs struct (the
// views package ships a default set), and flowpress handles handler logic,
// middleware, persistence, and the state synchronization between the
// in-memory collections and the remote data source.
package flowpress

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets
// users own and customize all templates.
type ViewFuncs struct {
	Home            func(featured, recent []Post, cats []Category, st SiteSettings) templ.Component
	BlogList        func(posts []Post, cats []Category, activeCategory, query string, st SiteSettings) templ.Component
	PostDetail      func(post Post, related []Post, st SiteSettings, msg, csrfToken string) templ.Component
	Contact         func(st SiteSettings, msg, csrfToken string) templ.Component
	Privacy         func(st SiteSettings) templ.Component
	AdminLogin      func(errMsg, csrfToken string) templ.Component
	AdminDashboard  func(posts []Post, degraded []string, repairSQL, msg, csrfToken string) templ.Component
	AdminPostForm   func(post Post, cats []Category, errMsg, csrfToken string) templ.Component
	AdminCategories func(cats []Category, posts []Post, msg, csrfToken string) templ.Component
	AdminNewsletter func(subs []Subscriber, msg, csrfToken string) templ.Component
	AdminSettings   func(st SiteSettings, degraded bool, msg, csrfToken string) templ.Component
	NotFound        func(st SiteSettings) templ.Component
	ServerError     func(st SiteSettings) templ.Component
}

// App is the central flowpress application. It wires together the gateway,
// state store, handlers, middleware, and user-provided templates.
type App struct {
	Config  Config
	Echo    *echo.Echo
	Gateway Gateway
	State   *State
	Views   ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new flowpress App with the given configuration and view
// functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the gateway, state store, middleware, and routes, then
// starts the server.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("flowpress: SessionSecret is required")
	}

	if a.Gateway == nil {
		if a.Config.AdminEmail == "" || a.Config.AdminPassword == "" {
			return fmt.Errorf("flowpress: AdminEmail and AdminPassword are required")
		}
		store, err := NewStore(a.Config.DatabasePath, a.Config.UploadsDir, "/public/uploads")
		if err != nil {
			return fmt.Errorf("flowpress: init store: %w", err)
		}
		if err := store.EnsureBucket(a.Config.UploadBucket); err != nil {
			return fmt.Errorf("flowpress: init bucket: %w", err)
		}
		if err := store.EnsureAdmin(a.Config.AdminEmail, a.Config.AdminPassword); err != nil {
			return fmt.Errorf("flowpress: init admin: %w", err)
		}
		a.Gateway = store
	}

	a.State = NewState(a.Gateway, NewSnapshots(a.Config.SnapshotDir))
	a.State.Refresh()

	a.loginLimiter = NewLoginLimiter(a.Config.LoginAttempts, a.Config.LoginWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets and uploaded files.
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes.
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlogList)
	e.GET("/blog/:category/:slug/", a.handlePost)
	e.POST("/blog/:category/:slug/comment/", a.handleComment)
	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)
	e.GET("/privacy/", a.handlePrivacy)
	e.POST("/subscribe/", a.handleSubscribe)

	// Admin routes.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)
	e.POST("/admin/refresh/", a.handleAdminRefresh)
	e.GET("/admin/posts/new/", a.handleAdminPostNew)
	e.GET("/admin/posts/:id/", a.handleAdminPostEdit)
	e.POST("/admin/posts/save/", a.handleAdminPostSave)
	e.DELETE("/admin/posts/:id/", a.handleAdminPostDelete)
	e.GET("/admin/categories/", a.handleAdminCategories)
	e.POST("/admin/categories/save/", a.handleAdminCategorySave)
	e.DELETE("/admin/categories/:id/", a.handleAdminCategoryDelete)
	e.GET("/admin/newsletter/", a.handleAdminNewsletter)
	e.DELETE("/admin/newsletter/:id/", a.handleAdminSubscriberDelete)
	e.GET("/admin/newsletter/export.csv", a.handleAdminNewsletterExport)
	e.GET("/admin/settings/", a.handleAdminSettings)
	e.POST("/admin/settings/save/", a.handleAdminSettingsSave)
	e.POST("/admin/upload/", a.handleImageUpload)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Gateway != nil {
		return a.Gateway.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("flowpress: required environment variable %s is not set", key)
	}
	return v
}
