package flowpress

import "time"

// Config holds all deployment configuration for a flowpress site. Site
// branding (name, tagline, colors) is not here: it lives in the settings
// singleton managed through the admin UI.
type Config struct {
	SiteURL string // Canonical URL (default "http://localhost:3000")
	Addr    string // Listen address (default ":3000")

	DatabasePath string // SQLite path (default "data/site.db")
	SnapshotDir  string // Local fallback snapshot dir (default "data/snapshots")
	UploadsDir   string // Storage bucket root (default "public/uploads")
	UploadBucket string // Default bucket for cover images (default "blog-assets")

	AdminEmail    string // Required: administrator login email
	AdminPassword string // Required: administrator password (hashed at rest)
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	LoginAttempts int           // Failed logins allowed per IP per window (default 5)
	LoginWindow   time.Duration // Login rate-limit window (default 1m)
}

func (c *Config) setDefaults() {
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.SnapshotDir == "" {
		c.SnapshotDir = "data/snapshots"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "public/uploads"
	}
	if c.UploadBucket == "" {
		c.UploadBucket = "blog-assets"
	}
	if c.LoginAttempts <= 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow <= 0 {
		c.LoginWindow = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithGateway substitutes the remote data source. The default is the
// bundled SQLite Store; tests and alternative backends inject their own.
func WithGateway(gw Gateway) Option {
	return func(a *App) {
		a.Gateway = gw
	}
}
