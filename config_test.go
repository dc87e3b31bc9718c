package flowpress

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.setDefaults()

	if c.SiteURL != "http://localhost:3000" {
		t.Errorf("SiteURL = %q", c.SiteURL)
	}
	if c.Addr != ":3000" {
		t.Errorf("Addr = %q", c.Addr)
	}
	if c.DatabasePath != "data/site.db" {
		t.Errorf("DatabasePath = %q", c.DatabasePath)
	}
	if c.SnapshotDir != "data/snapshots" {
		t.Errorf("SnapshotDir = %q", c.SnapshotDir)
	}
	if c.UploadsDir != "public/uploads" {
		t.Errorf("UploadsDir = %q", c.UploadsDir)
	}
	if c.UploadBucket != "blog-assets" {
		t.Errorf("UploadBucket = %q", c.UploadBucket)
	}
	if c.LoginAttempts != 5 {
		t.Errorf("LoginAttempts = %d, want 5", c.LoginAttempts)
	}
	if c.LoginWindow != time.Minute {
		t.Errorf("LoginWindow = %v, want 1m", c.LoginWindow)
	}
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	c := Config{
		Addr:          ":8080",
		LoginAttempts: 3,
		LoginWindow:   30 * time.Second,
	}
	c.setDefaults()

	if c.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", c.Addr)
	}
	if c.LoginAttempts != 3 || c.LoginWindow != 30*time.Second {
		t.Errorf("login limits = %d/%v, want 3/30s", c.LoginAttempts, c.LoginWindow)
	}
}
