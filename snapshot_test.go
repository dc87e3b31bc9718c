package flowpress

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotsRoundTrip(t *testing.T) {
	snaps := NewSnapshots(t.TempDir())

	posts := []Post{{ID: "p1", Title: "Cached", Slug: "cached"}}
	snaps.Save(snapPosts, posts)

	var got []Post
	if !snaps.Load(snapPosts, &got) {
		t.Fatal("Load should succeed after Save")
	}
	if len(got) != 1 || got[0].Title != "Cached" {
		t.Errorf("loaded = %v, want the saved posts", got)
	}
}

func TestSnapshotsMissingKey(t *testing.T) {
	snaps := NewSnapshots(t.TempDir())

	got := []Post{{ID: "untouched"}}
	if snaps.Load(snapPosts, &got) {
		t.Error("Load of a missing key should report false")
	}
	if len(got) != 1 || got[0].ID != "untouched" {
		t.Errorf("target should be left untouched, got %v", got)
	}
}

func TestSnapshotsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	snaps := NewSnapshots(dir)
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := DefaultSettings()
	if snaps.Load(snapSettings, &got) {
		t.Error("Load of a corrupt file should report false")
	}
	if got.SiteName != DefaultSettings().SiteName {
		t.Errorf("target should be left untouched, got %+v", got)
	}
}

func TestSnapshotsSaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")
	snaps := NewSnapshots(dir)

	snaps.Save(snapSettings, DefaultSettings())

	if _, err := os.Stat(filepath.Join(dir, "settings.json")); err != nil {
		t.Errorf("snapshot file should exist: %v", err)
	}
}
