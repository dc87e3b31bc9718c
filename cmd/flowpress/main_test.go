package main

import (
	"path/filepath"
	"testing"

	flowpress "github.com/futureflow/flowpress"
)

// The main package imports no database driver of its own; opening the store
// must work with whatever the flowpress package registers.
func TestNewStoreFromMainPackage(t *testing.T) {
	dir := t.TempDir()
	s, err := flowpress.NewStore(filepath.Join(dir, "site.db"), filepath.Join(dir, "uploads"), "/public/uploads")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()

	if _, err := s.GetSettings(); err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
}
