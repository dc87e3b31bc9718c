package flowpress

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Snapshot keys, one per cached collection plus the settings local mirror.
const (
	snapPosts       = "posts"
	snapCategories  = "categories"
	snapSettings    = "settings"
	snapSubscribers = "subscribers"
)

// Snapshots is the local persistence adapter: keyed JSON values on disk,
// used as last-known-good fallbacks when the remote source is unreachable.
// Load never fails and Save is best-effort; neither propagates errors to
// callers.
type Snapshots struct {
	dir string
}

// NewSnapshots creates a snapshot store rooted at dir. The directory is
// created lazily on first Save.
func NewSnapshots(dir string) *Snapshots {
	return &Snapshots{dir: dir}
}

func (s *Snapshots) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load unmarshals the value stored under key into target. A missing or
// unparseable file is treated as absent and leaves target untouched; the
// return value reports whether a snapshot was applied.
func (s *Snapshots) Load(key string, target any) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false
	}
	return true
}

// Save serializes value under key. Failures (full disk, unwritable dir) are
// swallowed: losing a fallback snapshot must never break the caller.
func (s *Snapshots) Save(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(s.path(key), data, 0o644)
}
