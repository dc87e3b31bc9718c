package flowpress

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Collection names used for health tracking and snapshot keys.
const (
	ColPosts       = "posts"
	ColCategories  = "categories"
	ColSettings    = "settings"
	ColSubscribers = "subscribers"
)

// State is the single source of truth for the four managed collections. It
// orchestrates fetch-on-start and fetch-after-mutation against the Gateway,
// tracks per-collection health, and falls back to local snapshots when a
// collection is unreachable. Handlers never talk to the Gateway directly.
//
// All methods are safe for concurrent use. Returned slices are snapshots;
// callers must not mutate them in place.
type State struct {
	gw    Gateway
	snaps *Snapshots
	logf  func(format string, args ...any)

	mu          sync.RWMutex
	posts       []Post
	categories  []Category
	settings    SiteSettings
	subscribers []Subscriber
	health      map[string]bool
	adminMode   bool
}

// NewState creates a State backed by the given Gateway and snapshot store.
// Collections start from seed defaults; call Refresh to load remote data.
func NewState(gw Gateway, snaps *Snapshots) *State {
	return &State{
		gw:         gw,
		snaps:      snaps,
		logf:       log.Printf,
		categories: DefaultCategories(),
		settings:   DefaultSettings(),
		health: map[string]bool{
			ColPosts:       true,
			ColCategories:  true,
			ColSettings:    true,
			ColSubscribers: true,
		},
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Refresh re-fetches every managed collection independently. On success the
// in-memory copy is replaced, the collection is marked healthy, and the
// result is mirrored to the snapshot store; on failure the collection is
// marked degraded and served from its last snapshot (or seed defaults).
// A failure in one collection never affects the others. Subscribers are
// fetched only in administrative mode.
func (s *State) Refresh() {
	posts, postsErr := s.gw.ListPosts()
	cats, catsErr := s.gw.ListCategories()
	settings, settingsErr := s.gw.GetSettings()

	admin := s.AdminMode()
	var subs []Subscriber
	var subsErr error
	if admin {
		subs, subsErr = s.gw.ListSubscribers()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if postsErr == nil {
		s.posts = posts
		s.health[ColPosts] = true
		s.snaps.Save(snapPosts, posts)
	} else {
		s.logf("refresh posts: %v", postsErr)
		s.health[ColPosts] = false
		var cached []Post
		if s.snaps.Load(snapPosts, &cached) {
			s.posts = cached
		} else {
			s.posts = nil
		}
	}

	if catsErr == nil {
		s.categories = cats
		s.health[ColCategories] = true
		s.snaps.Save(snapCategories, cats)
	} else {
		s.logf("refresh categories: %v", catsErr)
		s.health[ColCategories] = false
		var cached []Category
		if s.snaps.Load(snapCategories, &cached) {
			s.categories = cached
		} else {
			s.categories = DefaultCategories()
		}
	}

	if settingsErr == nil {
		s.settings = settings
		s.health[ColSettings] = true
		s.snaps.Save(snapSettings, settings)
	} else {
		s.logf("refresh settings: %v", settingsErr)
		s.health[ColSettings] = false
		cached := DefaultSettings()
		s.snaps.Load(snapSettings, &cached)
		s.settings = cached
	}

	if admin {
		if subsErr == nil {
			s.subscribers = subs
			s.health[ColSubscribers] = true
			s.snaps.Save(snapSubscribers, subs)
		} else {
			s.logf("refresh subscribers: %v", subsErr)
			s.health[ColSubscribers] = false
			var cached []Subscriber
			if s.snaps.Load(snapSubscribers, &cached) {
				s.subscribers = cached
			} else {
				s.subscribers = nil
			}
		}
	}
}

// Posts returns a snapshot of every post, drafts included, newest first.
func (s *State) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// PublishedPosts returns only posts visible on public surfaces.
func (s *State) PublishedPosts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Post
	for _, p := range s.posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

// FeaturedPosts returns published posts flagged as featured.
func (s *State) FeaturedPosts() []Post {
	var out []Post
	for _, p := range s.PublishedPosts() {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// FindPublished locates a published post by category slug and post slug.
func (s *State) FindPublished(categorySlug, slug string) (Post, bool) {
	for _, p := range s.PublishedPosts() {
		if p.Slug == slug && Slugify(p.Category) == categorySlug {
			return p, true
		}
	}
	return Post{}, false
}

// SearchPublished filters published posts by a free-text query over title,
// excerpt and tags, and optionally by category slug.
func (s *State) SearchPublished(query, categorySlug string) []Post {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []Post
	for _, p := range s.PublishedPosts() {
		if categorySlug != "" && Slugify(p.Category) != categorySlug {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p Post, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Excerpt), query) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

// PostByID returns a post by identifier, drafts included.
func (s *State) PostByID(id string) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// Categories returns a snapshot of all categories ordered by name.
func (s *State) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Settings returns the current site settings.
func (s *State) Settings() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Subscribers returns a snapshot of the subscriber list. Populated only in
// administrative mode.
func (s *State) Subscribers() []Subscriber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Subscriber, len(s.subscribers))
	copy(out, s.subscribers)
	return out
}

// AdminMode reports whether the state machine is in the Authenticated state.
func (s *State) AdminMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminMode
}

// SetAdminMode flips the administrative-mode flag. Entering administrative
// mode triggers a refresh so the subscriber collection gets pulled; it is
// also how an existing session discovered at request time re-enters the
// Authenticated state.
func (s *State) SetAdminMode(on bool) {
	s.mu.Lock()
	was := s.adminMode
	s.adminMode = on
	s.mu.Unlock()
	if on && !was {
		s.Refresh()
	}
}

// Healthy reports whether the named collection is currently served from the
// remote source rather than a local snapshot.
func (s *State) Healthy(collection string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health[collection]
}

// Degraded returns the sorted names of collections currently in fallback.
func (s *State) Degraded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for name, healthy := range s.health {
		if !healthy {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (s *State) takenSlugs() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	taken := make(map[string]bool, len(s.posts))
	for _, p := range s.posts {
		taken[p.Slug] = true
	}
	return taken
}

// AddPost validates and stores a new post. The slug is derived from the
// title when absent and disambiguated deterministically against existing
// slugs. A successful insert triggers a refresh.
func (s *State) AddPost(p Post) Result {
	if strings.TrimSpace(p.Title) == "" {
		return fail("Title is required.")
	}
	if strings.TrimSpace(p.Content) == "" {
		return fail("Content is required.")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.Slug = uniqueSlug(p.Slug, s.takenSlugs())
	if err := s.gw.InsertPost(p); err != nil {
		s.logf("add post: %v", err)
		return fail("Could not save post: " + err.Error())
	}
	s.Refresh()
	return ok("Post saved.")
}

// UpdatePost replaces an existing post. Server-managed timestamps in p are
// ignored by the Gateway.
func (s *State) UpdatePost(p Post) Result {
	if p.ID == "" {
		return fail("Post id is required.")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fail("Title is required.")
	}
	if strings.TrimSpace(p.Content) == "" {
		return fail("Content is required.")
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.CreatedAt = ""
	p.UpdatedAt = ""
	if err := s.gw.UpdatePost(p); err != nil {
		s.logf("update post: %v", err)
		return fail("Could not update post: " + err.Error())
	}
	s.Refresh()
	return ok("Post updated.")
}

// DeletePost removes a post. Irreversible and immediate.
func (s *State) DeletePost(id string) Result {
	if err := s.gw.DeletePost(id); err != nil {
		s.logf("delete post: %v", err)
		return fail("Could not delete post: " + err.Error())
	}
	s.Refresh()
	return ok("Post deleted.")
}

// AddComment appends a reader comment to a post through the normal update
// path.
func (s *State) AddComment(postID, author, body string) Result {
	if strings.TrimSpace(body) == "" {
		return fail("Comment text is required.")
	}
	p, found := s.PostByID(postID)
	if !found {
		return fail("Post not found.")
	}
	if strings.TrimSpace(author) == "" {
		author = "Anonymous"
	}
	p.Comments = append(p.Comments, Comment{
		ID:        uuid.NewString(),
		Author:    author,
		Body:      body,
		CreatedAt: nowStamp(),
	})
	if err := s.gw.UpdatePost(p); err != nil {
		s.logf("add comment: %v", err)
		return fail("Could not save comment: " + err.Error())
	}
	s.Refresh()
	return ok("Comment added.")
}

// applyCategoriesLocally mutates the in-memory category list and snapshot
// when the remote table is missing, so the admin can keep working in
// degraded mode.
func (s *State) applyCategoriesLocally(mutate func([]Category) []Category) {
	s.mu.Lock()
	s.categories = mutate(s.categories)
	sort.Slice(s.categories, func(i, j int) bool { return s.categories[i].Name < s.categories[j].Name })
	s.health[ColCategories] = false
	cats := make([]Category, len(s.categories))
	copy(cats, s.categories)
	s.mu.Unlock()
	s.snaps.Save(snapCategories, cats)
}

// AddCategory validates and stores a new category. When the remote table is
// missing the category is kept locally and the result reports Degraded so
// the operator can be warned.
func (s *State) AddCategory(c Category) Result {
	if strings.TrimSpace(c.Name) == "" {
		return fail("Category name is required.")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	err := s.gw.InsertCategory(c)
	if err == nil {
		s.Refresh()
		return ok("Category saved.")
	}
	if IsSchemaMissing(err) {
		s.applyCategoriesLocally(func(cats []Category) []Category {
			return append(cats, c)
		})
		return Result{Success: true, Degraded: true, Message: "Category saved locally; the categories table is missing on the server."}
	}
	if CodeOf(err) == CodeConflict {
		return fail("A category with that slug already exists.")
	}
	s.logf("add category: %v", err)
	return fail("Could not save category: " + err.Error())
}

// UpdateCategory replaces a category's name and slug.
func (s *State) UpdateCategory(c Category) Result {
	if c.ID == "" {
		return fail("Category id is required.")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fail("Category name is required.")
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	err := s.gw.UpdateCategory(c)
	if err == nil {
		s.Refresh()
		return ok("Category updated.")
	}
	if IsSchemaMissing(err) {
		s.applyCategoriesLocally(func(cats []Category) []Category {
			for i := range cats {
				if cats[i].ID == c.ID {
					cats[i] = c
				}
			}
			return cats
		})
		return Result{Success: true, Degraded: true, Message: "Category updated locally; the categories table is missing on the server."}
	}
	s.logf("update category: %v", err)
	return fail("Could not update category: " + err.Error())
}

// DeleteCategory removes a category. Posts referencing its name are left
// orphaned by name; they keep their denormalized category string.
func (s *State) DeleteCategory(id string) Result {
	err := s.gw.DeleteCategory(id)
	if err == nil {
		s.Refresh()
		return ok("Category deleted.")
	}
	if IsSchemaMissing(err) {
		s.applyCategoriesLocally(func(cats []Category) []Category {
			out := cats[:0]
			for _, c := range cats {
				if c.ID != id {
					out = append(out, c)
				}
			}
			return out
		})
		return Result{Success: true, Degraded: true, Message: "Category removed locally; the categories table is missing on the server."}
	}
	s.logf("delete category: %v", err)
	return fail("Could not delete category: " + err.Error())
}

// UpdateSettings is a two-phase operation. Phase 1 always succeeds: the
// in-memory settings are replaced and mirrored to the local snapshot, so
// the UI reflects the change immediately. Phase 2 attempts remote
// persistence; a failure only flips the health flag and reports Degraded,
// it never rolls back phase 1.
func (s *State) UpdateSettings(st SiteSettings) Result {
	if strings.TrimSpace(st.SiteName) == "" {
		return fail("Site name is required.")
	}
	if !ValidFontFamily(st.FontFamily) {
		return fail("Unsupported font family.")
	}
	if !ValidLayoutMode(st.LayoutMode) {
		return fail("Unsupported layout mode.")
	}
	if !ValidThemeMode(st.ThemeMode) {
		return fail("Unsupported theme mode.")
	}
	st.ID = SettingsID

	// Phase 1: optimistic local replace. The visit counter is server-owned
	// and monotone, so carry the current value forward.
	s.mu.Lock()
	if st.TotalVisits < s.settings.TotalVisits {
		st.TotalVisits = s.settings.TotalVisits
	}
	s.settings = st
	s.mu.Unlock()
	s.snaps.Save(snapSettings, st)

	// Phase 2: fallible remote persistence.
	if err := s.gw.UpsertSettings(st); err != nil {
		s.logf("persist settings: %v", err)
		s.mu.Lock()
		s.health[ColSettings] = false
		s.mu.Unlock()
		if IsSchemaMissing(err) {
			return Result{Success: true, Degraded: true, Message: "Settings saved locally; the settings table is missing on the server."}
		}
		return Result{Success: true, Degraded: true, Message: "Settings saved locally but could not be persisted: " + err.Error()}
	}
	s.mu.Lock()
	s.health[ColSettings] = true
	s.mu.Unlock()
	return ok("Settings saved.")
}

// IncrementPostViews bumps a post's view counter. The atomic Gateway
// increment is preferred; when it is unsupported or fails, a read-modify-
// write through UpdatePost keeps the counter advancing. Best-effort: errors
// are logged, never surfaced, and the in-memory copy always advances so the
// counter a reader sees never decreases.
func (s *State) IncrementPostViews(id string) {
	err := s.gw.IncrementPostViews(id)
	if err != nil {
		if err != ErrIncrementUnsupported {
			s.logf("increment views: %v", err)
		}
		if p, found := s.PostByID(id); found {
			p.Views++
			if uerr := s.gw.UpdatePost(p); uerr != nil {
				s.logf("increment views fallback: %v", uerr)
			}
		}
	}
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Views++
		}
	}
	s.mu.Unlock()
}

// ShouldCountVisit is the site-visit dedupe rule: a visit counts when the
// browser session is known and differs from the one already recorded.
func ShouldCountVisit(sessionID, recordedID string) bool {
	return sessionID != "" && sessionID != recordedID
}

// RecordSiteVisit increments the settings singleton's total visit counter
// at most once per browser session. The caller passes the current session
// id and the id recorded on a previous visit; the return value reports
// whether the visit was counted (the caller then records sessionID).
// Best-effort: persistence failures are logged only.
func (s *State) RecordSiteVisit(sessionID, recordedID string) bool {
	if !ShouldCountVisit(sessionID, recordedID) {
		return false
	}
	s.mu.Lock()
	s.settings.TotalVisits++
	st := s.settings
	s.mu.Unlock()
	s.snaps.Save(snapSettings, st)
	if err := s.gw.UpsertSettings(st); err != nil {
		s.logf("record visit: %v", err)
	}
	return true
}

// AddSubscriber subscribes an email address. Uniqueness is checked
// case-insensitively against the in-memory set when it is loaded, and is
// otherwise delegated to the Gateway's unique constraint. Duplicates fail
// softly with an "already subscribed" message.
func (s *State) AddSubscriber(email string) Result {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fail("A valid email address is required.")
	}
	for _, sub := range s.Subscribers() {
		if strings.EqualFold(sub.Email, email) {
			return fail("This email is already subscribed.")
		}
	}
	sub := Subscriber{ID: uuid.NewString(), Email: email, CreatedAt: nowStamp()}
	if err := s.gw.InsertSubscriber(sub); err != nil {
		if CodeOf(err) == CodeConflict {
			return fail("This email is already subscribed.")
		}
		s.logf("add subscriber: %v", err)
		return fail("Could not subscribe: " + err.Error())
	}
	s.Refresh()
	return ok("Successfully subscribed!")
}

// RemoveSubscriber deletes a subscriber and refreshes.
func (s *State) RemoveSubscriber(id string) Result {
	if err := s.gw.DeleteSubscriber(id); err != nil {
		s.logf("remove subscriber: %v", err)
		return fail("Could not remove subscriber: " + err.Error())
	}
	s.Refresh()
	return ok("Subscriber removed.")
}

// Login validates credentials through the Gateway. Success enters the
// Authenticated state and refreshes (pulling the subscriber collection);
// failure stays Anonymous with a message for display.
func (s *State) Login(email, password string) Result {
	if err := s.gw.SignIn(email, password); err != nil {
		if err == ErrInvalidCredentials {
			return fail("Invalid email or password.")
		}
		s.logf("login: %v", err)
		return fail("Login is temporarily unavailable: " + err.Error())
	}
	s.SetAdminMode(true)
	return ok("")
}

// Logout leaves the Authenticated state.
func (s *State) Logout() {
	s.SetAdminMode(false)
}
