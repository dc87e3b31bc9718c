package flowpress

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"), filepath.Join(dir, "uploads"), "/public/uploads")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreSeedsDefaults(t *testing.T) {
	s := setupTestStore(t)

	st, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if st.SiteName != DefaultSettings().SiteName {
		t.Errorf("SiteName = %q, want seed default %q", st.SiteName, DefaultSettings().SiteName)
	}

	cats, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != len(DefaultCategories()) {
		t.Errorf("category count = %d, want %d", len(cats), len(DefaultCategories()))
	}
	// Ordered by name: AI first.
	if cats[0].Name != "AI" {
		t.Errorf("first category = %q, want AI", cats[0].Name)
	}
}

func TestPostRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	post := Post{
		ID:        "p1",
		Title:     "Test Post",
		Slug:      "test-post",
		Excerpt:   "A summary",
		Content:   "<p>Body</p>",
		Category:  "Tech",
		Author:    "Jo",
		Published: true,
		Featured:  true,
		Tags:      []string{"go", "testing"},
		Comments:  []Comment{{ID: "c1", Author: "Reader", Body: "Nice", CreatedAt: "2026-01-01T00:00:00Z"}},
	}
	if err := s.InsertPost(post); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	posts, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("post count = %d, want 1", len(posts))
	}

	got := posts[0]
	if got.Title != post.Title || got.Slug != post.Slug || got.Content != post.Content {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if !got.Published || !got.Featured {
		t.Error("Published and Featured should survive the round trip")
	}
	if got.CreatedAt == "" {
		t.Error("CreatedAt should be stamped on insert")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
	if len(got.Comments) != 1 || got.Comments[0].Body != "Nice" {
		t.Errorf("Comments = %v, want the saved comment", got.Comments)
	}
}

func TestListPostsOrder(t *testing.T) {
	s := setupTestStore(t)

	posts := []Post{
		{ID: "p1", Title: "Oldest", Slug: "oldest", Content: "c", CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "p2", Title: "Newest", Slug: "newest", Content: "c", CreatedAt: "2026-03-01T00:00:00Z"},
		{ID: "p3", Title: "Middle", Slug: "middle", Content: "c", CreatedAt: "2026-02-01T00:00:00Z"},
	}
	for _, p := range posts {
		if err := s.InsertPost(p); err != nil {
			t.Fatalf("InsertPost failed: %v", err)
		}
	}

	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 || got[0].ID != "p2" || got[1].ID != "p3" || got[2].ID != "p1" {
		t.Errorf("expected newest-first order p2,p3,p1, got %v", []string{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestUpdatePost(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertPost(Post{ID: "p1", Title: "Original", Slug: "original", Content: "c"}); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	if err := s.UpdatePost(Post{ID: "p1", Title: "Updated", Slug: "original", Content: "c2"}); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	posts, _ := s.ListPosts()
	if posts[0].Title != "Updated" {
		t.Errorf("Title = %q, want Updated", posts[0].Title)
	}
	if posts[0].UpdatedAt == "" {
		t.Error("UpdatedAt should be stamped server-side on update")
	}
	if posts[0].CreatedAt == "" {
		t.Error("CreatedAt should be preserved across updates")
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.UpdatePost(Post{ID: "missing", Title: "T", Slug: "t", Content: "c"})
	if CodeOf(err) != CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", err)
	}
}

func TestDeletePostIdempotent(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertPost(Post{ID: "p1", Title: "T", Slug: "t", Content: "c"}); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if err := s.DeletePost("p1"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if err := s.DeletePost("p1"); err != nil {
		t.Errorf("deleting a missing post should not error, got %v", err)
	}

	posts, _ := s.ListPosts()
	if len(posts) != 0 {
		t.Errorf("post count after delete = %d, want 0", len(posts))
	}
}

func TestIncrementPostViews(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertPost(Post{ID: "p1", Title: "T", Slug: "t", Content: "c"}); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.IncrementPostViews("p1"); err != nil {
			t.Fatalf("IncrementPostViews failed: %v", err)
		}
	}

	posts, _ := s.ListPosts()
	if posts[0].Views != 3 {
		t.Errorf("Views = %d, want 3", posts[0].Views)
	}
}

func TestCategoryConflict(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertCategory(Category{ID: "c1", Name: "Robotics", Slug: "robotics"}); err != nil {
		t.Fatalf("InsertCategory failed: %v", err)
	}
	err := s.InsertCategory(Category{ID: "c2", Name: "Robots", Slug: "robotics"})
	if CodeOf(err) != CodeConflict {
		t.Errorf("expected CodeConflict on duplicate slug, got %v", err)
	}
}

func TestSubscriberConflictCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertSubscriber(Subscriber{ID: "s1", Email: "Reader@Example.com"}); err != nil {
		t.Fatalf("InsertSubscriber failed: %v", err)
	}
	err := s.InsertSubscriber(Subscriber{ID: "s2", Email: "reader@example.com"})
	if CodeOf(err) != CodeConflict {
		t.Errorf("expected CodeConflict for case-varied duplicate, got %v", err)
	}

	subs, err := s.ListSubscribers()
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("subscriber count = %d, want 1", len(subs))
	}
}

func TestSettingsSingleton(t *testing.T) {
	s := setupTestStore(t)

	st := DefaultSettings()
	st.SiteName = "Renamed"
	st.ThemeMode = ThemeDark
	st.SocialLinks.Twitter = "https://twitter.com/example"
	st.TotalVisits = 42
	if err := s.UpsertSettings(st); err != nil {
		t.Fatalf("UpsertSettings failed: %v", err)
	}

	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.SiteName != "Renamed" || got.ThemeMode != ThemeDark || got.TotalVisits != 42 {
		t.Errorf("settings round trip mismatch: %+v", got)
	}
	if got.SocialLinks.Twitter != "https://twitter.com/example" {
		t.Errorf("SocialLinks.Twitter = %q", got.SocialLinks.Twitter)
	}
}

func TestDroppedTableClassifiedSchemaMissing(t *testing.T) {
	s := setupTestStore(t)

	if err := s.DropTable("posts"); err != nil {
		t.Fatalf("DropTable failed: %v", err)
	}

	_, err := s.ListPosts()
	if !IsSchemaMissing(err) {
		t.Errorf("expected schema-missing error after drop, got %v", err)
	}

	// Other tables keep working.
	if _, err := s.ListCategories(); err != nil {
		t.Errorf("ListCategories should still work, got %v", err)
	}
}

func TestSignIn(t *testing.T) {
	s := setupTestStore(t)

	if err := s.EnsureAdmin("admin@example.com", "s3cret"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	// Idempotent.
	if err := s.EnsureAdmin("admin@example.com", "different"); err != nil {
		t.Fatalf("EnsureAdmin second call failed: %v", err)
	}

	if err := s.SignIn("admin@example.com", "s3cret"); err != nil {
		t.Errorf("SignIn with correct password failed: %v", err)
	}
	if err := s.SignIn("admin@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if err := s.SignIn("nobody@example.com", "s3cret"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUploadFile(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.UploadFile("missing-bucket", "a.jpg", []byte("data"))
	if CodeOf(err) != CodeBucketNotFound {
		t.Errorf("expected CodeBucketNotFound, got %v", err)
	}

	if err := s.EnsureBucket("blog-assets"); err != nil {
		t.Fatalf("EnsureBucket failed: %v", err)
	}
	url, err := s.UploadFile("blog-assets", "a.jpg", []byte("data"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if url != "/public/uploads/blog-assets/a.jpg" {
		t.Errorf("url = %q, want %q", url, "/public/uploads/blog-assets/a.jpg")
	}

	data, err := os.ReadFile(filepath.Join(s.uploadsDir, "blog-assets", "a.jpg"))
	if err != nil || string(data) != "data" {
		t.Errorf("uploaded file not written: %v %q", err, data)
	}
}
