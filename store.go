package flowpress

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// SchemaSQL is the full table schema. It is surfaced to administrators as a
// repair script when a collection degrades with a schema-missing error.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    cover_image TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 0,
    is_featured INTEGER NOT NULL DEFAULT 0,
    views INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT '',
    meta_title TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    comments TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subscribers (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE COLLATE NOCASE,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    id TEXT PRIMARY KEY,
    site_name TEXT NOT NULL,
    tagline TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    logo_url TEXT NOT NULL DEFAULT '',
    favicon_url TEXT NOT NULL DEFAULT '',
    primary_color TEXT NOT NULL DEFAULT '#3b82f6',
    font_family TEXT NOT NULL DEFAULT 'Inter',
    layout_mode TEXT NOT NULL DEFAULT 'wide',
    theme_mode TEXT NOT NULL DEFAULT 'light',
    social_links TEXT NOT NULL DEFAULT '{}',
    total_visits INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS admin_users (
    email TEXT PRIMARY KEY COLLATE NOCASE,
    password_hash TEXT NOT NULL
);
`

// Store is the production Gateway: a SQLite database plus a directory of
// upload buckets.
type Store struct {
	db         *sql.DB
	uploadsDir string
	publicBase string
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, runs schema setup, and seeds defaults. uploadsDir holds
// one subdirectory per storage bucket; publicBase is the URL prefix under
// which uploaded files are served.
func NewStore(path, uploadsDir, publicBase string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy timeout so writers wait
	// instead of returning SQLITE_BUSY, synchronous=NORMAL to avoid an
	// fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, uploadsDir: uploadsDir, publicBase: strings.TrimRight(publicBase, "/")}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(SchemaSQL); err != nil {
		return err
	}
	// Seed the settings singleton and default categories on first run.
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if err := s.UpsertSettings(DefaultSettings()); err != nil {
			return err
		}
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, c := range DefaultCategories() {
			if err := s.InsertCategory(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// classify maps a raw database error to a GatewayError with a machine code.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"):
		return gwErr(CodeSchemaMissing, op, err)
	case strings.Contains(msg, "unique constraint failed"):
		return gwErr(CodeConflict, op, err)
	case errors.Is(err, sql.ErrNoRows):
		return gwErr(CodeNotFound, op, err)
	default:
		return gwErr(CodeUnavailable, op, err)
	}
}

const postColumns = `id, title, slug, excerpt, content, cover_image, category, author,
	published, is_featured, views, created_at, updated_at, meta_title, meta_description, tags, comments`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var published, featured int
	var tags, comments string
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage,
		&p.Category, &p.Author, &published, &featured, &p.Views, &p.CreatedAt,
		&p.UpdatedAt, &p.MetaTitle, &p.MetaDescription, &tags, &comments)
	if err != nil {
		return Post{}, err
	}
	p.Published = published == 1
	p.Featured = featured == 1
	_ = json.Unmarshal([]byte(tags), &p.Tags)
	_ = json.Unmarshal([]byte(comments), &p.Comments)
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalList(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

// ListPosts returns every post ordered newest-first by creation time.
func (s *Store) ListPosts() ([]Post, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, classify("list posts", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, classify("scan post", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list posts", err)
	}
	return posts, nil
}

// InsertPost stores a new post. CreatedAt is server-managed: it is stamped
// here when absent.
func (s *Store) InsertPost(p Post) error {
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(`INSERT INTO posts (`+postColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Category, p.Author,
		boolInt(p.Published), boolInt(p.Featured), p.Views, p.CreatedAt, "",
		p.MetaTitle, p.MetaDescription, marshalList(p.Tags), marshalList(p.Comments))
	return classify("insert post", err)
}

// UpdatePost replaces a post's mutable fields. Timestamps in p are ignored;
// updated_at is stamped server-side and created_at is never touched.
func (s *Store) UpdatePost(p Post) error {
	res, err := s.db.Exec(`UPDATE posts SET title=?, slug=?, excerpt=?, content=?, cover_image=?,
		category=?, author=?, published=?, is_featured=?, views=?, updated_at=?,
		meta_title=?, meta_description=?, tags=?, comments=? WHERE id=?`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Category, p.Author,
		boolInt(p.Published), boolInt(p.Featured), p.Views,
		time.Now().UTC().Format(time.RFC3339),
		p.MetaTitle, p.MetaDescription, marshalList(p.Tags), marshalList(p.Comments), p.ID)
	if err != nil {
		return classify("update post", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gwErr(CodeNotFound, "update post", fmt.Errorf("post %s not found", p.ID))
	}
	return nil
}

// DeletePost removes a post by id. Deleting a missing post is not an error.
func (s *Store) DeletePost(id string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return classify("delete post", err)
}

// IncrementPostViews bumps the view counter server-side in one statement, so
// concurrent readers never lose an increment.
func (s *Store) IncrementPostViews(id string) error {
	_, err := s.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = ?`, id)
	return classify("increment views", err)
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, classify("list categories", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, classify("scan category", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list categories", err)
	}
	return cats, nil
}

// InsertCategory stores a new category.
func (s *Store) InsertCategory(c Category) error {
	_, err := s.db.Exec(`INSERT INTO categories (id, name, slug) VALUES (?, ?, ?)`, c.ID, c.Name, c.Slug)
	return classify("insert category", err)
}

// UpdateCategory replaces a category's name and slug.
func (s *Store) UpdateCategory(c Category) error {
	res, err := s.db.Exec(`UPDATE categories SET name=?, slug=? WHERE id=?`, c.Name, c.Slug, c.ID)
	if err != nil {
		return classify("update category", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gwErr(CodeNotFound, "update category", fmt.Errorf("category %s not found", c.ID))
	}
	return nil
}

// DeleteCategory removes a category by id. Posts referencing its name are
// left as-is.
func (s *Store) DeleteCategory(id string) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return classify("delete category", err)
}

// GetSettings returns the settings singleton.
func (s *Store) GetSettings() (SiteSettings, error) {
	var st SiteSettings
	var social string
	err := s.db.QueryRow(`SELECT id, site_name, tagline, description, logo_url, favicon_url,
		primary_color, font_family, layout_mode, theme_mode, social_links, total_visits
		FROM settings WHERE id = ?`, SettingsID).
		Scan(&st.ID, &st.SiteName, &st.Tagline, &st.Description, &st.LogoURL, &st.FaviconURL,
			&st.PrimaryColor, &st.FontFamily, &st.LayoutMode, &st.ThemeMode, &social, &st.TotalVisits)
	if err != nil {
		return SiteSettings{}, classify("get settings", err)
	}
	_ = json.Unmarshal([]byte(social), &st.SocialLinks)
	return st, nil
}

// UpsertSettings replaces the settings singleton wholesale.
func (s *Store) UpsertSettings(st SiteSettings) error {
	social, err := json.Marshal(st.SocialLinks)
	if err != nil {
		social = []byte("{}")
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO settings
		(id, site_name, tagline, description, logo_url, favicon_url, primary_color,
		 font_family, layout_mode, theme_mode, social_links, total_visits)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		SettingsID, st.SiteName, st.Tagline, st.Description, st.LogoURL, st.FaviconURL,
		st.PrimaryColor, st.FontFamily, st.LayoutMode, st.ThemeMode, string(social), st.TotalVisits)
	return classify("upsert settings", err)
}

// ListSubscribers returns all subscribers, newest first.
func (s *Store) ListSubscribers() ([]Subscriber, error) {
	rows, err := s.db.Query(`SELECT id, email, created_at FROM subscribers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, classify("list subscribers", err)
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, classify("scan subscriber", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list subscribers", err)
	}
	return subs, nil
}

// InsertSubscriber stores a new subscriber. The email column collates
// case-insensitively, so A@b.com and a@B.com collide with CodeConflict.
func (s *Store) InsertSubscriber(sub Subscriber) error {
	if sub.CreatedAt == "" {
		sub.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(`INSERT INTO subscribers (id, email, created_at) VALUES (?, ?, ?)`,
		sub.ID, sub.Email, sub.CreatedAt)
	return classify("insert subscriber", err)
}

// DeleteSubscriber removes a subscriber by id.
func (s *Store) DeleteSubscriber(id string) error {
	_, err := s.db.Exec(`DELETE FROM subscribers WHERE id = ?`, id)
	return classify("delete subscriber", err)
}

// EnsureAdmin creates the administrator account if it does not exist yet.
// The password is stored as a bcrypt hash.
func (s *Store) EnsureAdmin(email, password string) error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM admin_users WHERE email = ?`, email).Scan(&n); err != nil {
		return classify("ensure admin", err)
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO admin_users (email, password_hash) VALUES (?, ?)`, email, string(hash))
	return classify("ensure admin", err)
}

// SignIn validates administrator credentials against the stored bcrypt hash.
func (s *Store) SignIn(email, password string) error {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM admin_users WHERE email = ?`, email).Scan(&hash)
	if err == sql.ErrNoRows {
		// Burn a comparison anyway so sign-in timing does not reveal
		// whether the account exists.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0q6z7dJ1mYkzFvC0e2r3s4t5u6W"), []byte(password))
		return ErrInvalidCredentials
	}
	if err != nil {
		return classify("sign in", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// UploadFile writes data into the named bucket and returns the public URL.
// Buckets are pre-created directories, mirroring hosted object storage where
// a missing bucket is the operator's problem, not the uploader's.
func (s *Store) UploadFile(bucket, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.uploadsDir, bucket)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return "", gwErr(CodeBucketNotFound, "upload", fmt.Errorf("bucket %q not found", bucket))
	}
	if err != nil {
		return "", gwErr(CodeUnavailable, "upload", err)
	}
	if !info.IsDir() {
		return "", gwErr(CodeBucketNotFound, "upload", fmt.Errorf("bucket %q is not a directory", bucket))
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		if os.IsPermission(err) {
			return "", gwErr(CodePermissionDenied, "upload", err)
		}
		return "", gwErr(CodeUnavailable, "upload", err)
	}
	return s.publicBase + "/" + bucket + "/" + filename, nil
}

// EnsureBucket creates a storage bucket directory if missing. Used at
// startup for the default bucket.
func (s *Store) EnsureBucket(bucket string) error {
	return os.MkdirAll(filepath.Join(s.uploadsDir, bucket), 0o755)
}

// DropTable removes a table. It exists for operational tooling and tests
// that exercise schema-missing degradation.
func (s *Store) DropTable(name string) error {
	_, err := s.db.Exec(`DROP TABLE IF EXISTS ` + name)
	return err
}
