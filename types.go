package flowpress

// Post is the core content type managed by the engine. Category is a
// denormalized name string, not a foreign key: deleting a category leaves
// posts referencing it untouched.
type Post struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Excerpt         string    `json:"excerpt"`
	Content         string    `json:"content"`
	CoverImage      string    `json:"cover_image"`
	Category        string    `json:"category"`
	Author          string    `json:"author"`
	Published       bool      `json:"published"`
	Featured        bool      `json:"is_featured"`
	Views           int64     `json:"views"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at,omitempty"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Comments        []Comment `json:"comments,omitempty"`
}

// Comment is a reader comment attached to a post.
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// Category is a named content grouping. Posts reference it by name only.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Subscriber is a newsletter contact. Email is unique case-insensitively.
type Subscriber struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// SocialLinks holds the site's social profile URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Font family choices for SiteSettings.FontFamily.
const (
	FontInter        = "Inter"
	FontMerriweather = "Merriweather"
	FontSpaceGrotesk = "Space Grotesk"
)

// Layout modes for SiteSettings.LayoutMode.
const (
	LayoutWide  = "wide"
	LayoutBoxed = "boxed"
)

// Theme modes for SiteSettings.ThemeMode.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// SettingsID is the fixed identifier of the singleton settings row.
const SettingsID = "default"

// SiteSettings is the single global configuration record. Exactly one row
// exists, keyed by SettingsID. TotalVisits is monotonically non-decreasing.
type SiteSettings struct {
	ID           string      `json:"id"`
	SiteName     string      `json:"site_name"`
	Tagline      string      `json:"tagline"`
	Description  string      `json:"description"`
	LogoURL      string      `json:"logo_url,omitempty"`
	FaviconURL   string      `json:"favicon_url,omitempty"`
	PrimaryColor string      `json:"primary_color"`
	FontFamily   string      `json:"font_family"`
	LayoutMode   string      `json:"layout_mode"`
	ThemeMode    string      `json:"theme_mode"`
	SocialLinks  SocialLinks `json:"social_links"`
	TotalVisits  int64       `json:"total_visits"`
}

// Result is the structured outcome of a Store mutation. Failures are data,
// not errors: callers render Message without exception handling. Degraded
// reports that the change was applied locally but could not be confirmed
// against the remote source.
type Result struct {
	Success  bool
	Degraded bool
	Message  string
}

func ok(msg string) Result {
	return Result{Success: true, Message: msg}
}

func fail(msg string) Result {
	return Result{Success: false, Message: msg}
}

// DefaultSettings returns the seed configuration used at first run and as
// the fallback when neither the remote source nor a snapshot is available.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		ID:           SettingsID,
		SiteName:     "Future Flow Hub",
		Tagline:      "Your Daily Dose of Tech, Innovation & Future Insights",
		Description:  "Exploring the frontiers of technology, finance, and human progress.",
		PrimaryColor: "#3b82f6",
		FontFamily:   FontInter,
		LayoutMode:   LayoutWide,
		ThemeMode:    ThemeLight,
	}
}

// DefaultCategories returns the seed category set.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Tech", Slug: "tech"},
		{ID: "2", Name: "AI", Slug: "ai"},
		{ID: "3", Name: "Investments", Slug: "investments"},
		{ID: "4", Name: "Startups", Slug: "startups"},
		{ID: "5", Name: "Resources", Slug: "resources"},
	}
}

// ValidFontFamily reports whether f is one of the three supported fonts.
func ValidFontFamily(f string) bool {
	return f == FontInter || f == FontMerriweather || f == FontSpaceGrotesk
}

// ValidLayoutMode reports whether m is a supported layout mode.
func ValidLayoutMode(m string) bool {
	return m == LayoutWide || m == LayoutBoxed
}

// ValidThemeMode reports whether m is a supported theme mode.
func ValidThemeMode(m string) bool {
	return m == ThemeLight || m == ThemeDark
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
