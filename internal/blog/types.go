package blog

import "time"

// Defaults substituted by the extractor when a field is missing
const (
	DefaultTitle        = "Untitled"
	DefaultAuthorName   = "Unknown"
	DefaultLanguageCode = "en"
	DefaultLanguageName = "English"
	DefaultLanguageFlag = "🇬🇧"
)

// Author represents one entry of a post's author list
type Author struct {
	Name  string `json:"name"`
	Image string `json:"img"`
	Role  string `json:"role"`
}

// Language is the single active language of a post
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Document represents one rendered blog page
type Document struct {
	ID          int        `json:"id"` // Position in the manifest
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Banner      string     `json:"banner,omitempty"`
	Tags        []string   `json:"tags"`
	Authors     []Author   `json:"authors"`
	DatePosted  *time.Time `json:"datePosted"`  // nil if missing or malformed
	DateUpdated *time.Time `json:"dateUpdated"` // nil if missing or malformed
	PostedStr   string     `json:"postedStr"`   // Kept verbatim for display
	UpdatedStr  string     `json:"updatedStr"`
	Language    Language   `json:"language"`
	Content     string     `json:"content"`
}

// AuthorNames returns the names of the document's authors in order
func (d *Document) AuthorNames() []string {
	names := make([]string, len(d.Authors))
	for i, a := range d.Authors {
		names[i] = a.Name
	}
	return names
}

// FirstTag returns the first tag or an empty string
func (d *Document) FirstTag() string {
	if len(d.Tags) == 0 {
		return ""
	}
	return d.Tags[0]
}

// FirstAuthor returns the first author's name or an empty string
func (d *Document) FirstAuthor() string {
	if len(d.Authors) == 0 {
		return ""
	}
	return d.Authors[0].Name
}
