package filter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/renderinc/blog-search/internal/blog"
)

// Key names a sortable field
type Key string

const (
	KeyTitle       Key = "title"
	KeySubtitle    Key = "subtitle"
	KeyContent     Key = "content" // Accepted for panel ordering, never compares
	KeyTag         Key = "tag"     // First tag
	KeyAuthor      Key = "author"  // First author name
	KeyLanguage    Key = "language"
	KeyDatePosted  Key = "date-posted"
	KeyDateUpdated Key = "date-updated"
)

// Keys lists the keys in their default panel order
var Keys = []Key{KeyTitle, KeySubtitle, KeyContent, KeyTag, KeyAuthor, KeyLanguage, KeyDatePosted, KeyDateUpdated}

// Mode is the sort direction of one criterion
type Mode string

const (
	ModeNone    Mode = "none"
	ModeAToZ    Mode = "a-z"
	ModeZToA    Mode = "z-a"
	ModeMoreFew Mode = "m-l" // High to low
	ModeFewMore Mode = "l-m" // Low to high
	ModeNewest  Mode = "n-o" // Dates only
	ModeOldest  Mode = "o-n" // Dates only
)

var modes = []Mode{ModeNone, ModeAToZ, ModeZToA, ModeMoreFew, ModeFewMore, ModeNewest, ModeOldest}

// Criterion is one sort key with its direction
type Criterion struct {
	Key  Key
	Mode Mode
}

// SortSpec lists criteria by priority, highest first
type SortSpec []Criterion

// ParseCriterion parses "key:mode", e.g. "date-updated:n-o"
func ParseCriterion(s string) (Criterion, error) {
	key, mode, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Criterion{}, fmt.Errorf("invalid sort %q: want key:mode", s)
	}
	c := Criterion{Key: Key(key), Mode: Mode(mode)}
	if !slices.Contains(Keys, c.Key) {
		return Criterion{}, fmt.Errorf("invalid sort key %q", key)
	}
	if !slices.Contains(modes, c.Mode) {
		return Criterion{}, fmt.Errorf("invalid sort mode %q", mode)
	}
	return c, nil
}

// ParseSortSpec parses criteria in priority order
func ParseSortSpec(values []string) (SortSpec, error) {
	spec := make(SortSpec, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		c, err := ParseCriterion(v)
		if err != nil {
			return nil, err
		}
		spec = append(spec, c)
	}
	return spec, nil
}

// active drops criteria without a direction
func (s SortSpec) active() SortSpec {
	out := make(SortSpec, 0, len(s))
	for _, c := range s {
		if c.Mode != ModeNone && c.Mode != "" {
			out = append(out, c)
		}
	}
	return out
}

// Spec holds the selections of one search. Zero values mean no constraint.
type Spec struct {
	Tags      []string
	Authors   []string
	Languages []string // Language codes

	Title    string
	Subtitle string
	Content  string

	// Inclusive bounds
	PostedStart  *time.Time
	PostedEnd    *time.Time
	UpdatedStart *time.Time
	UpdatedEnd   *time.Time
}

// Query is the free text sent to the search index
func (s Spec) Query() string {
	return strings.TrimSpace(strings.ToLower(s.Title + " " + s.Subtitle + " " + s.Content))
}

// Match reports whether doc satisfies every structured constraint.
// The text query membership is checked by the engine.
func (s Spec) Match(doc *blog.Document) bool {
	if t := normalize(s.Title); t != "" && !strings.Contains(strings.ToLower(doc.Title), t) {
		return false
	}
	if st := normalize(s.Subtitle); st != "" && !strings.Contains(strings.ToLower(doc.Subtitle), st) {
		return false
	}
	if len(s.Tags) > 0 && !intersects(doc.Tags, s.Tags) {
		return false
	}
	if len(s.Authors) > 0 && !intersects(doc.AuthorNames(), s.Authors) {
		return false
	}
	if len(s.Languages) > 0 && !slices.Contains(s.Languages, doc.Language.Code) {
		return false
	}
	return inRange(doc.DatePosted, s.PostedStart, s.PostedEnd) &&
		inRange(doc.DateUpdated, s.UpdatedStart, s.UpdatedEnd)
}

func normalize(fragment string) string {
	return strings.ToLower(strings.TrimSpace(fragment))
}

func intersects(values, selected []string) bool {
	for _, v := range values {
		if slices.Contains(selected, v) {
			return true
		}
	}
	return false
}

// inRange fails a missing date as soon as either bound is set
func inRange(date, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	if date == nil {
		return false
	}
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}
