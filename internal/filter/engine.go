// Package filter narrows a corpus to the documents matching a search and
// orders them by a multi-key sort specification.
package filter

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/search"
)

// Searcher ranks documents for a free-text query.
// A nil slice means the query carried no indexable text; an empty
// non-nil slice means nothing matched.
type Searcher interface {
	Query(text string) ([]search.Hit, error)
}

// Candidate is a document that survived filtering
type Candidate struct {
	Doc   *blog.Document
	Score float64 // Fuzzy score, zero without a text query
}

// Result is the ordered outcome of one search
type Result struct {
	Candidates []Candidate
	Matched    int
	Total      int
	Scored     bool // A text query was active
}

// IDs returns candidate ids in order
func (r *Result) IDs() []int {
	ids := make([]int, len(r.Candidates))
	for i, c := range r.Candidates {
		ids[i] = c.Doc.ID
	}
	return ids
}

// Engine applies filter and sort specifications
type Engine struct {
	searcher Searcher
	lang     language.Tag
}

// NewEngine creates an engine comparing strings with the collation of lang
func NewEngine(searcher Searcher, lang language.Tag) *Engine {
	return &Engine{searcher: searcher, lang: lang}
}

// Apply returns the documents matching spec, ordered by sortSpec.
// docs is never modified; candidates point into it.
func (e *Engine) Apply(docs []blog.Document, spec Spec, sortSpec SortSpec) (*Result, error) {
	var scores map[int]float64
	if q := spec.Query(); q != "" {
		hits, err := e.searcher.Query(q)
		if err != nil {
			return nil, fmt.Errorf("query index: %w", err)
		}
		// nil hits: no indexable token, so no text constraint
		if hits != nil {
			scores = make(map[int]float64, len(hits))
			for _, h := range hits {
				scores[h.ID] = h.Score
			}
		}
	}

	candidates := make([]Candidate, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		var score float64
		if scores != nil {
			s, ok := scores[doc.ID]
			if !ok {
				continue
			}
			score = s
		}
		if !spec.Match(doc) {
			continue
		}
		candidates = append(candidates, Candidate{Doc: doc, Score: score})
	}

	// The collator keeps internal buffers, so each call gets its own
	c := &comparer{
		criteria: sortSpec.active(),
		collator: collate.New(e.lang, collate.IgnoreCase),
		scored:   scores != nil,
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return c.compare(candidates[i], candidates[j]) < 0
	})

	return &Result{
		Candidates: candidates,
		Matched:    len(candidates),
		Total:      len(docs),
		Scored:     scores != nil,
	}, nil
}

type comparer struct {
	criteria SortSpec
	collator *collate.Collator
	scored   bool
}

// compare returns the first non-zero criterion result, then falls back to
// descending score when a text query ran
func (c *comparer) compare(a, b Candidate) int {
	for _, crit := range c.criteria {
		if res := c.compareKey(crit, a.Doc, b.Doc); res != 0 {
			return res
		}
	}
	if c.scored {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
	}
	return 0
}

func (c *comparer) compareKey(crit Criterion, a, b *blog.Document) int {
	switch crit.Key {
	case KeyDatePosted:
		return dateOrder(crit.Mode, compareDates(a.DatePosted, b.DatePosted))
	case KeyDateUpdated:
		return dateOrder(crit.Mode, compareDates(a.DateUpdated, b.DateUpdated))
	}

	var res int
	switch crit.Key {
	case KeyTitle:
		res = c.collator.CompareString(a.Title, b.Title)
	case KeySubtitle:
		res = c.collator.CompareString(a.Subtitle, b.Subtitle)
	case KeyTag:
		res = c.collator.CompareString(a.FirstTag(), b.FirstTag())
	case KeyAuthor:
		res = c.collator.CompareString(a.FirstAuthor(), b.FirstAuthor())
	case KeyLanguage:
		res = c.collator.CompareString(a.Language.Name, b.Language.Name)
	}

	if crit.Mode == ModeZToA || crit.Mode == ModeMoreFew {
		res = -res
	}
	return res
}

// dateOrder applies the explicit date modes; only newest-first descends
func dateOrder(mode Mode, res int) int {
	if mode == ModeNewest {
		return -res
	}
	return res
}

// compareDates orders a missing date before every known date after 1970
func compareDates(a, b *time.Time) int {
	ua, ub := dateValue(a), dateValue(b)
	switch {
	case ua < ub:
		return -1
	case ua > ub:
		return 1
	}
	return 0
}

func dateValue(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

// DefaultOrder returns a copy of docs sorted newest updated first
func DefaultOrder(docs []blog.Document) []blog.Document {
	out := make([]blog.Document, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return compareDates(out[i].DateUpdated, out[j].DateUpdated) > 0
	})
	return out
}
