// Package session holds the state of one built corpus: documents in
// display order, the search index, the filter engine and the rendered
// result list. It is created once and then only read, except for the
// display which every search reconciles under the session lock.
package session

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/corpus"
	"github.com/renderinc/blog-search/internal/filter"
	"github.com/renderinc/blog-search/internal/reconcile"
)

// ErrNotReady is returned while the corpus is still being built
var ErrNotReady = errors.New("search is not ready")

// Display is a result list that also shows the matched and total counters
type Display interface {
	reconcile.View
	SetCounters(matched, total int)
}

// Applier runs one filtered and sorted search
type Applier interface {
	Apply(docs []blog.Document, spec filter.Spec, sortSpec filter.SortSpec) (*filter.Result, error)
}

type Session struct {
	mu      sync.Mutex
	corpus  *corpus.Corpus
	docs    []blog.Document // Newest updated first, the initial display order
	engine  Applier
	display Display
}

// New creates a session. display must already hold one element per
// document of c, in the order returned by Documents.
func New(c *corpus.Corpus, engine Applier, display Display) *Session {
	s := &Session{
		corpus:  c,
		docs:    filter.DefaultOrder(c.Documents),
		engine:  engine,
		display: display,
	}
	display.SetCounters(len(s.docs), len(s.docs))
	return s
}

// Documents returns the documents in initial display order
func (s *Session) Documents() []blog.Document {
	return s.docs
}

func (s *Session) Corpus() *corpus.Corpus {
	return s.corpus
}

// Apply runs a search without touching the display
func (s *Session) Apply(spec filter.Spec, sortSpec filter.SortSpec) (*filter.Result, error) {
	return s.engine.Apply(s.docs, spec, sortSpec)
}

// Search runs a search and reconciles the display with its result
func (s *Session) Search(spec filter.Spec, sortSpec filter.SortSpec) (*filter.Result, error) {
	return s.SearchRender(spec, sortSpec, nil)
}

// SearchRender is Search followed by render, both under the session lock,
// so render sees the display exactly as this search left it
func (s *Session) SearchRender(spec filter.Spec, sortSpec filter.SortSpec, render func(Display) error) (*filter.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Apply(s.docs, spec, sortSpec)
	if err != nil {
		return nil, err
	}

	reconcile.Reconcile(s.display, s.docs, res.Candidates)
	s.display.SetCounters(res.Matched, res.Total)

	if render != nil {
		if err := render(s.display); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Holder publishes a session once its build completes
type Holder struct {
	session atomic.Pointer[Session]
}

func (h *Holder) Set(s *Session) {
	h.session.Store(s)
}

// Get returns the session, or ErrNotReady before Set
func (h *Holder) Get() (*Session, error) {
	s := h.session.Load()
	if s == nil {
		return nil, ErrNotReady
	}
	return s, nil
}
