package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/corpus"
	"github.com/renderinc/blog-search/internal/filter"
	"github.com/renderinc/blog-search/internal/reconcile"
	"github.com/renderinc/blog-search/internal/search"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func newSession(t *testing.T) (*Session, *reconcile.ListView) {
	t.Helper()
	c := corpus.FromDocuments([]blog.Document{
		{ID: 0, Title: "Intro to Caching", Tags: []string{"go"}, DateUpdated: date(2024, 1, 1)},
		{ID: 1, Title: "Gardening", Tags: []string{"rust"}, DateUpdated: date(2024, 2, 1)},
		{ID: 2, Title: "Caching in Rust", Tags: []string{"go", "rust"}, DateUpdated: date(2024, 3, 1)},
	}, 3)

	idx, err := search.NewMemOnly()
	if err != nil {
		t.Fatalf("NewMemOnly failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	if err := idx.Load(c.Documents); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var ids []int
	for _, d := range filter.DefaultOrder(c.Documents) {
		ids = append(ids, d.ID)
	}
	view := reconcile.NewListView(ids)

	return New(c, filter.NewEngine(idx, language.English), view), view
}

func TestSessionInitialState(t *testing.T) {
	s, view := newSession(t)

	if got := view.Visible(); !reflect.DeepEqual(got, []int{2, 1, 0}) {
		t.Errorf("expected newest updated first, got %v", got)
	}
	if m, total := view.Counters(); m != 3 || total != 3 {
		t.Errorf("expected counters 3/3, got %d/%d", m, total)
	}
	if len(s.Corpus().Vocabulary.Tags) != 2 {
		t.Errorf("unexpected vocabulary: %+v", s.Corpus().Vocabulary)
	}
}

func TestSessionSearchReconciles(t *testing.T) {
	s, view := newSession(t)

	res, err := s.Search(filter.Spec{Tags: []string{"go"}}, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !reflect.DeepEqual(res.IDs(), []int{2, 0}) {
		t.Errorf("expected [2 0], got %v", res.IDs())
	}
	if got := view.Visible(); !reflect.DeepEqual(got, []int{2, 0}) {
		t.Errorf("display out of sync: %v", got)
	}
	if m, _ := view.Counters(); m != 2 {
		t.Errorf("expected 2 matched, got %d", m)
	}

	_, err = s.Search(filter.Spec{Content: "cachin"}, filter.SortSpec{{Key: filter.KeyTitle, Mode: filter.ModeAToZ}})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got := view.Visible(); !reflect.DeepEqual(got, []int{2, 0}) {
		t.Errorf("expected [2 0] by title, got %v", got)
	}

	_, err = s.Search(filter.Spec{Content: "qqqqzzzz"}, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !view.NoResultsVisible() || len(view.Visible()) != 0 {
		t.Error("expected the empty state")
	}
}

func TestSessionSearchRenderError(t *testing.T) {
	s, _ := newSession(t)
	boom := errors.New("boom")

	_, err := s.SearchRender(filter.Spec{}, nil, func(Display) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected render error, got %v", err)
	}
}

func TestSessionApplyLeavesDisplay(t *testing.T) {
	s, view := newSession(t)

	res, err := s.Apply(filter.Spec{Tags: []string{"rust"}}, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Matched != 2 {
		t.Errorf("expected 2 matches, got %d", res.Matched)
	}
	if got := view.Visible(); len(got) != 3 {
		t.Errorf("Apply must not reconcile, got %v", got)
	}
}

func TestHolder(t *testing.T) {
	var h Holder
	if _, err := h.Get(); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}

	s, _ := newSession(t)
	h.Set(s)
	got, err := h.Get()
	if err != nil || got != s {
		t.Errorf("expected the stored session, got %v, %v", got, err)
	}
}
