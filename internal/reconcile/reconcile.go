// Package reconcile applies a search result to an already rendered result
// list. Elements are only moved and hidden, never recreated.
package reconcile

import (
	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/filter"
)

// View is the display layer of the result list.
// Each document has exactly one element addressable by its id.
type View interface {
	Show(id int) bool
	Hide(id int) bool
	MoveToEnd(id int) bool
	// ShowNoResults reveals the empty-result message in place
	ShowNoResults()
	// HideNoResults moves the empty-result message to the end and hides it
	HideNoResults()
}

// Reconcile reveals candidates in order at the end of the list and hides
// every other document. Running it twice with the same input leaves the
// view unchanged.
func Reconcile(v View, docs []blog.Document, candidates []filter.Candidate) {
	matched := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		matched[c.Doc.ID] = struct{}{}
		v.Show(c.Doc.ID)
		v.MoveToEnd(c.Doc.ID)
	}

	for i := range docs {
		if _, ok := matched[docs[i].ID]; !ok {
			v.Hide(docs[i].ID)
		}
	}

	if len(candidates) == 0 {
		v.ShowNoResults()
	} else {
		v.HideNoResults()
	}
}
