package reconcile

import "slices"

// noResultsID marks the empty-result message in a ListView
const noResultsID = -1

type listItem struct {
	id     int
	hidden bool
}

// ListView is an in-memory result list, used by the CLI and in tests
type ListView struct {
	items   []listItem
	matched int
	total   int
}

// NewListView creates a list with one visible element per id and a hidden
// empty-result message at the end
func NewListView(ids []int) *ListView {
	v := &ListView{items: make([]listItem, 0, len(ids)+1)}
	for _, id := range ids {
		v.items = append(v.items, listItem{id: id})
	}
	v.items = append(v.items, listItem{id: noResultsID, hidden: true})
	return v
}

func (v *ListView) find(id int) int {
	return slices.IndexFunc(v.items, func(it listItem) bool { return it.id == id })
}

func (v *ListView) setHidden(id int, hidden bool) bool {
	i := v.find(id)
	if i < 0 {
		return false
	}
	v.items[i].hidden = hidden
	return true
}

func (v *ListView) Show(id int) bool { return v.setHidden(id, false) }
func (v *ListView) Hide(id int) bool { return v.setHidden(id, true) }

func (v *ListView) MoveToEnd(id int) bool {
	i := v.find(id)
	if i < 0 {
		return false
	}
	it := v.items[i]
	v.items = append(slices.Delete(v.items, i, i+1), it)
	return true
}

func (v *ListView) ShowNoResults() { v.setHidden(noResultsID, false) }

func (v *ListView) HideNoResults() {
	v.MoveToEnd(noResultsID)
	v.setHidden(noResultsID, true)
}

// Visible returns the ids of visible elements in display order
func (v *ListView) Visible() []int {
	var ids []int
	for _, it := range v.items {
		if !it.hidden && it.id != noResultsID {
			ids = append(ids, it.id)
		}
	}
	return ids
}

// Len counts elements, including hidden ones and the empty-result message
func (v *ListView) Len() int { return len(v.items) }

// NoResultsVisible reports whether the empty-result message shows
func (v *ListView) NoResultsVisible() bool {
	i := v.find(noResultsID)
	return i >= 0 && !v.items[i].hidden
}

func (v *ListView) SetCounters(matched, total int) {
	v.matched, v.total = matched, total
}

// Counters returns the last matched and total counts
func (v *ListView) Counters() (matched, total int) {
	return v.matched, v.total
}
