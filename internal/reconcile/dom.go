package reconcile

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// Markup of the rendered result page
const (
	ContainerID   = "search-result_container"
	ItemClass     = "search-result_item"
	NoResultsID   = "no-results-msg"
	MatchedID     = "counter_matched-blog"
	TotalID       = "counter_total-blog"
	HiddenClass   = "hidden"
	dataIDAttr    = "data-id"
	containerSel  = "#" + ContainerID
	noResultsSel  = "#" + NoResultsID
	matchedSel    = "#" + MatchedID
	totalSel      = "#" + TotalID
	itemSelFormat = `.` + ItemClass + `[` + dataIDAttr + `="%d"]`
)

// ErrNoContainer is returned when the page has no result container
var ErrNoContainer = errors.New("result container not found")

// DOMView reconciles the result list of a parsed HTML page
type DOMView struct {
	doc       *goquery.Document
	container *goquery.Selection
}

// NewDOMView wraps a page holding the result container
func NewDOMView(doc *goquery.Document) (*DOMView, error) {
	container := doc.Find(containerSel).First()
	if container.Length() == 0 {
		return nil, ErrNoContainer
	}
	return &DOMView{doc: doc, container: container}, nil
}

func (v *DOMView) item(id int) *goquery.Selection {
	return v.container.Find(fmt.Sprintf(itemSelFormat, id)).First()
}

func (v *DOMView) Show(id int) bool {
	el := v.item(id)
	el.RemoveClass(HiddenClass)
	return el.Length() > 0
}

func (v *DOMView) Hide(id int) bool {
	el := v.item(id)
	el.AddClass(HiddenClass)
	return el.Length() > 0
}

// MoveToEnd re-appends the existing node; goquery moves it rather than
// cloning because the container is a single element.
func (v *DOMView) MoveToEnd(id int) bool {
	el := v.item(id)
	if el.Length() == 0 {
		return false
	}
	v.container.AppendSelection(el)
	return true
}

func (v *DOMView) ShowNoResults() {
	v.doc.Find(noResultsSel).RemoveClass(HiddenClass)
}

func (v *DOMView) HideNoResults() {
	msg := v.doc.Find(noResultsSel).First()
	if msg.Length() == 0 {
		return
	}
	v.container.AppendSelection(msg)
	msg.AddClass(HiddenClass)
}

// SetCounters writes the matched and total counts
func (v *DOMView) SetCounters(matched, total int) {
	v.doc.Find(matchedSel).SetText(strconv.Itoa(matched))
	v.doc.Find(totalSel).SetText(strconv.Itoa(total))
}

// Visible returns the ids of visible result elements in document order
func (v *DOMView) Visible() []int {
	var ids []int
	v.container.Find("." + ItemClass).Each(func(_ int, s *goquery.Selection) {
		if s.HasClass(HiddenClass) {
			return
		}
		if id, err := strconv.Atoi(s.AttrOr(dataIDAttr, "")); err == nil {
			ids = append(ids, id)
		}
	})
	return ids
}

// Document exposes the page, e.g. to fill form inputs before rendering
func (v *DOMView) Document() *goquery.Document {
	return v.doc
}

// HTML renders the whole page
func (v *DOMView) HTML() (string, error) {
	return v.doc.Html()
}
