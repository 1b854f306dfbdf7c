package web

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"

	"github.com/PuerkitoBio/goquery"

	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/corpus"
	"github.com/renderinc/blog-search/internal/filter"
	"github.com/renderinc/blog-search/internal/reconcile"
)

type modeOption struct {
	Value filter.Mode
	Label string
}

var (
	textModes = []modeOption{{filter.ModeNone, "None"}, {filter.ModeAToZ, "A to Z"}, {filter.ModeZToA, "Z to A"}}
	dateModes = []modeOption{{filter.ModeNone, "None"}, {filter.ModeNewest, "Newest to oldest"}, {filter.ModeOldest, "Oldest to newest"}}
)

type panel struct {
	Key      filter.Key
	Label    string
	Position int
	Modes    []modeOption
}

var panelLabels = map[filter.Key]string{
	filter.KeyTitle:       "Title",
	filter.KeySubtitle:    "Subtitle",
	filter.KeyContent:     "Content",
	filter.KeyTag:         "Tag",
	filter.KeyAuthor:      "Author",
	filter.KeyLanguage:    "Language",
	filter.KeyDatePosted:  "Date posted",
	filter.KeyDateUpdated: "Date updated",
}

type authorFacet struct {
	Name  string `json:"name"`
	Image string `json:"img"`
}

type languageFacet struct {
	Code string `json:"code"`
	blog.LanguageMeta
}

type pageData struct {
	Panels    []panel
	Tags      []string
	Authors   []authorFacet
	Languages []languageFacet
	Docs      []blog.Document
	Total     int
}

func panels() []panel {
	out := make([]panel, 0, len(filter.Keys))
	for i, key := range filter.Keys {
		modes := textModes
		if key == filter.KeyDatePosted || key == filter.KeyDateUpdated {
			modes = dateModes
		}
		out = append(out, panel{Key: key, Label: panelLabels[key], Position: i + 1, Modes: modes})
	}
	return out
}

// RenderPage renders the initial result page: facet checklists from the
// vocabulary and one result element per document, in the given order.
func RenderPage(tmpl *template.Template, c *corpus.Corpus, ordered []blog.Document) (*reconcile.DOMView, error) {
	data := pageData{
		Panels: panels(),
		Tags:   c.Vocabulary.Tags,
		Docs:   ordered,
		Total:  len(ordered),
	}
	for _, name := range c.Vocabulary.AuthorOrder {
		data.Authors = append(data.Authors, authorFacet{Name: name, Image: c.Vocabulary.Authors[name]})
	}
	for _, code := range c.Vocabulary.LanguageOrder {
		data.Languages = append(data.Languages, languageFacet{Code: code, LanguageMeta: c.Vocabulary.Languages[code]})
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "page.html", data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return reconcile.NewDOMView(doc)
}

// fillForm reflects the current search in the form controls
func fillForm(doc *goquery.Document, q query) {
	setValue := func(sel, value string) {
		if value == "" {
			doc.Find(sel).RemoveAttr("value")
		} else {
			doc.Find(sel).SetAttr("value", value)
		}
	}
	setValue(`input[name="title"]`, q.spec.Title)
	setValue(`input[name="subtitle"]`, q.spec.Subtitle)
	setValue(`input[name="content"]`, q.spec.Content)
	setValue(`input[name="posted_start"]`, q.raw.Get("posted_start"))
	setValue(`input[name="posted_end"]`, q.raw.Get("posted_end"))
	setValue(`input[name="updated_start"]`, q.raw.Get("updated_start"))
	setValue(`input[name="updated_end"]`, q.raw.Get("updated_end"))

	check := func(name string, selected []string) {
		doc.Find(`input[name="` + name + `"]`).Each(func(_ int, s *goquery.Selection) {
			if slices.Contains(selected, s.AttrOr("value", "")) {
				s.SetAttr("checked", "checked")
			} else {
				s.RemoveAttr("checked")
			}
		})
	}
	check("tag", q.spec.Tags)
	check("author", q.spec.Authors)
	check("language", q.spec.Languages)

	doc.Find(`select[name="sort"] option`).Each(func(_ int, s *goquery.Selection) {
		c, err := filter.ParseCriterion(s.AttrOr("value", ""))
		if err == nil && slices.Contains(q.sort, c) {
			s.SetAttr("selected", "selected")
		} else {
			s.RemoveAttr("selected")
		}
	})
}
