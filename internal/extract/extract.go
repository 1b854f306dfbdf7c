// Package extract turns a rendered blog page into a blog.Document.
//
// The page markup contract is fixed by the site templates: fields are found
// by id or class, and anything missing falls back to the blog package
// defaults instead of failing the whole page.
package extract

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/renderinc/blog-search/internal/blog"
)

// Selectors of the blog page markup
const (
	selTitle       = "#header-title"
	selSubtitle    = ".text_subtitle"
	selBanner      = ".blog-banner img"
	selTags        = "#tag-container .tag"
	selAuthors     = "#author-container .author"
	selAuthorName  = ".author-name"
	selAuthorRole  = ".author-role"
	selDatePosted  = "#date-posted"
	selDateUpdated = "#date-updated"
	selLanguage    = "#language-container .language-active"
	selLangName    = ".language-name"
	selLangFlag    = ".language-flag"

	// Page chrome that would pollute content relevance
	selChrome = "script, style, nav, header, footer, #search-panel, #search-result"
)

const dateLayout = "2006-01-02"

// Extract parses an HTML page and returns its document record.
// The ID is left at zero; the corpus builder assigns it.
func Extract(r io.Reader, url string) (*blog.Document, error) {
	page, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &blog.Document{
		URL:      url,
		Title:    textOr(page.Find(selTitle).First(), blog.DefaultTitle),
		Subtitle: textOr(page.Find(selSubtitle).First(), ""),
		Banner:   page.Find(selBanner).First().AttrOr("src", ""),
		Tags:     []string{},
		Authors:  []blog.Author{},
	}

	page.Find(selTags).Each(func(_ int, s *goquery.Selection) {
		doc.Tags = append(doc.Tags, collapseSpace(s.Text()))
	})

	page.Find(selAuthors).Each(func(_ int, s *goquery.Selection) {
		doc.Authors = append(doc.Authors, blog.Author{
			Name:  textOr(s.Find(selAuthorName).First(), blog.DefaultAuthorName),
			Image: s.Find("img").First().AttrOr("src", ""),
			Role:  textOr(s.Find(selAuthorRole).First(), ""),
		})
	})

	doc.PostedStr = collapseSpace(page.Find(selDatePosted).First().Text())
	doc.UpdatedStr = collapseSpace(page.Find(selDateUpdated).First().Text())
	doc.DatePosted = ParseDate(doc.PostedStr)
	doc.DateUpdated = ParseDate(doc.UpdatedStr)

	lang := page.Find(selLanguage).First()
	doc.Language = blog.Language{
		Code: lang.AttrOr("data-language-code", ""),
		Name: textOr(lang.Find(selLangName).First(), blog.DefaultLanguageName),
		Flag: textOr(lang.Find(selLangFlag).First(), blog.DefaultLanguageFlag),
	}
	if doc.Language.Code == "" {
		doc.Language.Code = blog.DefaultLanguageCode
	}

	// Metadata is read above; stripping chrome may remove the header holding it
	doc.Content = Content(page)

	return doc, nil
}

// Content returns the body text without page chrome, whitespace collapsed
func Content(page *goquery.Document) string {
	body := page.Find("body").First().Clone()
	body.Find(selChrome).Remove()
	return collapseSpace(body.Text())
}

// ParseDate parses a YYYY-MM-DD string into a local calendar date.
// Any other input yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if len(s) != len(dateLayout) {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

func textOr(s *goquery.Selection, fallback string) string {
	if s.Length() == 0 {
		return fallback
	}
	if text := collapseSpace(s.Text()); text != "" {
		return text
	}
	return fallback
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
