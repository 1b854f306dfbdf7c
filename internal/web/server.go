package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/renderinc/blog-search/internal/extract"
	"github.com/renderinc/blog-search/internal/filter"
	"github.com/renderinc/blog-search/internal/logging"
	"github.com/renderinc/blog-search/internal/reconcile"
	"github.com/renderinc/blog-search/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	return tmpl, nil
}

type Server struct {
	sessions *session.Holder
	logger   *log.Logger
}

type SearchResult struct {
	ID    int     `json:"id"`
	URL   string  `json:"url"`
	Title string  `json:"title"`
	Score float64 `json:"score,omitempty"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Matched int            `json:"matched"`
	Total   int            `json:"total"`
	Error   string         `json:"error,omitempty"`
}

// FacetsResponse lists facet values in first-seen order
type FacetsResponse struct {
	Tags      []string        `json:"tags"`
	Authors   []authorFacet   `json:"authors"`
	Languages []languageFacet `json:"languages"`
}

// NewServer serves the session published in sessions. Requests arriving
// before the build completes get 503.
func NewServer(sessions *session.Holder) *Server {
	return &Server{
		sessions: sessions,
		logger:   logging.For("web"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/static/", http.FileServer(http.FS(staticFS)))

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/facets", s.handleFacets)
	mux.HandleFunc("/health", s.handleHealth)

	return mux
}

// query is one search decoded from URL parameters
type query struct {
	raw  url.Values
	spec filter.Spec
	sort filter.SortSpec
}

func parseQuery(values url.Values) (query, error) {
	q := query{
		raw: values,
		spec: filter.Spec{
			Title:        strings.TrimSpace(values.Get("title")),
			Subtitle:     strings.TrimSpace(values.Get("subtitle")),
			Content:      strings.TrimSpace(values.Get("content")),
			Tags:         values["tag"],
			Authors:      values["author"],
			Languages:    values["language"],
			PostedStart:  extract.ParseDate(values.Get("posted_start")),
			PostedEnd:    extract.ParseDate(values.Get("posted_end")),
			UpdatedStart: extract.ParseDate(values.Get("updated_start")),
			UpdatedEnd:   extract.ParseDate(values.Get("updated_end")),
		},
	}

	sortSpec, err := filter.ParseSortSpec(values["sort"])
	if err != nil {
		return q, err
	}
	q.sort = sortSpec
	return q, nil
}

func (s *Server) session(w http.ResponseWriter) *session.Session {
	sess, err := s.sessions.Get()
	if errors.Is(err, session.ErrNotReady) {
		http.Error(w, "Search index is still loading", http.StatusServiceUnavailable)
		return nil
	}
	return sess
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess := s.session(w)
	if sess == nil {
		return
	}

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var page string
	_, err = sess.SearchRender(q.spec, q.sort, func(d session.Display) error {
		view, ok := d.(*reconcile.DOMView)
		if !ok {
			return fmt.Errorf("display is not a page")
		}
		fillForm(view.Document(), q)
		html, renderErr := view.HTML()
		page = html
		return renderErr
	})
	if err != nil {
		s.logger.Error("Error rendering page", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w)
	if sess == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{}, Error: err.Error()})
		return
	}

	res, err := sess.Apply(q.spec, q.sort)
	if err != nil {
		s.logger.Error("Search failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{}, Error: "search failed"})
		return
	}

	resp := SearchResponse{
		Results: make([]SearchResult, 0, len(res.Candidates)),
		Matched: res.Matched,
		Total:   res.Total,
	}
	for _, c := range res.Candidates {
		resp.Results = append(resp.Results, SearchResult{
			ID:    c.Doc.ID,
			URL:   c.Doc.URL,
			Title: c.Doc.Title,
			Score: c.Score,
		})
	}
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w)
	if sess == nil {
		return
	}

	v := sess.Corpus().Vocabulary
	resp := FacetsResponse{
		Tags:      v.Tags,
		Authors:   []authorFacet{},
		Languages: []languageFacet{},
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, name := range v.AuthorOrder {
		resp.Authors = append(resp.Authors, authorFacet{Name: name, Image: v.Authors[name]})
	}
	for _, code := range v.LanguageOrder {
		resp.Languages = append(resp.Languages, languageFacet{Code: code, LanguageMeta: v.Languages[code]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "loading"}
	if sess, err := s.sessions.Get(); err == nil {
		status["status"] = "ok"
		status["documents"] = len(sess.Documents())
		status["manifest_entries"] = sess.Corpus().Total
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
