package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/renderinc/blog-search/internal/config"
	"github.com/renderinc/blog-search/internal/filter"
	"github.com/renderinc/blog-search/internal/search"
)

func newSite(t *testing.T) string {
	t.Helper()
	pages := map[string]string{
		"/blog/a.html": "Caching in Go",
		"/blog/b.html": "Gardening",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/blog/blogs.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["/blog/a.html", "/blog/b.html", "/blog/missing.html"]`))
	})
	for path, title := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<html><body><h1 id="header-title">%s</h1><span id="date-updated">2024-01-02</span><main>notes on %s</main></body></html>`, title, title)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL + "/blog/blogs.json"
}

func writeConfig(t *testing.T, manifest string) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ManifestURL = manifest
	cfg.DataDir = filepath.Join(dir, "data")
	path := filepath.Join(dir, "blog-search.toml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return path, cfg
}

func TestBuildThenLoadStored(t *testing.T) {
	path, cfg := writeConfig(t, newSite(t))
	ctx := context.Background()

	if err := runBuild(ctx, path); err != nil {
		t.Fatalf("runBuild failed: %v", err)
	}

	c, stored, err := obtainCorpus(ctx, cfg, false)
	if err != nil {
		t.Fatalf("obtainCorpus failed: %v", err)
	}
	if !stored {
		t.Error("expected the stored corpus")
	}
	if len(c.Documents) != 2 || c.Total != 3 {
		t.Errorf("expected 2 of 3 documents, got %d of %d", len(c.Documents), c.Total)
	}

	idx, err := search.Open(cfg.IndexPath())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	res, err := filter.NewEngine(idx, cfg.Language()).Apply(c.Documents, filter.Spec{Content: "cachin"}, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Matched != 1 || res.Candidates[0].Doc.Title != "Caching in Go" {
		t.Errorf("unexpected result: %v", res.IDs())
	}
}

func TestObtainCorpusBuildsWithoutStore(t *testing.T) {
	_, cfg := writeConfig(t, newSite(t))

	c, stored, err := obtainCorpus(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("obtainCorpus failed: %v", err)
	}
	if stored {
		t.Error("nothing was stored yet")
	}
	if len(c.Documents) != 2 {
		t.Errorf("expected 2 documents, got %d", len(c.Documents))
	}
}

func TestRunSearch(t *testing.T) {
	path, _ := writeConfig(t, newSite(t))
	sortSpec, err := filter.ParseSortSpec([]string{"title:a-z"})
	if err != nil {
		t.Fatal(err)
	}
	if err := runSearch(context.Background(), path, true, filter.Spec{Title: "garden"}, sortSpec, 0); err != nil {
		t.Fatalf("runSearch failed: %v", err)
	}
}

func TestShowDocument(t *testing.T) {
	path, _ := writeConfig(t, newSite(t))
	if err := runBuild(context.Background(), path); err != nil {
		t.Fatalf("runBuild failed: %v", err)
	}

	doc, err := showDocument(path, 1)
	if err != nil {
		t.Fatalf("showDocument failed: %v", err)
	}
	if doc.Title != "Gardening" || !strings.Contains(doc.Content, "notes on Gardening") {
		t.Errorf("unexpected document: %+v", doc)
	}

	if _, err := showDocument(path, 2); err == nil {
		t.Error("expected an error for the failed entry")
	}
}
