package main

import (
	"context"
	"fmt"
	"os"

	"github.com/renderinc/blog-search/internal/config"
	"github.com/renderinc/blog-search/internal/corpus"
	"github.com/renderinc/blog-search/internal/fetch"
	"github.com/renderinc/blog-search/internal/search"
	"github.com/renderinc/blog-search/internal/storage"
)

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildCorpus fetches the manifest and every page it lists
func buildCorpus(ctx context.Context, cfg *config.Config) (*corpus.Corpus, *corpus.Stats, error) {
	client := fetch.NewClient(fetch.Options{
		Timeout:   cfg.FetchTimeout.Duration,
		Rate:      cfg.FetchRate,
		UserAgent: cfg.UserAgent,
	})
	return corpus.NewBuilder(client, cfg.FetchConcurrency).Build(ctx, cfg.ManifestURL)
}

// storedCorpus reads the corpus saved by the last build
func storedCorpus(cfg *config.Config) (*corpus.Corpus, error) {
	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	docs, total, err := db.List()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return corpus.FromDocuments(docs, total), nil
}

// obtainCorpus builds live when asked to or when nothing was stored yet.
// stored reports whether the corpus came from the last build.
func obtainCorpus(ctx context.Context, cfg *config.Config, live bool) (c *corpus.Corpus, stored bool, err error) {
	if !live {
		if _, statErr := os.Stat(cfg.DBPath()); statErr == nil {
			c, err = storedCorpus(cfg)
			return c, true, err
		}
	}
	c, _, err = buildCorpus(ctx, cfg)
	return c, false, err
}

// memIndex indexes c in memory
func memIndex(c *corpus.Corpus) (*search.Index, error) {
	idx, err := search.NewMemOnly()
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	if err := idx.Load(c.Documents); err != nil {
		idx.Close()
		return nil, fmt.Errorf("indexing documents: %w", err)
	}
	return idx, nil
}
