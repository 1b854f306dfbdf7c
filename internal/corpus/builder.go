package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/extract"
	"github.com/renderinc/blog-search/internal/logging"
)

// ErrManifest is returned when the manifest cannot be fetched or decoded
var ErrManifest = errors.New("load manifest")

// Source fetches the manifest and its pages
type Source interface {
	Manifest(ctx context.Context, manifestURL string) ([]string, error)
	Page(ctx context.Context, pageURL string) (io.ReadCloser, error)
}

// Corpus is the document collection of one build together with its facets
type Corpus struct {
	Documents  []blog.Document
	Vocabulary *blog.Vocabulary
	Total      int // Manifest length, including failed entries
}

// FromDocuments wraps an existing collection, rebuilding its vocabulary
func FromDocuments(docs []blog.Document, total int) *Corpus {
	return &Corpus{
		Documents:  docs,
		Vocabulary: blog.NewVocabulary(docs),
		Total:      total,
	}
}

// Stats holds build statistics
type Stats struct {
	Entries    int
	Documents  int
	Failed     int
	Duplicates int // Repeated manifest URLs, skipped
	Duration   time.Duration
}

// Builder builds a corpus from a manifest
type Builder struct {
	source      Source
	concurrency int // 0 = one goroutine per entry
	logger      *log.Logger
}

// NewBuilder creates a new corpus builder
func NewBuilder(source Source, concurrency int) *Builder {
	return &Builder{
		source:      source,
		concurrency: concurrency,
		logger:      logging.For("corpus"),
	}
}

// Build fetches every manifest entry concurrently and waits for all of them.
// A failing entry is logged and skipped; the survivors keep their manifest
// position as ID. A URL listed again is kept at its first position only.
func (b *Builder) Build(ctx context.Context, manifestURL string) (*Corpus, *Stats, error) {
	startTime := time.Now()
	stats := &Stats{}

	b.logger.Info("Fetching manifest", "url", manifestURL)
	locations, err := b.source.Manifest(ctx, manifestURL)
	if err != nil {
		b.logger.Error("Could not load manifest", "url", manifestURL, "err", err)
		return FromDocuments(nil, 0), stats, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	stats.Entries = len(locations)

	// One slot per entry, so goroutines never share a write target
	results := make([]*blog.Document, len(locations))

	var g errgroup.Group
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}

	seen := make(map[string]int, len(locations))
	duplicate := make([]bool, len(locations))
	for i, loc := range locations {
		if first, ok := seen[loc]; ok {
			b.logger.Warn("Skipping duplicate manifest entry", "url", loc, "first", first, "position", i)
			duplicate[i] = true
			continue
		}
		seen[loc] = i

		g.Go(func() error {
			doc, err := b.fetchDocument(ctx, loc)
			if err != nil {
				b.logger.Warn("Failed to load page", "url", loc, "err", err)
				return nil
			}
			doc.ID = i
			results[i] = doc
			b.logger.Debug("Loaded page", "id", i, "title", doc.Title)
			return nil
		})
	}
	_ = g.Wait() // Entries never return errors; failures are counted below

	docs := make([]blog.Document, 0, len(results))
	for i, doc := range results {
		if duplicate[i] {
			stats.Duplicates++
			continue
		}
		if doc == nil {
			stats.Failed++
			continue
		}
		docs = append(docs, *doc)
	}

	stats.Documents = len(docs)
	stats.Duration = time.Since(startTime)
	b.logger.Info("Corpus built", "documents", stats.Documents, "failed", stats.Failed, "duplicates", stats.Duplicates, "duration", stats.Duration)

	return FromDocuments(docs, len(locations)), stats, nil
}

func (b *Builder) fetchDocument(ctx context.Context, loc string) (*blog.Document, error) {
	body, err := b.source.Page(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer body.Close()

	doc, err := extract.Extract(body, loc)
	if err != nil {
		return nil, fmt.Errorf("extract page: %w", err)
	}
	return doc, nil
}
