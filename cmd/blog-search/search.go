package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/extract"
	"github.com/renderinc/blog-search/internal/filter"
	"github.com/renderinc/blog-search/internal/reconcile"
	"github.com/renderinc/blog-search/internal/search"
	"github.com/renderinc/blog-search/internal/session"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Filter and sort posts",
		ArgsUsage: "[content query]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Title contains"},
			&cli.StringFlag{Name: "subtitle", Usage: "Subtitle contains"},
			&cli.StringSliceFlag{Name: "tag", Usage: "Keep posts with any of these tags"},
			&cli.StringSliceFlag{Name: "author", Usage: "Keep posts by any of these authors"},
			&cli.StringSliceFlag{Name: "language", Usage: "Keep posts in any of these language codes"},
			&cli.StringFlag{Name: "posted-start", Usage: "Posted on or after YYYY-MM-DD"},
			&cli.StringFlag{Name: "posted-end", Usage: "Posted on or before YYYY-MM-DD"},
			&cli.StringFlag{Name: "updated-start", Usage: "Updated on or after YYYY-MM-DD"},
			&cli.StringFlag{Name: "updated-end", Usage: "Updated on or before YYYY-MM-DD"},
			&cli.StringSliceFlag{Name: "sort", Usage: "Sort criteria by priority, e.g. --sort title:a-z --sort date-updated:n-o"},
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of results, 0 for all", Value: 10},
			&cli.BoolFlag{Name: "live", Usage: "Fetch the posts instead of reading the last build"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			spec := filter.Spec{
				Title:        c.String("title"),
				Subtitle:     c.String("subtitle"),
				Content:      strings.Join(c.Args().Slice(), " "),
				Tags:         c.StringSlice("tag"),
				Authors:      c.StringSlice("author"),
				Languages:    c.StringSlice("language"),
				PostedStart:  extract.ParseDate(c.String("posted-start")),
				PostedEnd:    extract.ParseDate(c.String("posted-end")),
				UpdatedStart: extract.ParseDate(c.String("updated-start")),
				UpdatedEnd:   extract.ParseDate(c.String("updated-end")),
			}
			sortSpec, err := filter.ParseSortSpec(c.StringSlice("sort"))
			if err != nil {
				return err
			}
			return runSearch(ctx, c.String("config"), c.Bool("live"), spec, sortSpec, c.Int("limit"))
		},
	}
}

func runSearch(ctx context.Context, configPath string, live bool, spec filter.Spec, sortSpec filter.SortSpec, limit int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	corp, stored, err := obtainCorpus(ctx, cfg, live)
	if err != nil {
		return err
	}

	var idx *search.Index
	if !stored {
		idx, err = memIndex(corp)
	} else {
		idx, err = search.Open(cfg.IndexPath())
	}
	if err != nil {
		return err
	}
	defer idx.Close()

	ordered := filter.DefaultOrder(corp.Documents)
	ids := make([]int, len(ordered))
	for i, doc := range ordered {
		ids[i] = doc.ID
	}
	view := reconcile.NewListView(ids)

	sess := session.New(corp, filter.NewEngine(idx, cfg.Language()), view)
	res, err := sess.Search(spec, sortSpec)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if view.NoResultsVisible() {
		fmt.Println("No results found")
		return nil
	}

	byID := make(map[int]*blog.Document, len(res.Candidates))
	scores := make(map[int]float64, len(res.Candidates))
	for _, cand := range res.Candidates {
		byID[cand.Doc.ID] = cand.Doc
		scores[cand.Doc.ID] = cand.Score
	}

	matched, total := view.Counters()
	fmt.Printf("\nFound %d of %d posts:\n\n", matched, total)

	for i, id := range view.Visible() {
		if limit > 0 && i >= limit {
			break
		}
		doc := byID[id]
		fmt.Printf("%d. %s\n", i+1, doc.Title)
		if doc.Subtitle != "" {
			fmt.Printf("   %s\n", doc.Subtitle)
		}
		if names := doc.AuthorNames(); len(names) > 0 {
			fmt.Printf("   Authors: %s\n", strings.Join(names, ", "))
		}
		if len(doc.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(doc.Tags, ", "))
		}
		fmt.Printf("   Language: %s %s\n", doc.Language.Flag, doc.Language.Name)
		fmt.Printf("   Posted: %s  Updated: %s\n", doc.PostedStr, doc.UpdatedStr)
		fmt.Printf("   URL: %s\n", doc.URL)
		if res.Scored {
			fmt.Printf("   Score: %.3f\n", scores[id])
		}
		fmt.Println()
	}
	return nil
}
