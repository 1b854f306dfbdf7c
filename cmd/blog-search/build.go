package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/renderinc/blog-search/internal/search"
	"github.com/renderinc/blog-search/internal/storage"
)

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Fetch every post in the manifest and store it",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runBuild(ctx, c.String("config"))
		},
	}
}

func runBuild(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	corp, stats, err := buildCorpus(ctx, cfg)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	idx, err := search.Open(cfg.IndexPath())
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}
	defer idx.Close()

	stored, err := db.Replace(corp.Documents, corp.Total)
	if err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}
	if err := idx.Load(corp.Documents); err != nil {
		return fmt.Errorf("indexing documents: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Build Complete ===")
	fmt.Printf("Manifest entries: %d\n", stats.Entries)
	fmt.Printf("Documents:        %d\n", stats.Documents)
	fmt.Printf("Failed:           %d\n", stats.Failed)
	fmt.Printf("Duplicates:       %d\n", stats.Duplicates)
	fmt.Printf("Stored:           %d\n", stored.Stored)
	fmt.Printf("Changed:          %d\n", stored.Changed)
	fmt.Printf("Unchanged:        %d\n", stored.Unchanged)
	fmt.Printf("Duration:         %v\n", stats.Duration)
	return nil
}
