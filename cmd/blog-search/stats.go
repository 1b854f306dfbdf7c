package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/renderinc/blog-search/internal/search"
	"github.com/renderinc/blog-search/internal/storage"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show storage and index statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
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

			dbCount, err := db.Count()
			if err != nil {
				return fmt.Errorf("counting documents: %w", err)
			}
			_, total, err := db.List()
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}
			indexCount, err := idx.Count()
			if err != nil {
				return fmt.Errorf("counting index: %w", err)
			}

			fmt.Println("=== Index Statistics ===")
			fmt.Printf("Manifest entries:      %d\n", total)
			fmt.Printf("Documents in database: %d\n", dbCount)
			fmt.Printf("Documents in index:    %d\n", indexCount)
			return nil
		},
	}
}
