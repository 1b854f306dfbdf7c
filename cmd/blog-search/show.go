package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/renderinc/blog-search/internal/blog"
	"github.com/renderinc/blog-search/internal/storage"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a stored post by id",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("post id required")
			}
			id, err := strconv.Atoi(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid post id %q: %w", c.Args().First(), err)
			}
			doc, err := showDocument(c.String("config"), id)
			if err != nil {
				return err
			}
			printDocument(doc)
			return nil
		},
	}
}

// showDocument reads one post from the last build
func showDocument(configPath string, id int) (*blog.Document, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	doc, err := db.Get(id)
	if err != nil {
		return nil, fmt.Errorf("retrieving post: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("post not found: %d", id)
	}
	return doc, nil
}

func printDocument(doc *blog.Document) {
	fmt.Printf("%s\n", doc.Title)
	if doc.Subtitle != "" {
		fmt.Printf("%s\n", doc.Subtitle)
	}
	fmt.Printf("URL: %s\n", doc.URL)
	if names := doc.AuthorNames(); len(names) > 0 {
		fmt.Printf("Authors: %s\n", strings.Join(names, ", "))
	}
	if len(doc.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	fmt.Printf("Language: %s %s\n", doc.Language.Flag, doc.Language.Name)
	fmt.Printf("Posted: %s  Updated: %s\n", doc.PostedStr, doc.UpdatedStr)
	fmt.Println()
	fmt.Println(doc.Content)
}
