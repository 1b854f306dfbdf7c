package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/renderinc/blog-search/internal/config"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Manifest URL, e.g. https://example.com/blog/blogs.json",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.String("config")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file %s already exists", path)
			}

			cfg := config.Default()
			if m := c.String("manifest"); m != "" {
				cfg.ManifestURL = m
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Printf("Configuration written to %s\n", path)
			return nil
		},
	}
}
