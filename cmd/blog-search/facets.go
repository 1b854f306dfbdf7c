package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func facetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "facets",
		Usage: "List the tags, authors and languages of the stored posts",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "live",
				Usage: "Fetch the posts instead of reading the last build",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			corp, _, err := obtainCorpus(ctx, cfg, c.Bool("live"))
			if err != nil {
				return err
			}

			v := corp.Vocabulary
			fmt.Printf("Tags (%d):\n", len(v.Tags))
			for _, tag := range v.Tags {
				fmt.Printf("  %s\n", tag)
			}
			fmt.Printf("Authors (%d):\n", len(v.AuthorOrder))
			for _, name := range v.AuthorOrder {
				fmt.Printf("  %s %s\n", name, v.Authors[name])
			}
			fmt.Printf("Languages (%d):\n", len(v.LanguageOrder))
			for _, code := range v.LanguageOrder {
				meta := v.Languages[code]
				fmt.Printf("  %s %s %s\n", meta.Flag, code, meta.Name)
			}
			fmt.Printf("Dates: %d posted, %d updated\n", len(v.Dates.Posted), len(v.Dates.Updated))
			if len(v.Tags) == 0 && len(v.AuthorOrder) == 0 {
				fmt.Println("No posts found")
			}
			return nil
		},
	}
}
