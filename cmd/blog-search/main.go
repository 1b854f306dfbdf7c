package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/renderinc/blog-search/internal/logging"
)

const defaultConfigPath = "./blog-search.toml"

func main() {
	app := &cli.Command{
		Name:  "blog-search",
		Usage: "Search and filter the posts of a static blog",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: defaultConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logging.SetDebug(c.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			initCommand(),
			buildCommand(),
			searchCommand(),
			facetsCommand(),
			showCommand(),
			serveCommand(),
			statsCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logging.For("main").Fatal(err)
	}
}
