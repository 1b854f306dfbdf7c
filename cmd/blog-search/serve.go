package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/renderinc/blog-search/internal/config"
	"github.com/renderinc/blog-search/internal/corpus"
	"github.com/renderinc/blog-search/internal/filter"
	"github.com/renderinc/blog-search/internal/logging"
	"github.com/renderinc/blog-search/internal/session"
	"github.com/renderinc/blog-search/internal/web"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on, overrides the config",
			},
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
			if l := c.String("listen"); l != "" {
				cfg.Listen = l
			}
			return runServe(ctx, cfg, c.Bool("live"))
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, live bool) error {
	logger := logging.For("serve")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}

	var holder session.Holder
	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: web.NewServer(&holder).Handler(),
	}

	// Searches answer 503 until the corpus is ready
	go func() {
		corp, _, err := obtainCorpus(ctx, cfg, live)
		if errors.Is(err, corpus.ErrManifest) {
			logger.Error("Serving an empty corpus", "err", err)
		} else if err != nil {
			logger.Error("Could not load corpus", "err", err)
			stop()
			return
		}

		idx, err := memIndex(corp)
		if err != nil {
			logger.Error("Could not index corpus", "err", err)
			stop()
			return
		}

		ordered := filter.DefaultOrder(corp.Documents)
		view, err := web.RenderPage(tmpl, corp, ordered)
		if err != nil {
			logger.Error("Could not render page", "err", err)
			stop()
			return
		}

		holder.Set(session.New(corp, filter.NewEngine(idx, cfg.Language()), view))
		logger.Info("Search ready", "documents", len(corp.Documents), "manifest_entries", corp.Total)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	fmt.Println()
	fmt.Println("=== Blog Search Web Server ===")
	fmt.Printf("Server running at: http://%s\n", cfg.Listen)
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
