// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/pokesearch"
	"github.com/poiesic/pokesearch/api"
	"github.com/poiesic/pokesearch/core"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	cacheFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "cache-dir",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB cache directory",
		},
		&cli.BoolFlag{
			Name:  "in-memory",
			Usage: "Keep the cache in memory only",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "PokeAPI base URL",
		},
	}

	return &cli.App{
		Name:  "pokesearch",
		Usage: "Fuzzy multi-field Pokémon search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the search API over HTTP",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address to listen on",
					},
					&cli.DurationFlag{
						Name:  "shutdown-timeout",
						Usage: "Time allowed for in-flight requests on shutdown",
						Value: 10 * time.Second,
					},
				}, cacheFlags...),
			},
			{
				Name:   "search",
				Usage:  "Run one search and print the result page as JSON",
				Action: searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"nome"},
						Usage:   "Pokémon name",
					},
					&cli.StringFlag{
						Name:  "habitat",
						Usage: "Habitat, English or Portuguese",
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"tipo"},
						Usage:   "Type, English or Portuguese",
					},
					&cli.BoolFlag{
						Name:  "and",
						Usage: "Require every criterion to match",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Page size (0 uses the configured default)",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Fuzzy match threshold in [0,1]",
					},
				}, cacheFlags...),
			},
			{
				Name:   "fetch",
				Usage:  "Warm the cache with the upstream catalog",
				Action: fetchCommand,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Drop cached upstream data first",
					},
				}, cacheFlags...),
			},
		},
	}
}

// loadConfig reads the config file, if any, and applies command line overrides.
func loadConfig(c *cli.Context) (*pokesearch.Config, error) {
	cfg := pokesearch.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = pokesearch.LoadConfigFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if c.IsSet("listen") {
		cfg.Listen = c.String("listen")
	}
	if c.IsSet("cache-dir") {
		cfg.Cache.Dir = c.String("cache-dir")
	}
	if c.IsSet("in-memory") {
		cfg.Cache.InMemory = c.Bool("in-memory")
	}
	if c.IsSet("base-url") {
		cfg.Fetch.BaseURL = c.String("base-url")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openService(c *cli.Context, opts ...pokesearch.ServiceOption) (*pokesearch.Service, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	svc, err := pokesearch.NewService(cfg, append(opts, pokesearch.WithLogger(slog.Default()))...)
	if err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

func serveCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	handler, err := api.NewHandler(svc, api.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              svc.Config().Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	// Warm the catalog in the background so the first request is fast.
	go func() {
		if err := svc.Load(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("catalog warmup failed, will retry on first search", "err", err)
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Duration("shutdown-timeout"))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func searchCommand(c *cli.Context) error {
	q := queryFromFlags(c)
	if len(core.ActiveCriteria(q.Criteria)) == 0 {
		return errors.New("at least one of --name, --habitat or --type is required")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	page, err := svc.Search(c.Context, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

func queryFromFlags(c *cli.Context) pokesearch.Query {
	q := pokesearch.Query{
		Page:     c.Int("page"),
		PageSize: c.Int("limit"),
	}
	for _, field := range core.DefaultFields {
		if term := strings.TrimSpace(c.String(string(field))); term != "" {
			q.Criteria = append(q.Criteria, core.Criterion{Field: field, Term: term})
		}
	}
	if c.Bool("and") {
		q.Mode = core.ModeAND
	}
	if c.IsSet("threshold") {
		threshold := c.Float64("threshold")
		q.Threshold = &threshold
	}
	return q
}

func fetchCommand(c *cli.Context) error {
	svc, err := openService(c, pokesearch.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer svc.Close()

	start := time.Now()
	if c.Bool("refresh") {
		err = svc.Refresh(c.Context)
	} else {
		err = svc.Load(c.Context)
	}
	if err != nil {
		return err
	}

	engine, err := svc.Engine(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Cached %d pokémon in %v\n", engine.Size(), time.Since(start).Round(time.Millisecond))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
