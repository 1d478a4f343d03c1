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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/libris"
	"github.com/poiesic/libris/config"
	"github.com/poiesic/libris/conversation"
	"github.com/poiesic/libris/ingestion"
	"github.com/poiesic/libris/reembed"
	"github.com/poiesic/libris/search"
	"github.com/poiesic/libris/tracing"
	"github.com/urfave/cli/v2"
)

var errQueryRequired = errors.New("search query is required")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "libris",
		Usage: "Summarize PDF books with an LLM and search the summaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file loaded before reading the environment",
				Value: config.DefaultEnvFile,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Send a single prompt to the chat model and print the reply",
				ArgsUsage: "[prompt...]",
				Action:    askCommand,
			},
			{
				Name:   "summarize",
				Usage:  "Summarize every PDF in a directory and store the summaries",
				Action: summarizeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Directory of PDF files (default: $LIBRIS_DOCS_DIR or ./docs)",
					},
					&cli.StringFlag{
						Name:  "store",
						Usage: "Vector store backend (pinecone, local)",
					},
					&cli.StringFlag{
						Name:  "index",
						Usage: "Pinecone index name (default: $PINECONE_SUMMARY_INDEX)",
					},
					&cli.StringFlag{
						Name:  "source-prefix",
						Usage: "Prefix of each summary's source metadata",
						Value: ingestion.DefaultSourcePrefix,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Find the stored summaries closest to a query",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum similarity score (0 to 1)",
						Value: 0,
					},
					&cli.StringFlag{
						Name:  "store",
						Usage: "Vector store backend (pinecone, local)",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all summaries in a local database with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to BadgerDB database directory (default: $LIBRIS_LOCAL_DB)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of summaries to embed per request",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N summaries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per embedding request",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

// withEngine loads the configuration, lets adjust override it from flags,
// starts tracing and runs fn with an engine built from the result.
func withEngine(c *cli.Context, adjust func(*config.Config), fn func(context.Context, *libris.Engine) error) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if adjust != nil {
		adjust(cfg)
	}

	ctx := c.Context
	shutdown, err := tracing.Init(ctx, cfg.Tracing(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("failed to flush traces", "err", err)
		}
	}()

	engine, err := libris.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	defer engine.Close()

	return fn(ctx, engine)
}

func askCommand(c *cli.Context) error {
	prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if prompt == "" {
		prompt = conversation.DefaultPrompt
	}

	return withEngine(c, nil, func(ctx context.Context, engine *libris.Engine) error {
		reply, err := engine.Ask(ctx, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, reply)
		return nil
	})
}

func summarizeCommand(c *cli.Context) error {
	var dir string
	adjust := func(cfg *config.Config) {
		if c.IsSet("store") {
			cfg.Store = strings.ToLower(c.String("store"))
		}
		if c.IsSet("index") {
			cfg.PineconeIndex = c.String("index")
		}
		dir = cfg.DocsDir
		if c.IsSet("dir") {
			dir = c.String("dir")
		}
	}

	return withEngine(c, adjust, func(ctx context.Context, engine *libris.Engine) error {
		return engine.Summarize(ctx, dir,
			ingestion.WithOutput(c.App.Writer),
			ingestion.WithSourcePrefix(c.String("source-prefix")),
		)
	})
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errQueryRequired
	}

	adjust := func(cfg *config.Config) {
		if c.IsSet("store") {
			cfg.Store = strings.ToLower(c.String("store"))
		}
	}

	return withEngine(c, adjust, func(ctx context.Context, engine *libris.Engine) error {
		searcher, err := engine.NewSearcher(ctx, search.WithMinScore(float32(c.Float64("min-score"))))
		if err != nil {
			return err
		}

		hits, err := searcher.FindSimilar(ctx, query, c.Int("limit"))
		if err != nil {
			return err
		}
		for i, hit := range hits {
			fmt.Fprintf(c.App.Writer, "%d: %s [%.3f]\n", i+1, hit.Source, hit.Score)
		}
		return nil
	})
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	var dbPath, model string
	adjust := func(cfg *config.Config) {
		cfg.Store = config.StoreLocal
		if c.IsSet("db") {
			cfg.LocalDB = c.String("db")
		}
		dbPath = cfg.LocalDB
		model = cfg.EmbeddingModel
	}

	return withEngine(c, adjust, func(ctx context.Context, engine *libris.Engine) error {
		reembedder, err := engine.NewReembedder(reembedConfig, c.App.ErrWriter)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", dbPath)
		fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", model)
		fmt.Fprintln(c.App.ErrWriter)

		if _, err := reembedder.Run(ctx); err != nil {
			return fmt.Errorf("reembedding failed: %w", err)
		}
		return nil
	})
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

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
