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
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/scholarseek"
	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "scholarseek",
		Usage: "Researcher search backend for the scholarseek dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a dotenv file loaded before flag parsing",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address for the HTTP API",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML configuration file",
					},
				}, storageFlags()...), aiFlags()...),
			},
			{
				Name:      "seed",
				Usage:     "Load a researcher corpus file into the warehouse",
				ArgsUsage: "<corpus.jsonl>",
				Action:    seedCommand,
				Flags: append(append([]cli.Flag{
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to embed and insert per batch",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, storageFlags()...), aiFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "warehouse",
			Aliases: []string{"w"},
			Usage:   "Path to the SQLite researcher warehouse",
			EnvVars: []string{"SCHOLARSEEK_WAREHOUSE"},
		},
		&cli.StringFlag{
			Name:    "storage",
			Aliases: []string{"s"},
			Usage:   "Path to the BadgerDB project storage directory",
			EnvVars: []string{"SCHOLARSEEK_STORAGE"},
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-ai",
			Usage: "Disable the AI provider (keyword search only)",
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			EnvVars: []string{"SCHOLARSEEK_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"SCHOLARSEEK_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "generator-model",
			Usage:   "Text generation model name",
			EnvVars: []string{"SCHOLARSEEK_GENERATOR_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model services",
			EnvVars: []string{"SCHOLARSEEK_API_KEY"},
		},
	}
}

// setup loads the dotenv file and configures logging. A missing dotenv
// file is not an error; environment variables may come from anywhere.
func setup(c *cli.Context) error {
	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	}
	return setupLogger(c)
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

// resolveConfig merges the optional YAML config file with command-line
// flags; flags win.
func resolveConfig(c *cli.Context) (*serverConfig, error) {
	config, err := loadServerConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if addr := c.String("addr"); addr != "" {
		config.Addr = addr
	}
	if path := c.String("warehouse"); path != "" {
		config.WarehousePath = path
	}
	if path := c.String("storage"); path != "" {
		config.StoragePath = path
	}
	if c.Bool("no-ai") {
		config.AI.Disabled = true
	}
	if host := c.String("ai-host"); host != "" {
		config.AI.Host = host
	}
	if model := c.String("embedding-model"); model != "" {
		config.AI.EmbeddingModel = model
	}
	if model := c.String("generator-model"); model != "" {
		config.AI.GeneratorModel = model
	}
	if key := c.String("api-key"); key != "" {
		config.AI.APIKey = key
	}
	return config, nil
}

func appOptions(config *serverConfig) []scholarseek.AppOption {
	if config.AI.Disabled {
		return []scholarseek.AppOption{scholarseek.WithoutAI()}
	}

	var configOpts []ai.ConfigOption
	if config.AI.Host != "" {
		configOpts = append(configOpts, ai.WithHost(config.AI.Host))
	}
	if config.AI.EmbeddingModel != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(config.AI.EmbeddingModel))
	}
	if config.AI.GeneratorModel != "" {
		configOpts = append(configOpts, ai.WithGeneratorModel(config.AI.GeneratorModel))
	}
	if config.AI.APIKey != "" {
		configOpts = append(configOpts, ai.WithAPIKey(config.AI.APIKey))
	}
	return []scholarseek.AppOption{scholarseek.WithAIConfig(ai.NewConfig(configOpts...))}
}

func serveCommand(c *cli.Context) error {
	config, err := resolveConfig(c)
	if err != nil {
		return err
	}

	app, err := scholarseek.NewApp(config.WarehousePath, config.StoragePath, appOptions(config)...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	server, err := app.NewServer()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              config.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", "addr", config.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one corpus file argument is required")
	}
	corpusPath := c.Args().First()

	config, err := resolveConfig(c)
	if err != nil {
		return err
	}

	app, err := scholarseek.NewApp(config.WarehousePath, config.StoragePath, appOptions(config)...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	loader, err := app.NewLoader(
		ingestion.WithPoolSize(c.Int("pool-size")),
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}
	defer loader.Release()

	file, err := os.Open(corpusPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(os.Stderr, "Warehouse: %s\n", config.WarehousePath)
	fmt.Fprintf(os.Stderr, "Corpus: %s\n", corpusPath)
	fmt.Fprintln(os.Stderr)

	stats, err := loader.Load(context.Background(), file)
	if err != nil {
		return fmt.Errorf("corpus load failed: %w", err)
	}

	fmt.Printf("Loaded %d of %d records (%d embedded, %d skipped, %d failed)\n",
		stats.Inserted, stats.Total, stats.Embedded, stats.Skipped, stats.Failed)
	return nil
}
