package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/builder"
	"github.com/jonathan/skillmatch/internal/config"
	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/llm"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/roles"
)

// loadConfig reads the config file and environment. The --verbose flag wins
// over the file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// connectDB opens the database named by the config, or returns nil when no
// database is configured.
func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return database, nil
}

// requireDB is connectDB for commands that cannot run without a database.
func requireDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return connectDB(ctx, cfg)
}

// newLLMClient returns a Gemini client, or nil when no API key is configured.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := llm.NewGeminiClient(ctx, llm.ConfigFromEnv(), cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newPipeline wires the analyzer, role catalog and optional services. A nil
// database or client leaves persistence or critiques disabled.
func newPipeline(cfg *config.Config, database *db.DB, client llm.Client, onProgress pipeline.ProgressCallback) (*pipeline.Pipeline, error) {
	kw := analyzer.DefaultKeywords()
	if cfg.KeywordsPath != "" {
		var err error
		if kw, err = analyzer.LoadKeywords(cfg.KeywordsPath); err != nil {
			return nil, err
		}
	}
	a, err := analyzer.New(kw)
	if err != nil {
		return nil, err
	}

	catalog := roles.Default()
	if cfg.RolesPath != "" {
		if catalog, err = roles.Load(cfg.RolesPath); err != nil {
			return nil, err
		}
	}

	opts := pipeline.Options{
		Analyzer:   a,
		Roles:      catalog,
		LLM:        client,
		URLOptions: &ingestion.URLOptions{UseBrowser: cfg.UseBrowser, Verbose: cfg.Verbose},
		OnProgress: onProgress,
		Verbose:    cfg.Verbose,
	}
	if database != nil {
		opts.Store = database
	}
	return pipeline.New(opts)
}

// newBuilder uses the configured layout directory, or the built-in layouts.
func newBuilder(cfg *config.Config) *builder.Builder {
	var templates fs.FS
	if cfg.TemplatesDir != "" {
		templates = os.DirFS(cfg.TemplatesDir)
	}
	return builder.New(templates, cfg.Verbose)
}

func closeLLM(client llm.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Printf("Warning: failed to close AI client: %v", err)
	}
}
