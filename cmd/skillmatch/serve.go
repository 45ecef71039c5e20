package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/config"
	"github.com/jonathan/skillmatch/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for analyzing and building resumes.

DATABASE_URL enables persistence and, together with JWT_SECRET, the admin API.
GEMINI_API_KEY enables AI reviews.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, else 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx := context.Background()
	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM(client)

	p, err := newPipeline(cfg, database, client, nil)
	if err != nil {
		return err
	}

	opts := server.Options{
		Port:           cfg.Port,
		Pipeline:       p,
		Builder:        newBuilder(cfg),
		LaTeXTemplate:  cfg.LaTeXTemplate,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}

	if database != nil {
		opts.Store = database

		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Admin API disabled: %v\n", err)
		} else {
			passwords, err := config.NewPasswordConfig()
			if err != nil {
				return err
			}
			opts.JWT = server.NewJWTService(jwtCfg)
			opts.Passwords = passwords
		}
	}

	srv, err := server.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	return srv.Start()
}
