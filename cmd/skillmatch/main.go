// Package main provides the skillmatch command line: the HTTP API server and
// local analysis, build and administration commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "skillmatch",
	Short: "SkillMatch resume analyzer",
	Long: "SkillMatch classifies uploaded documents, scores resumes for sections, formatting and skill coverage, " +
		"builds DOCX and LaTeX resumes from a form, and serves all of it over a REST API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file (default $"+"SKILLMATCH_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
