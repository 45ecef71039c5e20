package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/extract"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/llm"
	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume file",
	Long: `Classify a document and, when it is a resume, score its sections, formatting and
skill coverage against a job role, an explicit skill list or a job description.`,
	RunE: runAnalyze,
}

var (
	analyzeFile           string
	analyzeRole           string
	analyzeSkills         string
	analyzeJobURL         string
	analyzeJobDescription string
	analyzeJobFile        string
	analyzeAI             bool
	analyzeJSON           bool
	analyzeSave           bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Resume file (.pdf, .docx, .txt, .md)")
	analyzeCmd.Flags().StringVarP(&analyzeRole, "role", "r", "", "Target job role from the role catalog")
	analyzeCmd.Flags().StringVarP(&analyzeSkills, "skills", "s", "", "Comma-separated required skills (overrides --role)")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "Job posting URL to take the description from")
	analyzeCmd.Flags().StringVar(&analyzeJobDescription, "job-description", "", "Job description text")
	analyzeCmd.Flags().StringVar(&analyzeJobFile, "job-file", "", "File containing the job description (.txt, .html, .pdf, .docx)")
	analyzeCmd.Flags().BoolVar(&analyzeAI, "ai", false, "Request an AI review (needs GEMINI_API_KEY)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Store the report in the database (needs DATABASE_URL)")

	_ = analyzeCmd.MarkFlagRequired("file")
	analyzeCmd.MarkFlagsMutuallyExclusive("job-url", "job-description", "job-file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := extract.FromFile(analyzeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	jobDescription := analyzeJobDescription
	if analyzeJobFile != "" {
		posting, err := ingestion.FromFile(analyzeJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = posting.Text
	}

	req := types.AnalyzeRequest{
		Text:           text,
		Role:           strings.TrimSpace(analyzeRole),
		Skills:         types.SplitSkills(analyzeSkills),
		JobDescription: jobDescription,
		JobURL:         strings.TrimSpace(analyzeJobURL),
		AI:             analyzeAI,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid input: %s", strings.Join(types.ValidationMessages(err), "; "))
	}

	ctx := context.Background()

	var database *db.DB
	if analyzeSave {
		if database, err = requireDB(ctx, cfg); err != nil {
			return err
		}
		defer database.Close()
	}

	var client llm.Client
	if analyzeAI {
		if client, err = newLLMClient(ctx, cfg); err != nil {
			return err
		}
		defer closeLLM(client)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	var onProgress pipeline.ProgressCallback
	if cfg.Verbose {
		progress := observability.NewPrinter(cmd.ErrOrStderr())
		onProgress = progress.PrintProgress
	}

	p, err := newPipeline(cfg, database, client, onProgress)
	if err != nil {
		return err
	}

	report, err := p.Run(ctx, pipeline.Request{
		ResumeText:     req.Text,
		RequiredSkills: req.Skills,
		JobRole:        req.Role,
		JobDescription: req.JobDescription,
		JobURL:         req.JobURL,
		UseAI:          req.AI,
		Persist:        analyzeSave,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printer.PrintReport(report)
	if report.StoreError != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: report was not stored: %s\n", report.StoreError)
	}
	return nil
}
