package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/builder"
	"github.com/jonathan/skillmatch/internal/config"
	"github.com/jonathan/skillmatch/internal/rendering"
	"github.com/jonathan/skillmatch/internal/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a resume document from a form",
	Long: `Fill one of the resume layouts from a JSON resume form and write a DOCX document
or a LaTeX source file.`,
	RunE: runBuild,
}

var (
	buildInput    string
	buildTemplate string
	buildFormat   string
	buildOut      string
	buildSave     bool
)

func init() {
	buildCmd.Flags().StringVarP(&buildInput, "input", "i", "", "Resume form JSON file (required)")
	buildCmd.Flags().StringVarP(&buildTemplate, "template", "t", builder.DefaultTemplate, "Layout: "+strings.Join(builder.Templates(), ", "))
	buildCmd.Flags().StringVar(&buildFormat, "format", "docx", "Output format: docx or latex")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output file (default resume.docx or resume.tex)")
	buildCmd.Flags().BoolVar(&buildSave, "save", false, "Store the built resume in the database (needs DATABASE_URL)")

	_ = buildCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	form, err := readResumeForm(buildInput)
	if err != nil {
		return err
	}

	data, ext, err := renderResume(cfg, form, buildTemplate, buildFormat)
	if err != nil {
		return err
	}

	out := buildOut
	if out == "" {
		out = "resume" + ext
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)

	if buildSave {
		ctx := context.Background()
		database, err := requireDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		id, err := builder.Save(ctx, database, form, buildTemplate)
		if err != nil {
			return fmt.Errorf("failed to store resume: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored as %s\n", id)
	}
	return nil
}

// readResumeForm loads and validates a resume form file.
func readResumeForm(path string) (*types.ResumeForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume form: %w", err)
	}

	var form types.ResumeForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("failed to parse resume form %s: %w", path, err)
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resume form: %s", strings.Join(types.ValidationMessages(err), "; "))
	}
	return &form, nil
}

// renderResume returns the document bytes and the file extension for format.
func renderResume(cfg *config.Config, form *types.ResumeForm, template, format string) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "docx":
		data, err := newBuilder(cfg).Build(form, template)
		if err != nil {
			return nil, "", err
		}
		return data, ".docx", nil
	case "latex", "tex":
		var tex string
		var err error
		if cfg.LaTeXTemplate != "" {
			tex, err = rendering.RenderLaTeXFile(form, template, cfg.LaTeXTemplate)
		} else {
			tex, err = rendering.RenderLaTeX(form, template)
		}
		if err != nil {
			return nil, "", err
		}
		return []byte(tex), ".tex", nil
	default:
		return nil, "", fmt.Errorf("unsupported format %q: use docx or latex", format)
	}
}
