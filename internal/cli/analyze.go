package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/export"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/present"
	"github.com/spf13/cobra"
)

var (
	analyzeFile      string
	analyzeImage     string
	analyzeRaw       string
	analyzeFormat    string
	analyzeOut       string
	analyzeTimeout   time.Duration
	analyzeExpertise string
	analyzeLength    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze one claim, text file or image",
	Long: `Analyze sends one submission to the configured provider, normalizes the
answer into a fact-check result and prints or exports it.

With --raw, an already captured provider answer is normalized without any
network call (useful to replay or debug upstream responses).

Example:
  factcheck analyze "The Eiffel Tower was completed in 1889."
  factcheck analyze --file article.md --format md --out result.md
  factcheck analyze --image screenshot.png --format json
  factcheck analyze --raw answer.txt --format text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "text file to analyze (.txt, .md)")
	analyzeCmd.Flags().StringVar(&analyzeImage, "image", "", "image to analyze (.png, .jpg, .jpeg, .gif, .webp)")
	analyzeCmd.Flags().StringVar(&analyzeRaw, "raw", "", "normalize a captured provider answer instead of calling the provider")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "output format (text, json, md, html, xlsx)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "output path (default: stdout)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "analysis timeout")
	analyzeCmd.Flags().StringVar(&analyzeExpertise, "expertise", "", "expertise level (basic, medium, advanced, expert)")
	analyzeCmd.Flags().StringVar(&analyzeLength, "length", "", "analysis length (brief, standard, detailed, exhaustive)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := buildRequest(args)
	if err != nil {
		return err
	}

	renderer := present.NewRenderer(&a.logger, nil)

	var snap present.Snapshot
	if analyzeRaw != "" {
		raw, err := os.ReadFile(analyzeRaw)
		if err != nil {
			return fmt.Errorf("read raw answer: %w", err)
		}
		snap, _ = renderer.Submit(ctx, func(ctx context.Context) (*model.FactCheckResult, error) {
			return a.pipeline.Ingest(ctx, string(raw), req)
		})
	} else {
		if err := req.Validate(); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Analyzing with %s...\n", a.pipeline.ProviderName())
		}
		snap, _ = renderer.Submit(ctx, func(ctx context.Context) (*model.FactCheckResult, error) {
			return a.pipeline.Analyze(ctx, req)
		})
	}

	if snap.State == present.StateErrored && snap.Notice != nil {
		fmt.Fprintf(os.Stderr, "✗ %s (%s)\n", snap.Notice.Message, snap.Notice.Code)
		if snap.Notice.Retryable {
			fmt.Fprintf(os.Stderr, "  The analysis service may be temporarily unavailable; try again.\n")
		}
		return fmt.Errorf("analysis failed: %s", snap.Notice.Message)
	}

	if snap.Result == nil {
		return fmt.Errorf("analysis ended in state %s", snap.State)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %s: %s\n", snap.Result.Verdict.Label(), snap.Result.ClaimText)
		fmt.Fprintf(os.Stderr, "✓ %d sources, %d key points (id %s)\n", len(snap.Result.Analysis.Sources), len(snap.Result.Analysis.KeyPoints), snap.Result.ID)
	}

	art, err := a.exporter.Export(ctx, snap.Result, format)
	if err != nil {
		return err
	}
	if err := writeArtifact(art, analyzeOut); err != nil {
		return err
	}
	if analyzeOut != "" && analyzeOut != "-" {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s: %s\n", format, analyzeOut)
	}
	return nil
}

// buildRequest assembles the submission from the positional text and file flags
func buildRequest(args []string) (model.AnalysisRequest, error) {
	req := model.AnalysisRequest{
		Settings: model.Settings{
			ExpertiseLevel: model.ExpertiseLevel(analyzeExpertise),
			AnalysisLength: model.AnalysisLength(analyzeLength),
		},
	}
	if len(args) == 1 {
		req.Content = strings.TrimSpace(args[0])
		req.ContentType = model.ContentText
	}

	if analyzeFile != "" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return req, fmt.Errorf("read file: %w", err)
		}
		ct, err := model.ContentTypeForFile(analyzeFile)
		if err != nil {
			return req, err
		}
		if ct != model.ContentText {
			return req, fmt.Errorf("--file expects a text file, use --image for %s", filepath.Ext(analyzeFile))
		}
		if req.Content == "" {
			req.Content = strings.TrimSpace(string(data))
		}
		req.ContentType = model.ContentText
		req.Filename = filepath.Base(analyzeFile)
	}

	if analyzeImage != "" {
		data, err := os.ReadFile(analyzeImage)
		if err != nil {
			return req, fmt.Errorf("read image: %w", err)
		}
		ct, err := model.ContentTypeForFile(analyzeImage)
		if err != nil {
			return req, err
		}
		req.ContentType = ct
		req.Media = data
		req.MediaMIME = http.DetectContentType(data)
		req.Filename = filepath.Base(analyzeImage)
	}

	return req, nil
}
