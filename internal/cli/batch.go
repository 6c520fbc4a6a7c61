package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/ppiankov/factcheck/internal/export"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency    int
	outputDir      string
	batchTimeout   time.Duration
	batchFormat    string
	batchExpertise string
	batchLength    string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fact-check multiple claims from a file in parallel",
	Long: `Batch processes multiple claims concurrently:
- Read claims from input file (one per line, # starts a comment)
- Analyze claims in parallel with configurable worker count
- Throttle provider calls with the configured rate limit
- Write one export per claim and print a verdict summary

Example:
  factcheck batch claims.txt
  factcheck batch claims.txt --concurrency 4 --output-dir ./results --format md
  factcheck batch claims.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: config, else CPU count)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./factcheck-results", "output directory for exports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchFormat, "format", "json", "export format (json, text, md, html, xlsx)")
	batchCmd.Flags().StringVar(&batchExpertise, "expertise", "", "expertise level for every claim")
	batchCmd.Flags().StringVar(&batchLength, "length", "", "analysis length for every claim")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	format, err := export.ParseFormat(batchFormat)
	if err != nil {
		return err
	}
	settings := model.Settings{
		ExpertiseLevel: model.ExpertiseLevel(batchExpertise),
		AnalysisLength: model.AnalysisLength(batchLength),
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.pipeline.Enabled() {
		return a.pipeline.ConfigError()
	}

	workers := concurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Fact-check Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Provider:     %s/%s\n", a.pipeline.ProviderName(), a.cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Rate limit:   %.2f req/s (burst %d)\n", a.cfg.RateLimiting.RequestsPerSecond, a.cfg.RateLimiting.BurstSize)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(a.pipeline, workers,
		worker.WithLimiter(worker.NewLimiterFromConfig(a.cfg.RateLimiting), worker.ProviderHost(a.cfg.LLM)),
		worker.WithSettings(settings),
	)

	fmt.Fprintf(os.Stderr, "⚙️  Reading claims from file...\n")
	claims, err := worker.ReadClaimsFromFile(file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d claims\n", len(claims))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing claims with %d workers...\n", workers)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessClaims(ctx, claims)

	successCount := 0
	failureCount := 0
	verdicts := make(map[model.Verdict]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ [%d] %s: %v\n", result.Index+1, truncate(result.Claim, 60), result.Error)
			continue
		}

		art, err := a.exporter.Export(ctx, result.Result, format)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ [%d] %s: export failed: %v\n", result.Index+1, truncate(result.Claim, 60), err)
			continue
		}

		name := fmt.Sprintf("%03d-%s.%s", result.Index+1, sanitizeFilename(result.Claim), format.Extension())
		path := filepath.Join(outputDir, name)
		if err := writeArtifact(art, path); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ [%d] %s: %v\n", result.Index+1, truncate(result.Claim, 60), err)
			continue
		}

		successCount++
		verdicts[result.Result.Verdict]++
		fmt.Fprintf(os.Stderr, "✓ [%d] %s → %s (%v)\n", result.Index+1, truncate(result.Claim, 60), result.Result.Verdict.Label(), result.Elapsed.Round(time.Millisecond))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	for _, v := range model.Verdicts() {
		if n := verdicts[v]; n > 0 {
			fmt.Fprintf(os.Stderr, "    %-20s %d\n", v.Label()+":", n)
		}
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all %d claims failed", failureCount)
	}
	return nil
}

// sanitizeFilename turns a claim into a short filesystem-safe slug
func sanitizeFilename(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= 60 {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "claim"
	}
	return slug
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
