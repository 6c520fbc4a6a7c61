package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// Analyzer runs one analysis; *pipeline.Pipeline satisfies it
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.FactCheckResult, error)
}

// AnalysisJob analyzes one claim
type AnalysisJob struct {
	Index    int
	Request  model.AnalysisRequest
	Analyzer Analyzer
	Limiter  *Limiter // Optional
	Host     string   // Limiter key
}

// Execute waits for the limiter and runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &AnalysisResult{Index: j.Index, Claim: j.Request.Content}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Host); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			res.Elapsed = time.Since(start)
			return res
		}
	}

	res.Result, res.Error = j.Analyzer.Analyze(ctx, j.Request)
	res.Elapsed = time.Since(start)
	return res
}

// AnalysisResult is the outcome of one claim
type AnalysisResult struct {
	Index   int
	Claim   string
	Result  *model.FactCheckResult
	Error   error
	Elapsed time.Duration
}

// GetError returns the error from the analysis
func (r *AnalysisResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many claims concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
	host        string
	settings    model.Settings
}

// BatchOption customizes a BatchProcessor
type BatchOption func(*BatchProcessor)

// WithLimiter throttles provider calls to host
func WithLimiter(limiter *Limiter, host string) BatchOption {
	return func(b *BatchProcessor) {
		b.limiter = limiter
		b.host = host
	}
}

// WithSettings applies settings to every claim
func WithSettings(settings model.Settings) BatchOption {
	return func(b *BatchProcessor) { b.settings = settings }
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ProcessClaims analyzes claims concurrently; results keep the input order
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*AnalysisResult {
	if len(claims) == 0 {
		return []*AnalysisResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, claim := range claims {
			job := &AnalysisJob{
				Index: i,
				Request: model.AnalysisRequest{
					Content:     claim,
					ContentType: model.ContentText,
					Settings:    b.settings,
				},
				Analyzer: b.analyzer,
				Limiter:  b.limiter,
				Host:     b.host,
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	results := make([]*AnalysisResult, 0, len(claims))
	for result := range pool.Results() {
		results = append(results, result.(*AnalysisResult))
	}

	// Claims never run because the context ended still get a result
	if len(results) < len(claims) {
		done := make(map[int]bool, len(results))
		for _, r := range results {
			done[r.Index] = true
		}
		for i, claim := range claims {
			if !done[i] {
				results = append(results, &AnalysisResult{Index: i, Claim: claim, Error: fmt.Errorf("not analyzed: %w", context.Cause(ctx))})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ProcessFile reads claims from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalysisResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file, one per line.
// Empty lines and lines starting with # are skipped; duplicates are dropped.
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), model.MaxUploadBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
