package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/cache"
	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
	"github.com/ppiankov/factcheck/internal/store"
	"github.com/ppiankov/factcheck/internal/validate"
	"github.com/rs/zerolog"
)

// Options carries the collaborators of a Pipeline. Zero values are replaced with defaults.
type Options struct {
	Provider llm.Provider // Overrides the provider built from config
	Store    store.Store
	Metrics  *metrics.Metrics
	Logger   *zerolog.Logger
	Attempts int // Provider call attempts for retryable failures
}

// Pipeline orchestrates one analysis: provider call -> sniff -> assemble -> store
type Pipeline struct {
	provider  llm.Provider // nil when analysis is disabled
	configErr error        // Why analysis is disabled
	assembler *Assembler
	store     store.Store
	metrics   *metrics.Metrics
	logger    *zerolog.Logger
	config    *model.Config
	attempts  int
}

// NewPipeline creates a new pipeline with the given configuration.
// A missing or broken provider configuration never fails construction: normalization,
// lookup and export keep working and Analyze reports the ConfigurationError.
func NewPipeline(cfg *model.Config, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	p := &Pipeline{
		provider:  opts.Provider,
		assembler: NewAssembler(NewNormalizer(cfg), extract.NewSourceExtractor(validate.NewAuthorityClassifier(&cfg.Authority))),
		store:     opts.Store,
		metrics:   opts.Metrics,
		logger:    logger,
		config:    cfg,
		attempts:  opts.Attempts,
	}
	if p.attempts == 0 {
		p.attempts = defaultAttempts
	}
	if p.store == nil {
		p.store = store.NewCacheStore(cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute), 0)
	}

	if p.provider == nil {
		p.provider, p.configErr = buildProvider(cfg)
		if p.configErr != nil {
			logger.Warn().Err(p.configErr).Msg("analysis disabled")
		}
	}

	return p
}

// NewNormalizer builds the verdict normalizer with the configured vocabulary extensions
func NewNormalizer(cfg *model.Config) *score.Normalizer {
	extra := make([]score.Term, 0, len(cfg.Analysis.Vocabulary))
	for _, t := range cfg.Analysis.Vocabulary {
		extra = append(extra, score.Term{Phrase: t.Phrase, Verdict: t.Verdict})
	}
	return score.NewNormalizer(score.NewVocabulary(extra))
}

func buildProvider(cfg *model.Config) (llm.Provider, error) {
	if strings.TrimSpace(cfg.LLM.Provider) == "" {
		return nil, apperrors.Configuration("no analysis provider configured (set llm.provider)")
	}
	provider, err := llm.NewProvider(llm.WithEnvFallback(llm.ConfigFromModel(cfg.LLM)))
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// Enabled reports whether analysis requests can be served
func (p *Pipeline) Enabled() bool {
	return p.provider != nil
}

// ConfigError explains why analysis is disabled (nil when enabled)
func (p *Pipeline) ConfigError() error {
	return p.configErr
}

// ProviderName names the configured provider, empty when disabled
func (p *Pipeline) ProviderName() string {
	if p.provider == nil {
		return ""
	}
	return p.provider.Name()
}

// Analyze sends one request to the provider and returns the stored, normalized result.
// Only configuration, input and transport failures are returned; any provider answer
// produces a result.
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.FactCheckResult, error) {
	if p.provider == nil {
		return nil, p.configErr
	}

	req = p.prepare(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := withRetry(ctx, p.attempts, func(ctx context.Context) (*llm.AnalyzeResponse, error) {
		return p.provider.Analyze(ctx, llm.AnalyzeRequest{Request: req})
	})
	p.metrics.ProviderCall(p.provider.Name(), time.Since(start), err)
	if err != nil {
		p.logger.Warn().Err(err).Str("provider", p.provider.Name()).Msg("analysis call failed")
		return nil, err
	}

	p.logger.Debug().
		Str("provider", p.provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Dur("elapsed", time.Since(start)).
		Msg("analysis received")

	return p.Ingest(ctx, resp.Raw, req)
}

// Ingest normalizes an already-captured provider payload and stores the result.
// Request fields left empty are taken from the payload.
func (p *Pipeline) Ingest(ctx context.Context, raw any, req model.AnalysisRequest) (*model.FactCheckResult, error) {
	res := p.Normalize(raw, req)
	if err := p.store.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("store result: %w", err)
	}
	return res.Clone(), nil
}

// Normalize turns any provider payload into a canonical result. It never fails:
// unrecognizable payloads are logged as upstream format errors and produce an unknown verdict.
func (p *Pipeline) Normalize(raw any, req model.AnalysisRequest) *model.FactCheckResult {
	payload := extract.Sniff(raw)

	if ff, ok := payload.(extract.FreeformAnalysis); ok && ff.Unrecognized {
		p.metrics.UpstreamFormatError()
		p.logger.Warn().
			Err(apperrors.UpstreamFormat("provider payload carried no recognizable analysis")).
			Bool("partial_fields", ff.Fields.Exists()).
			Msg("recovered with defaults")
	}

	hint := ""
	if req.ContentType == "" || req.ContentType == model.ContentText {
		hint = req.Content
	}

	res := p.assembler.Assemble(AssembleInput{
		Payload:     payload,
		ContentType: req.ContentType,
		Settings:    req.Settings,
		ClaimHint:   hint,
	})

	p.metrics.ResultAssembled(string(res.Verdict), string(payload.Format()))
	p.logger.Debug().
		Str("id", res.ID).
		Str("format", string(payload.Format())).
		Str("verdict", string(res.Verdict)).
		Float64("confidence", res.Confidence).
		Int("sources", len(res.Analysis.Sources)).
		Msg("result assembled")

	return res
}

// Get returns a stored result by id
func (p *Pipeline) Get(ctx context.Context, id string) (*model.FactCheckResult, error) {
	return p.store.Get(ctx, id)
}

// Close releases the result store
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// prepare fills request defaults from configuration
func (p *Pipeline) prepare(req model.AnalysisRequest) model.AnalysisRequest {
	if req.ContentType == "" {
		req.ContentType = model.ContentText
		if len(req.Media) > 0 {
			req.ContentType = model.ContentImage
		}
	}
	if req.Settings.IsZero() {
		req.Settings = p.config.Analysis.Settings
	}
	req.Settings = req.Settings.WithDefaults()
	return req
}
