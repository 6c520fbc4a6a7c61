package llm

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/model"
)

// Provider defines the interface for analysis providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Analyze sends one analysis request and returns the provider's raw answer
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AnalyzeRequest contains the input for one analysis call
type AnalyzeRequest struct {
	// Request is the user's submission (text and/or image plus settings)
	Request model.AnalysisRequest

	// Prompt is an optional custom prompt (if empty, BuildPrompt is used)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AnalyzeResponse is the unparsed provider answer
type AnalyzeResponse struct {
	// Raw is the answer text: a JSON object, fenced JSON or free prose
	Raw string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   60,
		MaxTokens: 2000,
	}
}

const systemPrompt = "You are a careful fact-checker. You answer only with the requested JSON object."

// BuildPrompt constructs the analysis prompt for the request's expertise level and length
func BuildPrompt(req model.AnalysisRequest) string {
	settings := req.Settings.WithDefaults()

	var subject string
	switch req.ContentType {
	case model.ContentImage:
		subject = "the attached image"
		if strings.TrimSpace(req.Content) != "" {
			subject += fmt.Sprintf(" together with this text:\n\"\"\"\n%s\n\"\"\"", req.Content)
		}
	default:
		subject = fmt.Sprintf("this content:\n\"\"\"\n%s\n\"\"\"", req.Content)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fact-check %s\n\n", subject)
	fmt.Fprintf(&b, "Write for a reader with %s expertise.\n", expertiseDescription(settings.ExpertiseLevel))
	fmt.Fprintf(&b, "Give %d key points and %d alternative perspectives.\n\n",
		settings.AnalysisLength.KeyPointCount(), settings.AnalysisLength.PerspectiveCount())
	b.WriteString(`Answer with one JSON object:
{
  "content_summary": "the main claim in one sentence",
  "truth_rating": "one of: Pravdivé, Převážně pravdivé, Částečně pravdivé, Převážně nepravdivé, Nepravdivé, Zavádějící, Neověřitelné, Nedostatečné údaje, Satira",
  "truth_score": 0.0,
  "analysis": {
    "detailed_explanation": "...",
    "key_points": ["..."],
    "sources": [{"name": "...", "url": "https://...", "reliability": 1, "type": "government|academic|news|fact_checking|other"}],
    "alternative_perspectives": [{"title": "...", "description": "...", "type": "..."}],
    "suggested_responses": [{"type": "informative|educational|humorous", "text": "..."}]
  }
}
truth_score is between 0 (false) and 1 (true); reliability is 1-5. Cite only sources you are sure exist.`)

	return b.String()
}

func expertiseDescription(level model.ExpertiseLevel) string {
	switch level {
	case model.ExpertiseBasic:
		return "no special"
	case model.ExpertiseAdvanced:
		return "advanced"
	case model.ExpertiseExpert:
		return "expert, domain-specific"
	default:
		return "general, educated"
	}
}

// checkContent rejects content kinds providers cannot analyze
func checkContent(req model.AnalysisRequest) error {
	switch req.ContentType {
	case model.ContentAudio, model.ContentVideo:
		return apperrors.InvalidInput("%s content cannot be analyzed: no transcription is available", req.ContentType)
	case model.ContentImage:
		if len(req.Media) == 0 {
			return apperrors.InvalidInput("image content requires an uploaded file")
		}
	}
	return nil
}

func resolveModel(requested, configured, fallback string) string {
	if requested != "" {
		return requested
	}
	if configured != "" {
		return configured
	}
	return fallback
}

func resolveMaxTokens(requested, configured int) int {
	if requested > 0 {
		return requested
	}
	if configured > 0 {
		return configured
	}
	return 2000
}

// mediaType returns the MIME type of an image upload
func mediaType(req model.AnalysisRequest) string {
	if req.MediaMIME != "" {
		return req.MediaMIME
	}
	return "image/png"
}
