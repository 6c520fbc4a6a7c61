package llm

import (
	"strings"
	"testing"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/model"
)

func TestBuildPrompt_UsesSettings(t *testing.T) {
	tests := []struct {
		length      model.AnalysisLength
		keyPoints   string
		perspective string
	}{
		{model.LengthBrief, "3 key points", "1 alternative"},
		{model.LengthStandard, "5 key points", "2 alternative"},
		{model.LengthDetailed, "8 key points", "3 alternative"},
		{model.LengthExhaustive, "12 key points", "4 alternative"},
	}

	for _, tt := range tests {
		prompt := BuildPrompt(model.AnalysisRequest{
			Content:  "Claim under test.",
			Settings: model.Settings{AnalysisLength: tt.length},
		})
		if !strings.Contains(prompt, tt.keyPoints) || !strings.Contains(prompt, tt.perspective) {
			t.Errorf("Expected %q and %q for %s", tt.keyPoints, tt.perspective, tt.length)
		}
		if !strings.Contains(prompt, "Claim under test.") {
			t.Error("Expected content in prompt")
		}
	}
}

func TestBuildPrompt_Image(t *testing.T) {
	prompt := BuildPrompt(model.AnalysisRequest{ContentType: model.ContentImage, Content: "caption"})
	if !strings.Contains(prompt, "the attached image") || !strings.Contains(prompt, "caption") {
		t.Errorf("Expected image subject with caption, got %q", prompt)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	if p != nil || err != nil {
		t.Errorf("Expected disabled provider, got %v, %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "bard"}); !apperrors.IsConfiguration(err) {
		t.Errorf("Expected configuration error for unknown provider, got %v", err)
	}

	p, err = NewProvider(Config{Provider: "Claude", APIKey: "k"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("Expected anthropic, got %s", p.Name())
	}
}

func TestWithEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	if got := WithEnvFallback(Config{Provider: "openai"}).APIKey; got != "env-key" {
		t.Errorf("Expected env-key, got %q", got)
	}
	if got := WithEnvFallback(Config{Provider: "openai", APIKey: "cfg"}).APIKey; got != "cfg" {
		t.Errorf("Expected configured key to win, got %q", got)
	}
	if got := WithEnvFallback(Config{Provider: "ollama"}).BaseURL; got != "http://ollama:11434" {
		t.Errorf("Expected env base URL, got %q", got)
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{Provider: "ollama", Model: "llava", Timeout: 9, NoProxy: "localhost"})
	if cfg.Provider != "ollama" || cfg.Model != "llava" || cfg.Timeout != 9 || cfg.NoProxy != "localhost" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}
