package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	viper.SetEnvPrefix("FACTCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := registerDefaults(model.DefaultConfig()); err != nil {
		t.Fatalf("registerDefaults failed: %v", err)
	}
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	def := model.DefaultConfig()
	if cfg.Store.Backend != def.Store.Backend {
		t.Errorf("Expected backend %s, got %s", def.Store.Backend, cfg.Store.Backend)
	}
	if cfg.Server.RequestTimeout != def.Server.RequestTimeout {
		t.Errorf("Expected request timeout %v, got %v", def.Server.RequestTimeout, cfg.Server.RequestTimeout)
	}
	if cfg.Analysis.Settings != model.DefaultSettings() {
		t.Errorf("Expected default settings, got %+v", cfg.Analysis.Settings)
	}
	if len(cfg.Authority.PrimaryDomains) != len(def.Authority.PrimaryDomains) {
		t.Errorf("Expected %d primary domains, got %d", len(def.Authority.PrimaryDomains), len(cfg.Authority.PrimaryDomains))
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	resetViper(t)
	t.Setenv("FACTCHECK_LLM_PROVIDER", "ollama")
	t.Setenv("FACTCHECK_LLM_MODEL", "llama3.1")
	t.Setenv("FACTCHECK_ANALYSIS_SETTINGS_EXPERTISE_LEVEL", "expert")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3.1" {
		t.Errorf("Expected ollama/llama3.1, got %s/%s", cfg.LLM.Provider, cfg.LLM.Model)
	}
	if cfg.Analysis.Settings.ExpertiseLevel != model.ExpertiseExpert {
		t.Errorf("Expected expert, got %s", cfg.Analysis.Settings.ExpertiseLevel)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	resetViper(t)
	t.Setenv("FACTCHECK_STORE_BACKEND", "mongodb")

	if _, err := loadConfig(); err == nil {
		t.Fatal("Expected error for unknown backend, got nil")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Written config is not valid YAML: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Expected memory backend, got %s", cfg.Store.Backend)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestMaskSecrets(t *testing.T) {
	cfg := *model.DefaultConfig()
	cfg.LLM.APIKey = "sk-secret"
	cfg.Store.RedisPassword = "hunter2"
	cfg.Store.PostgresDSN = "postgres://fc:pw@db:5432/factcheck?sslmode=disable"

	masked := maskSecrets(cfg)

	if masked.LLM.APIKey != secretMask {
		t.Errorf("Expected masked API key, got %s", masked.LLM.APIKey)
	}
	if masked.Store.RedisPassword != secretMask {
		t.Errorf("Expected masked redis password, got %s", masked.Store.RedisPassword)
	}
	if strings.Contains(masked.Store.PostgresDSN, "pw@") || !strings.Contains(masked.Store.PostgresDSN, "db:5432") {
		t.Errorf("Expected password hidden and host kept, got %s", masked.Store.PostgresDSN)
	}
	if cfg.LLM.APIKey != "sk-secret" {
		t.Error("Expected original config to stay untouched")
	}
}

func TestMaskDSN_KeyValue(t *testing.T) {
	if got := maskDSN("host=db user=fc password=pw"); got != secretMask {
		t.Errorf("Expected fully masked DSN, got %s", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The Earth is flat!", "the-earth-is-flat"},
		{"  ../../etc/passwd  ", "etc-passwd"},
		{"Očkování způsobuje autismus?", "očkování-způsobuje-autismus"},
		{"???", "claim"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	long := sanitizeFilename(strings.Repeat("word ", 50))
	if len(long) > 61 || strings.HasSuffix(long, "-") {
		t.Errorf("Expected a trimmed slug of at most 61 bytes, got %q", long)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("Expected short unchanged, got %s", got)
	}
	if got := truncate("žluťoučký kůň", 5); got != "žluť…" {
		t.Errorf("Expected rune-safe truncation, got %s", got)
	}
}

func TestBuildRequest(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "article.md")
	imagePath := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(textPath, []byte("  Vaccines cause autism.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	png := []byte("\x89PNG\r\n\x1a\n0000")
	if err := os.WriteFile(imagePath, png, 0644); err != nil {
		t.Fatal(err)
	}

	defer func() { analyzeFile, analyzeImage, analyzeExpertise, analyzeLength = "", "", "", "" }()

	analyzeFile = textPath
	analyzeExpertise = "basic"
	req, err := buildRequest(nil)
	if err != nil {
		t.Fatalf("buildRequest failed: %v", err)
	}
	if req.Content != "Vaccines cause autism." || req.ContentType != model.ContentText || req.Filename != "article.md" {
		t.Errorf("Unexpected text request: %+v", req)
	}
	if req.Settings.ExpertiseLevel != model.ExpertiseBasic {
		t.Errorf("Expected basic expertise, got %s", req.Settings.ExpertiseLevel)
	}

	analyzeFile = ""
	analyzeImage = imagePath
	req, err = buildRequest([]string{"caption"})
	if err != nil {
		t.Fatalf("buildRequest failed: %v", err)
	}
	if req.ContentType != model.ContentImage || req.MediaMIME != "image/png" || len(req.Media) != len(png) {
		t.Errorf("Unexpected image request: type=%s mime=%s bytes=%d", req.ContentType, req.MediaMIME, len(req.Media))
	}
	if req.Content != "caption" {
		t.Errorf("Expected positional text kept, got %q", req.Content)
	}

	analyzeImage = ""
	analyzeFile = imagePath
	if _, err := buildRequest(nil); err == nil {
		t.Error("Expected error for an image passed as --file")
	}
}
