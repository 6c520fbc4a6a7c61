package model

import (
	"math"
	"strings"
	"testing"
	"time"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
)

func TestVerdict_ScaleBands(t *testing.T) {
	prevMin := 1.0
	for _, v := range Verdicts()[:5] {
		info := v.Info()
		if !info.OnScale {
			t.Errorf("Expected %s on scale", v)
		}
		if info.MaxScore != prevMin {
			t.Errorf("Expected %s band to end at %.2f, got %.2f", v, prevMin, info.MaxScore)
		}
		prevMin = info.MinScore
	}
	if prevMin != 0 {
		t.Errorf("Expected the scale to reach 0, got %.2f", prevMin)
	}
}

func TestVerdict_ConfidenceMeaningful(t *testing.T) {
	tests := map[Verdict]bool{
		VerdictTrue:             true,
		VerdictMisleading:       true,
		VerdictInsufficientData: true,
		VerdictSatire:           false,
		VerdictUnknown:          false,
		VerdictError:            false,
		Verdict("bogus"):        false,
	}
	for v, want := range tests {
		if got := v.ConfidenceMeaningful(); got != want {
			t.Errorf("%s: expected %v, got %v", v, want, got)
		}
	}
}

func TestVerdict_UnknownInfoFallback(t *testing.T) {
	if Verdict("bogus").IsValid() {
		t.Error("Expected bogus verdict to be invalid")
	}
	if got := Verdict("bogus").Label(); got != VerdictUnknown.Label() {
		t.Errorf("Expected unknown label, got %s", got)
	}
}

func TestSource_Reliability(t *testing.T) {
	if got := OrdinalToScore(1); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if got := OrdinalToScore(5); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
	if got := OrdinalToScore(9); got != 1 {
		t.Errorf("Expected clamped 1, got %v", got)
	}
	if got := ScoreToOrdinal(math.NaN()); got != 1 {
		t.Errorf("Expected NaN to map to 1, got %d", got)
	}
	if got := ScoreToOrdinal(0.8); got != 4 {
		t.Errorf("Expected 4, got %d", got)
	}

	s := Source{URL: "https://x.test"}.WithReliability(DefaultReliability)
	if s.Reliability != 3 || s.ReliabilityScore != 0.5 {
		t.Errorf("Expected 3/0.5, got %d/%v", s.Reliability, s.ReliabilityScore)
	}
	if unchanged := s.WithReliability(0); unchanged != s {
		t.Errorf("Expected out-of-range ordinal to be ignored, got %+v", unchanged)
	}
	if stars := (Source{ReliabilityScore: 1}).Stars(); stars != 5 {
		t.Errorf("Expected 5 stars from score, got %d", stars)
	}
}

func TestReliabilityLevel(t *testing.T) {
	tests := map[float64]string{
		0.95: "Velmi vysoká",
		0.75: "Vysoká",
		0.6:  "Střední",
		0.4:  "Nízká",
		0.2:  "Velmi nízká",
		0.1:  "Nedůvěryhodný zdroj",
	}
	for score, want := range tests {
		if got := ReliabilityLevel(score); got != want {
			t.Errorf("ReliabilityLevel(%v): expected %s, got %s", score, want, got)
		}
	}
}

func TestSettings(t *testing.T) {
	if !(Settings{}).IsZero() {
		t.Error("Expected zero settings")
	}
	got := Settings{ExpertiseLevel: ExpertiseExpert}.WithDefaults()
	if got.ExpertiseLevel != ExpertiseExpert || got.AnalysisLength != LengthStandard {
		t.Errorf("Expected expert/standard, got %+v", got)
	}
	if err := (Settings{AnalysisLength: "epic"}).Validate(); !apperrors.IsInvalidInput(err) {
		t.Errorf("Expected invalid input, got %v", err)
	}
	if LengthBrief.KeyPointCount() != 3 || LengthExhaustive.PerspectiveCount() != 4 {
		t.Error("Unexpected analysis length counts")
	}
}

func TestAnalysisRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     AnalysisRequest
		wantErr bool
	}{
		{"text", AnalysisRequest{Content: "claim"}, false},
		{"media", AnalysisRequest{Media: []byte{1}, ContentType: ContentImage}, false},
		{"empty", AnalysisRequest{Content: "   "}, true},
		{"bad content type", AnalysisRequest{Content: "x", ContentType: "hologram"}, true},
		{"too large", AnalysisRequest{Media: make([]byte, MaxUploadBytes+1)}, true},
		{"bad settings", AnalysisRequest{Content: "x", Settings: Settings{ExpertiseLevel: "guru"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !apperrors.IsInvalidInput(err) {
				t.Errorf("Expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestContentTypeForFile(t *testing.T) {
	tests := map[string]ContentType{
		"notes.TXT":  ContentText,
		"photo.jpeg": ContentImage,
		"clip.webm":  ContentVideo,
		"voice.m4a":  ContentAudio,
	}
	for name, want := range tests {
		got, err := ContentTypeForFile(name)
		if err != nil || got != want {
			t.Errorf("%s: expected %s, got %s (%v)", name, want, got, err)
		}
	}
	if _, err := ContentTypeForFile("setup.exe"); !apperrors.IsInvalidInput(err) {
		t.Errorf("Expected invalid input for .exe, got %v", err)
	}
}

func TestResult_CloneIsolation(t *testing.T) {
	res := ErrorResult("", time.Unix(0, 0))
	res.Analysis.KeyPoints = append(res.Analysis.KeyPoints, "a")

	clone := res.Clone()
	clone.Analysis.KeyPoints[0] = "b"

	if res.Analysis.KeyPoints[0] != "a" {
		t.Error("Expected clone to not alias key points")
	}
	if res.Verdict != VerdictError || res.ClaimText != ClaimUnknown || !strings.Contains(res.Analysis.Explanation, "failed") {
		t.Errorf("Unexpected error result: %+v", res)
	}
	if (*FactCheckResult)(nil).Clone() != nil {
		t.Error("Expected nil clone of nil result")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.LLM.Provider = "bard" }},
		{"backend", func(c *Config) { c.Store.Backend = "mongodb" }},
		{"postgres without dsn", func(c *Config) { c.Store.Backend = "postgres" }},
		{"redis without addr", func(c *Config) { c.Store.Backend = "redis" }},
		{"log level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"vocabulary", func(c *Config) {
			c.Analysis.Vocabulary = []VocabularyTerm{{Phrase: "oops", Verdict: VerdictError}}
		}},
		{"settings", func(c *Config) { c.Analysis.Settings.AnalysisLength = "epic" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !apperrors.IsConfiguration(err) {
				t.Errorf("Expected configuration error, got %v", err)
			}
		})
	}
}
