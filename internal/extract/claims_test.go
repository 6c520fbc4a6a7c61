package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/factcheck/internal/model"
)

func TestDetectClaim_FirstSentence(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Tvrzení je Lež. Zdroj: Reuters", "Tvrzení je Lež."},
		{"Is the bridge 600 years old? Yes, mostly.", "Is the bridge 600 years old?"},
		{"# Analysis\nThe claim is false. It was never said.", "The claim is false."},
		{"Verdikt: lež\nPremiér to neřekl. Citace je smyšlená.", "Premiér to neřekl."},
		{"- The minister resigned in 2019.\n- Later", "The minister resigned in 2019."},
		{"Version 2.5 was released in 2020.", "Version 2.5 was released in 2020."},
		{"The sentence is wrapped\nacross two lines.", "The sentence is wrapped across two lines."},
		{"https://example.com/a reports the bridge opened in 1402. More later.", "https://example.com/a reports the bridge opened in 1402."},
	}

	for _, tt := range tests {
		if got := DetectClaim(tt.text); got != tt.expected {
			t.Errorf("Expected %q for %q, got %q", tt.expected, tt.text, got)
		}
	}
}

func TestDetectClaim_NoTerminator(t *testing.T) {
	for _, text := range []string{"", "no terminator here", "Verdict: false", strings.Repeat("word ", 100) + "end."} {
		if got := DetectClaim(text); got != model.ClaimUnknown {
			t.Errorf("Expected %q for %q, got %q", model.ClaimUnknown, text, got)
		}
	}
}

func TestIsLabelled(t *testing.T) {
	tests := map[string]bool{
		"Verdikt: lež":                        true,
		"Truth score: 80":                     true,
		"Tvrzení je Lež. Zdroj: Reuters":      false,
		"https://example.com":                 false,
		"http://example.com/x: a caption":     false,
		"Zdroj: https://example.com":          true,
		"This sentence has many words: really": false,
	}

	for line, expected := range tests {
		if got := isLabelled(line); got != expected {
			t.Errorf("Expected %v for %q, got %v", expected, line, got)
		}
	}
}
