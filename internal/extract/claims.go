package extract

import (
	"strings"
	"unicode"

	"github.com/ppiankov/factcheck/internal/model"
)

// maxClaimRunes bounds the leading sentence accepted as a claim
const maxClaimRunes = 400

// DetectClaim returns the claim under review: the text up to and including the first
// sentence terminator, or model.ClaimUnknown when none occurs within maxClaimRunes.
// Headings and lines carrying a label ("Verdikt: …", "Sources: …") are skipped.
func DetectClaim(text string) string {
	var body []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(stripBullet(line)), "*_"))
		if line == "" || strings.HasPrefix(line, "#") || isLabelled(line) {
			continue
		}
		body = append(body, line)
	}

	if sentence, ok := firstSentence(strings.Join(body, " ")); ok {
		return sentence
	}
	return model.ClaimUnknown
}

// firstSentence ends at a terminator followed by whitespace or the end of the text
func firstSentence(text string) (string, bool) {
	runes := []rune(text)
	for i, r := range runes {
		if i >= maxClaimRunes {
			break
		}
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			return strings.TrimSpace(string(runes[:i+1])), true
		}
	}
	return "", false
}

// isLabelled reports whether a line starts with "Label:" (at most three words before the colon)
func isLabelled(line string) bool {
	idx := strings.Index(line, ":")
	if idx <= 0 || idx > 40 {
		return false
	}
	// "https://…" is a URL, not a label
	if strings.HasPrefix(line[idx+1:], "//") {
		return false
	}
	head := line[:idx]
	if strings.ContainsAny(head, ".!?") {
		return false
	}
	return len(strings.Fields(head)) <= 3
}

func stripBullet(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	for _, prefix := range []string{"- ", "* ", "• ", "– "} {
		if strings.HasPrefix(trimmed, prefix) {
			return trimmed[len(prefix):]
		}
	}
	return trimmed
}
