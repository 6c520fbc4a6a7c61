package export

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// Text flattens a result into a readable block.
// Sections always appear in the order header, verdict, explanation, key points, sources.
func Text(res *model.FactCheckResult) string {
	var b strings.Builder
	info := res.Verdict.Info()

	rule := strings.Repeat("=", 60)
	b.WriteString(rule + "\n")
	b.WriteString("FACT-CHECK RESULT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "ID:      %s\n", res.ID)
	fmt.Fprintf(&b, "Date:    %s\n", res.Timestamp.UTC().Format(timeLayout))
	fmt.Fprintf(&b, "Content: %s\n", res.ContentType)
	fmt.Fprintf(&b, "Claim:   %s\n", res.ClaimText)
	b.WriteString("\n")

	b.WriteString("VERDICT\n")
	fmt.Fprintf(&b, "%s (%s)\n", info.Label, res.Verdict)
	if res.Verdict.ConfidenceMeaningful() {
		fmt.Fprintf(&b, "Truth score: %d %%\n", percent(res.Confidence))
	}
	b.WriteString("\n")

	b.WriteString("EXPLANATION\n")
	b.WriteString(strings.TrimSpace(res.Analysis.Explanation) + "\n")
	b.WriteString("\n")

	b.WriteString("KEY POINTS\n")
	if len(res.Analysis.KeyPoints) == 0 {
		b.WriteString("(none)\n")
	}
	for i, point := range res.Analysis.KeyPoints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, point)
	}
	b.WriteString("\n")

	b.WriteString("SOURCES\n")
	if len(res.Analysis.Sources) == 0 {
		b.WriteString("(none)\n")
	}
	for i, src := range res.Analysis.Sources {
		fmt.Fprintf(&b, "%d. %s - %s [%s, %d/5]\n", i+1, sourceTitle(src), src.URL, model.ReliabilityLevel(src.ReliabilityScore), src.Stars())
	}

	return b.String()
}

// Markdown renders a result as a markdown document, also the input of HTML and document exports
func Markdown(res *model.FactCheckResult, title string) string {
	var b strings.Builder
	info := res.Verdict.Info()

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Claim:** %s\n\n", escapeMarkdown(res.ClaimText))
	fmt.Fprintf(&b, "*%s · %s · %s*\n\n", res.ID, res.Timestamp.UTC().Format(timeLayout), res.ContentType)

	b.WriteString("## Verdict\n\n")
	fmt.Fprintf(&b, "**%s** (`%s`)", info.Label, res.Verdict)
	if res.Verdict.ConfidenceMeaningful() {
		fmt.Fprintf(&b, " · truth score %d %%", percent(res.Confidence))
	}
	b.WriteString("\n\n")
	if info.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", info.Description)
	}

	b.WriteString("## Explanation\n\n")
	b.WriteString(strings.TrimSpace(res.Analysis.Explanation) + "\n\n")

	if len(res.Analysis.KeyPoints) > 0 {
		b.WriteString("## Key points\n\n")
		for _, point := range res.Analysis.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", point)
		}
		b.WriteString("\n")
	}

	if len(res.Analysis.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		b.WriteString("| Source | Reliability | Kind |\n")
		b.WriteString("|---|---|---|\n")
		for _, src := range res.Analysis.Sources {
			kind := string(src.Kind)
			if kind == "" {
				kind = "-"
			}
			name := escapeTable(sourceTitle(src))
			if target := linkTarget(src.URL); target != "" {
				name = fmt.Sprintf("[%s](%s)", name, target)
			}
			fmt.Fprintf(&b, "| %s | %s (%d/5) | %s |\n",
				name, model.ReliabilityLevel(src.ReliabilityScore), src.Stars(), kind)
		}
		b.WriteString("\n")
	}

	if len(res.Analysis.AlternativePerspectives) > 0 {
		b.WriteString("## Alternative perspectives\n\n")
		for _, p := range res.Analysis.AlternativePerspectives {
			if p.Title != "" {
				fmt.Fprintf(&b, "- **%s**: %s\n", p.Title, p.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", p.Description)
			}
		}
		b.WriteString("\n")
	}

	if len(res.Analysis.SuggestedResponses) > 0 {
		b.WriteString("## Suggested responses\n\n")
		for _, r := range res.Analysis.SuggestedResponses {
			if r.Type != "" {
				fmt.Fprintf(&b, "- *%s*: %s\n", r.Type, r.Text)
			} else {
				fmt.Fprintf(&b, "- %s\n", r.Text)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\nExpertise: %s · Length: %s\n", res.Settings.ExpertiseLevel, res.Settings.AnalysisLength)
	return b.String()
}

func percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

// linkTarget returns raw when it is an absolute http(s) URL, "" otherwise
func linkTarget(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ""
	}
	return parsed.String()
}

func sourceTitle(src model.Source) string {
	if src.Title != "" {
		return src.Title
	}
	return src.URL
}

var markdownEscaper = strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[", "]", "\\]")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeTable(s string) string {
	return strings.ReplaceAll(escapeMarkdown(s), "|", "\\|")
}
