package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
)

// FreeformParse is the partial record recovered from unstructured analysis text
type FreeformParse struct {
	ClaimText      string
	VerdictKeyword *score.Match
	Score          *float64 // Explicit "Truth score:" line, nil when absent
	Certainty      *float64 // "Confidence:"/"Jistota:" line, the provider's certainty in its verdict
	Explanation    string
	SourceLinks    []Link
	KeyPoints      []string
}

// FreeformParser extracts claim, verdict keyword, explanation and links from prose
type FreeformParser struct {
	vocab *score.Vocabulary
}

// NewFreeformParser creates a parser over the given vocabulary (nil means built-in)
func NewFreeformParser(vocab *score.Vocabulary) *FreeformParser {
	if vocab == nil {
		vocab = score.DefaultVocabulary()
	}
	return &FreeformParser{vocab: vocab}
}

var (
	bulletPattern = regexp.MustCompile(`^\s*(?:[-*•–]|\d{1,2}[.)])\s+(.+)$`)
	ratioPattern  = regexp.MustCompile(`(\d(?:[.,]\d+)?)\s*/\s*5\b`)
	numberPattern = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
)

var (
	verdictLabels   = []string{"verdict", "verdikt", "hodnoceni", "rating", "truth rating"}
	claimLabels     = []string{"claim", "tvrzeni"}
	scoreLabels     = []string{"truth score", "skore pravdivosti", "skore", "score"}
	certaintyLabels = []string{"confidence", "jistota", "mira jistoty", "certainty"}
)

// Parse never fails; empty input yields an all-default record
func (p *FreeformParser) Parse(text string) FreeformParse {
	out := FreeformParse{
		ClaimText:   model.ClaimUnknown,
		SourceLinks: []Link{},
		KeyPoints:   []string{},
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}

	var anchors []Link
	if LooksLikeHTML(text) {
		anchors = AnchorLinks(text)
		text = VisibleText(text)
	}

	out.Explanation = CollapseLinks(text)
	out.SourceLinks = DedupeLinks(append(anchors, p.links(text)...))

	var verdictValues []string
	var scanLines []string
	claim := ""

	for _, line := range strings.Split(out.Explanation, "\n") {
		trimmed := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*_"))
		if trimmed == "" {
			continue
		}

		if label, value, ok := splitLabel(trimmed); ok {
			switch {
			case containsLabel(verdictLabels, label):
				verdictValues = append(verdictValues, value)
				continue
			case containsLabel(claimLabels, label):
				if claim == "" && value != "" {
					claim = value
				}
				continue
			case containsLabel(scoreLabels, label):
				if out.Score == nil {
					out.Score = ParseScore(value)
				}
				continue
			case containsLabel(certaintyLabels, label):
				if out.Certainty == nil {
					out.Certainty = ParseScore(value)
				}
				continue
			}
		}

		if m := bulletPattern.FindStringSubmatch(line); m != nil && !bareURLPattern.MatchString(m[1]) {
			out.KeyPoints = append(out.KeyPoints, strings.TrimSpace(m[1]))
		}
		scanLines = append(scanLines, stripURLs(trimmed))
	}

	for _, value := range verdictValues {
		if verdict, ok := p.vocab.Lookup(value); ok {
			out.VerdictKeyword = &score.Match{Verdict: verdict, Phrase: strings.TrimSpace(value)}
			break
		}
		if m, ok := p.vocab.Scan(value); ok {
			out.VerdictKeyword = &m
			break
		}
	}
	if out.VerdictKeyword == nil {
		if m, ok := p.vocab.Scan(strings.Join(scanLines, "\n")); ok {
			out.VerdictKeyword = &m
		}
	}

	if claim != "" && utf8.RuneCountInString(claim) <= maxClaimRunes {
		out.ClaimText = claim
	} else {
		out.ClaimText = DetectClaim(out.Explanation)
	}

	return out
}

// links returns markdown links and bare URLs in order of appearance
func (p *FreeformParser) links(text string) []Link {
	type positioned struct {
		pos  int
		link Link
	}
	var found []positioned

	masked := []byte(text)
	for _, m := range markdownLinkPattern.FindAllStringSubmatchIndex(text, -1) {
		title := strings.TrimSpace(text[m[2]:m[3]])
		u := text[m[4]:m[5]]
		found = append(found, positioned{m[0], Link{Title: title, URL: u, Ordinal: signalAt(text, m[0], m[1])}})
		for i := m[0]; i < m[1]; i++ {
			masked[i] = ' '
		}
	}

	for _, m := range bareURLPattern.FindAllStringIndex(string(masked), -1) {
		u := strings.TrimRight(text[m[0]:m[1]], ".,;:!?")
		found = append(found, positioned{m[0], Link{Title: HostTitle(u), URL: u, Ordinal: signalAt(text, m[0], m[1])}})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	links := make([]Link, len(found))
	for i, f := range found {
		links[i] = f.link
	}
	return links
}

// signalAt reads a reliability signal from the line around text[start:end]
func signalAt(text string, start, end int) int {
	lineStart := strings.LastIndex(text[:start], "\n") + 1
	lineEnd := len(text)
	if idx := strings.Index(text[end:], "\n"); idx >= 0 {
		lineEnd = end + idx
	}
	line := text[lineStart:start] + " " + text[end:lineEnd]
	return ReliabilitySignal(stripURLs(line))
}

// ReliabilitySignal finds a 1-5 reliability ordinal in a line of text, 0 when none
func ReliabilitySignal(line string) int {
	if m := ratioPattern.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil && v >= 1 && v <= 5 {
			return int(v + 0.5)
		}
	}

	if stars := strings.Count(line, "★"); stars >= 1 && stars <= 5 {
		return stars
	}

	folded := score.Fold(line)
	for _, key := range []string{"spolehlivost", "reliability", "duveryhodnost"} {
		if idx := strings.Index(folded, key); idx >= 0 {
			rest := strings.TrimLeft(folded[idx+len(key):], " :-=")
			if ordinal := TextualReliability(firstWords(rest, 3)); ordinal > 0 {
				return ordinal
			}
		}
	}
	switch {
	case strings.Contains(folded, "neduveryhodn"), strings.Contains(folded, "unreliable"):
		return 1
	case strings.Contains(folded, "oficialni"), strings.Contains(folded, "official"):
		return 5
	}
	return 0
}

// CollapseLinks rewrites [title](url) as "title (url)"
func CollapseLinks(text string) string {
	return markdownLinkPattern.ReplaceAllString(text, "$1 ($2)")
}

// splitLabel splits "Label: value" lines; the label is returned folded
func splitLabel(line string) (string, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 || !isLabelled(line) {
		return "", "", false
	}
	label := strings.Join(score.Words(line[:idx]), " ")
	value := strings.TrimSpace(strings.Trim(strings.TrimSpace(line[idx+1:]), "*_"))
	return label, value, true
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// ParseScore reads "0.8", "80 %", "0,8" or "4/5" into [0,1], nil when value holds no number
func ParseScore(value string) *float64 {
	if m := ratioPattern.FindStringSubmatch(value); m != nil {
		if v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
			s := score.Clamp(v / 5)
			return &s
		}
	}

	raw := numberPattern.FindString(value)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	if strings.Contains(value, "%") {
		v /= 100
	}
	normalized, ok := score.NormalizeScore(v)
	if !ok {
		return nil
	}
	return &normalized
}

func stripURLs(s string) string {
	return bareURLPattern.ReplaceAllString(s, " ")
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
