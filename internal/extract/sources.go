package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
	"github.com/ppiankov/factcheck/internal/validate"
	"github.com/tidwall/gjson"
)

var (
	sourceURLKeys     = []string{"url", "link", "href", "source_url", "odkaz"}
	sourceTitleKeys   = []string{"name", "title", "název", "nazev", "source", "publisher"}
	sourceOrdinalKeys = []string{"reliability", "spolehlivost", "relevance", "rating", "stars", "credibility"}
	sourceScoreKeys   = []string{"reliability_score", "reliabilityScore", "trust_score", "credibility_score"}
	sourceKindKeys    = []string{"kind", "type", "typ", "category"}
)

// reliabilityLevels maps textual reliabilities onto ordinals; longer phrases first
var reliabilityLevels = []struct {
	phrase  string
	ordinal int
}{
	{"velmi vysoka", 5},
	{"very high", 5},
	{"oficialni", 5},
	{"official", 5},
	{"velmi nizka", 1},
	{"very low", 1},
	{"neduveryhodn", 1},
	{"unreliable", 1},
	{"vysoka", 4},
	{"high", 4},
	{"stredni", 3},
	{"medium", 3},
	{"moderate", 3},
	{"nizka", 2},
	{"low", 2},
}

// TextualReliability converts a textual reliability level to an ordinal, 0 when unknown
func TextualReliability(level string) int {
	folded := strings.TrimSpace(score.Fold(level))
	for _, l := range reliabilityLevels {
		if strings.HasPrefix(folded, l.phrase) {
			return l.ordinal
		}
	}
	return 0
}

// SourceExtractor harvests citations from structured lists and freeform links
type SourceExtractor struct {
	classifier *validate.AuthorityClassifier
}

// NewSourceExtractor creates an extractor; kinds missing upstream come from the classifier
func NewSourceExtractor(classifier *validate.AuthorityClassifier) *SourceExtractor {
	if classifier == nil {
		classifier = validate.NewAuthorityClassifier(nil)
	}
	return &SourceExtractor{classifier: classifier}
}

// FromStructured reads a structured source list. Entries without an http(s) URL are dropped.
func (e *SourceExtractor) FromStructured(list gjson.Result) []model.Source {
	sources := []model.Source{}
	if !list.Exists() {
		return sources
	}

	items := list.Array()
	if list.IsObject() {
		items = []gjson.Result{list}
	}

	for _, item := range items {
		var src model.Source
		var ok bool
		switch {
		case item.IsObject():
			src, ok = e.fromObject(item)
		case item.Type == gjson.String:
			src, ok = e.fromString(item.String())
		}
		if ok {
			sources = append(sources, src)
		}
	}

	return dedupeSources(sources)
}

func (e *SourceExtractor) fromObject(item gjson.Result) (model.Source, bool) {
	rawURL := strings.TrimSpace(Lookup(item, sourceURLKeys).String())
	if absoluteHTTP(rawURL) == "" {
		return model.Source{}, false
	}

	src := model.Source{
		Title: strings.TrimSpace(Lookup(item, sourceTitleKeys).String()),
		URL:   rawURL,
	}
	if src.Title == "" {
		src.Title = HostTitle(rawURL)
	}

	ordinal, ordinalScore := parseReliability(Lookup(item, sourceOrdinalKeys))
	explicit, hasScore := parseReliabilityScore(Lookup(item, sourceScoreKeys))
	switch {
	case ordinal > 0:
		src = src.WithReliability(ordinal)
		if hasScore {
			src.ReliabilityScore = explicit
		}
	case hasScore:
		src.ReliabilityScore = explicit
	case ordinalScore >= 0:
		src.ReliabilityScore = ordinalScore
	default:
		src = src.WithReliability(model.DefaultReliability)
	}

	src.Kind = validate.KindFromType(Lookup(item, sourceKindKeys).String())
	if src.Kind == "" {
		src.Kind = e.classifier.Classify(rawURL)
	}

	return src, true
}

// fromString accepts "[title](url)", "title - url" or a bare URL
func (e *SourceExtractor) fromString(s string) (model.Source, bool) {
	if m := markdownLinkPattern.FindStringSubmatch(s); m != nil {
		return e.fromLink(Link{Title: m[1], URL: m[2], Ordinal: ReliabilitySignal(stripURLs(s))}), true
	}

	rawURL := bareURLPattern.FindString(s)
	if rawURL == "" {
		return model.Source{}, false
	}
	rawURL = strings.TrimRight(rawURL, ".,;:!?")

	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(stripURLs(s)), "-–:()"))
	if title == "" {
		title = HostTitle(rawURL)
	}
	return e.fromLink(Link{Title: title, URL: rawURL, Ordinal: ReliabilitySignal(stripURLs(s))}), true
}

// FromLinks converts freeform links; links without a signal get the midpoint ordinal
func (e *SourceExtractor) FromLinks(links []Link) []model.Source {
	sources := make([]model.Source, 0, len(links))
	for _, l := range links {
		if absoluteHTTP(strings.TrimSpace(l.URL)) == "" {
			continue
		}
		sources = append(sources, e.fromLink(l))
	}
	return dedupeSources(sources)
}

func (e *SourceExtractor) fromLink(l Link) model.Source {
	ordinal := l.Ordinal
	if ordinal < 1 || ordinal > 5 {
		ordinal = model.DefaultReliability
	}
	title := strings.TrimSpace(l.Title)
	if title == "" {
		title = HostTitle(l.URL)
	}
	src := model.Source{Title: title, URL: strings.TrimSpace(l.URL)}.WithReliability(ordinal)
	src.Kind = e.classifier.Classify(src.URL)
	return src
}

// Merge combines structured and freeform sources. Structured entries win on a shared
// URL and first-seen order is preserved.
func (e *SourceExtractor) Merge(structured, freeform []model.Source) []model.Source {
	all := make([]model.Source, 0, len(structured)+len(freeform))
	all = append(all, structured...)
	all = append(all, freeform...)
	return dedupeSources(all)
}

func dedupeSources(sources []model.Source) []model.Source {
	seen := make(map[string]bool)
	unique := make([]model.Source, 0, len(sources))
	for _, s := range sources {
		key := NormalizeURL(s.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, s)
	}
	return unique
}

// parseReliability reads an ordinal-style field. It returns the ordinal, or -1 and a
// normalized score when the value is clearly a fraction or percentage.
func parseReliability(r gjson.Result) (int, float64) {
	switch r.Type {
	case gjson.Number:
		return numericReliability(r.Float())
	case gjson.String:
		s := strings.TrimSpace(r.String())
		if m := ratioPattern.FindStringSubmatch(s); m != nil {
			if v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
				return numericReliability(math.Round(v))
			}
		}
		if v, err := strconv.ParseFloat(strings.TrimSuffix(strings.Replace(s, ",", ".", 1), "%"), 64); err == nil {
			if strings.HasSuffix(s, "%") {
				return 0, score.Clamp(v / 100)
			}
			return numericReliability(v)
		}
		if stars := strings.Count(s, "★"); stars >= 1 && stars <= 5 {
			return stars, -1
		}
		if ordinal := TextualReliability(s); ordinal > 0 {
			return ordinal, -1
		}
	}
	return 0, -1
}

func numericReliability(v float64) (int, float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, -1
	}
	if v >= 1 && v <= 5 && v == math.Trunc(v) {
		return int(v), -1
	}
	if normalized, ok := score.NormalizeScore(v); ok {
		return 0, normalized
	}
	return 0, -1
}

func parseReliabilityScore(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return score.NormalizeScore(r.Float())
	case gjson.String:
		s := strings.TrimSpace(r.String())
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.Replace(s, ",", ".", 1), "%"), 64)
		if err != nil {
			return 0, false
		}
		if strings.HasSuffix(s, "%") {
			v /= 100
		}
		return score.NormalizeScore(v)
	}
	return 0, false
}
