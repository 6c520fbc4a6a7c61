package extract

import (
	"testing"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestExtractor() *SourceExtractor {
	return NewSourceExtractor(validate.NewAuthorityClassifier(&model.AuthorityConfig{}))
}

func TestSourceExtractor_FromStructured(t *testing.T) {
	e := newTestExtractor()

	list := gjson.Parse(`[
		{"name": "ČSÚ", "url": "https://www.czso.cz/inflace", "reliability": 5},
		{"title": "Blog", "link": "https://blog.example.net/post", "reliability": "Nízká", "type": "blog"},
		{"name": "Reuters", "url": "https://reuters.com/x", "reliability_score": 0.9},
		{"name": "Percent", "url": "https://example.org/p", "reliability": 80},
		{"name": "Stars", "url": "https://example.org/s", "reliability": "★★★★"},
		{"name": "No URL", "reliability": 5},
		{"url": "https://demagog.cz/vyrok/1"},
		"[iROZHLAS](https://irozhlas.cz/a) 4/5",
		"Seznam Zprávy - https://seznamzpravy.cz/b",
		"text only"
	]`)

	sources := e.FromStructured(list)
	require.Len(t, sources, 8)

	assert.Equal(t, model.Source{Title: "ČSÚ", URL: "https://www.czso.cz/inflace", Reliability: 5, ReliabilityScore: 1, Kind: model.SourceKindPrimary}, sources[0])

	assert.Equal(t, 2, sources[1].Reliability)
	assert.Equal(t, 0.25, sources[1].ReliabilityScore)
	assert.Equal(t, model.SourceKindOther, sources[1].Kind)

	assert.Equal(t, 0, sources[2].Reliability, "a normalized score alone keeps no ordinal")
	assert.Equal(t, 0.9, sources[2].ReliabilityScore)
	assert.Equal(t, 5, sources[2].Stars())
	assert.Equal(t, model.SourceKindSecondary, sources[2].Kind)

	assert.Equal(t, 0.8, sources[3].ReliabilityScore)
	assert.Equal(t, 4, sources[4].Reliability)

	assert.Equal(t, "demagog.cz", sources[5].Title)
	assert.Equal(t, model.DefaultReliability, sources[5].Reliability)
	assert.Equal(t, 0.5, sources[5].ReliabilityScore)

	assert.Equal(t, "iROZHLAS", sources[6].Title)
	assert.Equal(t, 4, sources[6].Reliability)

	assert.Equal(t, "Seznam Zprávy", sources[7].Title)
	assert.Equal(t, "https://seznamzpravy.cz/b", sources[7].URL)
}

func TestSourceExtractor_DropsNonHTTPURLs(t *testing.T) {
	e := newTestExtractor()

	list := gjson.Parse(`[
		{"name": "Trap", "url": "javascript:alert(1)", "reliability": 5},
		{"name": "Data", "url": "data:text/html;base64,PHNjcmlwdD4=", "reliability": 5},
		{"name": "Relative", "url": "/wiki/x"},
		{"name": "WHO", "url": "https://www.who.int/x"}
	]`)

	sources := e.FromStructured(list)
	require.Len(t, sources, 1)
	assert.Equal(t, "WHO", sources[0].Title)

	links := e.FromLinks([]Link{{Title: "Trap", URL: "javascript:alert(1)"}, {Title: "ok", URL: "http://example.org"}})
	require.Len(t, links, 1)
	assert.Equal(t, "http://example.org", links[0].URL)
}

func TestSourceExtractor_FromStructuredEmpty(t *testing.T) {
	e := newTestExtractor()

	for _, raw := range []string{`[]`, `null`, ``} {
		sources := e.FromStructured(gjson.Parse(raw))
		assert.NotNil(t, sources)
		assert.Empty(t, sources)
	}
}

func TestSourceExtractor_FromLinksDefaultsToMidpoint(t *testing.T) {
	e := newTestExtractor()

	sources := e.FromLinks([]Link{
		{Title: "Reuters", URL: "https://reuters.com/x"},
		{Title: "Official", URL: "https://mzcr.cz/y", Ordinal: 5},
		{Title: "Empty", URL: ""},
	})

	require.Len(t, sources, 2)
	assert.Equal(t, 3, sources[0].Reliability)
	assert.Equal(t, 0.5, sources[0].ReliabilityScore)
	assert.Equal(t, 5, sources[1].Reliability)
	assert.Equal(t, 1.0, sources[1].ReliabilityScore)
	assert.Equal(t, model.SourceKindPrimary, sources[1].Kind)
}

func TestSourceExtractor_MergePrefersStructured(t *testing.T) {
	e := newTestExtractor()

	structured := e.FromStructured(gjson.Parse(`[{"name": "Reuters (structured)", "url": "https://reuters.com/x", "reliability": 5}]`))
	freeform := e.FromLinks([]Link{
		{Title: "Reuters (freeform)", URL: "https://www.reuters.com/x/"},
		{Title: "AP", URL: "https://apnews.com/y"},
	})

	merged := e.Merge(structured, freeform)

	require.Len(t, merged, 2)
	assert.Equal(t, "Reuters (structured)", merged[0].Title)
	assert.Equal(t, 5, merged[0].Reliability)
	assert.Equal(t, "AP", merged[1].Title)
}

func TestSourceExtractor_ExportedSourcesReparse(t *testing.T) {
	e := newTestExtractor()

	in := []model.Source{
		model.Source{Title: "A", URL: "https://a.cz/1", Kind: model.SourceKindSecondary}.WithReliability(4),
		{Title: "B", URL: "https://b.cz/2", ReliabilityScore: 0.7, Kind: model.SourceKindOther},
	}

	doc := gjson.Parse(`[{"name":"A","url":"https://a.cz/1","reliability":4,"reliability_score":0.75,"kind":"secondary"},` +
		`{"name":"B","url":"https://b.cz/2","reliability_score":0.7,"kind":"other"}]`)

	assert.Equal(t, in, e.FromStructured(doc))
}

func TestTextualReliability(t *testing.T) {
	tests := map[string]int{
		"Velmi vysoká":        5,
		"Vysoká":              4,
		"high":                4,
		"Oficiální":           5,
		"Střední":             3,
		"medium":              3,
		"Nízká":               2,
		"Velmi nízká":         1,
		"Nedůvěryhodný zdroj": 1,
		"whatever":            0,
	}

	for level, expected := range tests {
		if got := TextualReliability(level); got != expected {
			t.Errorf("Expected %d for %q, got %d", expected, level, got)
		}
	}
}
