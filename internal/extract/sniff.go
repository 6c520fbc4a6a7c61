package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Format classifies a raw analysis payload
type Format string

const (
	FormatStructured Format = "structured"
	FormatFreeform   Format = "freeform"
)

// Payload is the closed set of sniffed analysis shapes: StructuredAnalysis or FreeformAnalysis
type Payload interface {
	Format() Format
	isPayload()
}

// StructuredAnalysis is a JSON object exposing at least a verdict and an explanation
type StructuredAnalysis struct {
	Doc gjson.Result
}

// FreeformAnalysis is unstructured text. Fields holds a JSON object that was too incomplete
// to count as structured; its recognized fields are still honoured downstream.
type FreeformAnalysis struct {
	Text         string
	Fields       gjson.Result
	Unrecognized bool // No complete analysis: an empty payload or an incomplete object
}

func (StructuredAnalysis) Format() Format { return FormatStructured }
func (FreeformAnalysis) Format() Format   { return FormatFreeform }
func (StructuredAnalysis) isPayload()     {}
func (FreeformAnalysis) isPayload()       {}

// Field aliases observed across provider revisions, tried in order
var (
	VerdictAliases = []string{
		"truth_rating", "verdict", "truthRating", "rating", "verdikt", "hodnocení", "hodnoceni",
		"analysis.verdict", "result.verdict", "classification",
	}
	ExplanationAliases = []string{
		"analysis.detailed_explanation", "detailed_explanation", "explanation", "detailedExplanation",
		"analysis.explanation", "vysvětlení", "vysvetleni", "reasoning", "summary",
	}
	ScoreAliases = []string{
		"truth_score", "truthScore", "score", "analysis.truth_score", "skóre_pravdivosti",
	}
	// CertaintyAliases name how sure the provider is of its verdict, not how true the claim is
	CertaintyAliases = []string{
		"confidence", "jistota", "míra_jistoty", "certainty", "analysis.confidence",
	}
	ClaimAliases = []string{
		"content_summary", "claim", "claim_text", "claimText", "tvrzení", "tvrzeni", "statement",
	}
	KeyPointAliases = []string{
		"analysis.key_points", "key_points", "keyPoints", "klíčové_body", "evidence", "evidences",
	}
	SourceAliases = []string{
		"analysis.sources", "sources", "zdroje", "citations", "references",
	}
	PerspectiveAliases = []string{
		"analysis.alternative_perspectives", "alternative_perspectives", "alternativePerspectives",
		"alternative_interpretations",
	}
	ResponseAliases = []string{
		"analysis.suggested_responses", "suggested_responses", "suggestedResponses",
	}
	ContentTypeAliases = []string{"content_type", "contentType"}
	ExpertiseAliases   = []string{"settings.expertise_level", "settings.expertiseLevel", "expertise_level"}
	LengthAliases      = []string{"settings.analysis_length", "settings.analysisLength", "analysis_length"}
)

var allAliases = [][]string{
	VerdictAliases, ExplanationAliases, ScoreAliases, CertaintyAliases, ClaimAliases, KeyPointAliases,
	SourceAliases, PerspectiveAliases, ResponseAliases,
}

// Lookup returns the first alias present with a non-null value
func Lookup(doc gjson.Result, aliases []string) gjson.Result {
	for _, alias := range aliases {
		if r := doc.Get(alias); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

// Sniff classifies a raw payload. It never fails: anything without a recognizable
// verdict and explanation resolves to FreeformAnalysis.
func Sniff(raw any) Payload {
	switch v := raw.(type) {
	case nil:
		return FreeformAnalysis{Unrecognized: true}
	case Payload:
		return v
	case string:
		return sniffString(v)
	case []byte:
		return sniffString(string(v))
	case json.RawMessage:
		return sniffString(string(v))
	case gjson.Result:
		return sniffDoc(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return FreeformAnalysis{Unrecognized: true}
		}
		return sniffDoc(gjson.ParseBytes(data))
	}
}

func sniffString(s string) Payload {
	text := strings.TrimSpace(s)
	if text == "" {
		return FreeformAnalysis{Unrecognized: true}
	}

	if obj, ok := ExtractJSONObject(text); ok {
		doc := gjson.Parse(obj)
		if isStructured(doc) {
			return StructuredAnalysis{Doc: doc}
		}
		if recognized(doc) {
			return FreeformAnalysis{Text: flatten(doc), Fields: doc, Unrecognized: true}
		}
	}

	return FreeformAnalysis{Text: text}
}

func sniffDoc(doc gjson.Result) Payload {
	if doc.Type == gjson.String {
		return sniffString(doc.String())
	}
	if doc.IsObject() && isStructured(doc) {
		return StructuredAnalysis{Doc: doc}
	}

	// Degraded object: keep whatever fields are recognizable
	text := flatten(doc)
	ff := FreeformAnalysis{Text: text, Unrecognized: true}
	if doc.IsObject() && recognized(doc) {
		ff.Fields = doc
	}
	return ff
}

func isStructured(doc gjson.Result) bool {
	return doc.IsObject() && Lookup(doc, VerdictAliases).Exists() && Lookup(doc, ExplanationAliases).Exists()
}

func recognized(doc gjson.Result) bool {
	if !doc.IsObject() {
		return false
	}
	for _, aliases := range allAliases {
		if Lookup(doc, aliases).Exists() {
			return true
		}
	}
	return false
}

// flatten joins the string leaves of a JSON value in document order
func flatten(doc gjson.Result) string {
	var parts []string
	var walk func(r gjson.Result)
	walk = func(r gjson.Result) {
		switch {
		case r.IsObject() || r.IsArray():
			r.ForEach(func(_, value gjson.Result) bool {
				walk(value)
				return true
			})
		case r.Type == gjson.String:
			if s := strings.TrimSpace(r.String()); s != "" {
				parts = append(parts, s)
			}
		}
	}
	walk(doc)
	return strings.Join(parts, "\n")
}

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSONObject unwraps a JSON object from fenced or chatty text
func ExtractJSONObject(text string) (string, bool) {
	candidate := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return "", false
	}

	candidate = candidate[start : end+1]
	if !gjson.Valid(candidate) {
		return "", false
	}
	return candidate, true
}
