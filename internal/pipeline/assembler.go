package pipeline

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
	"github.com/tidwall/gjson"
)

// AssembleInput is everything the assembler combines into one result
type AssembleInput struct {
	Payload     extract.Payload
	ContentType model.ContentType // Empty means "take it from the payload, else text"
	Settings    model.Settings    // Zero means "take them from the payload, else defaults"
	ClaimHint   string            // Submitted text, used when the analysis names no claim
}

// Assembler combines sniffed, parsed and normalized fragments into a FactCheckResult
type Assembler struct {
	normalizer *score.Normalizer
	parser     *extract.FreeformParser
	sources    *extract.SourceExtractor
	newID      func() string
	now        func() time.Time
}

// AssemblerOption customizes an Assembler
type AssemblerOption func(*Assembler)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) { a.now = now }
}

// WithIDGenerator overrides result id generation
func WithIDGenerator(newID func() string) AssemblerOption {
	return func(a *Assembler) { a.newID = newID }
}

// NewAssembler creates an assembler; nil components fall back to the built-in ones
func NewAssembler(normalizer *score.Normalizer, sources *extract.SourceExtractor, opts ...AssemblerOption) *Assembler {
	if normalizer == nil {
		normalizer = score.NewNormalizer(nil)
	}
	if sources == nil {
		sources = extract.NewSourceExtractor(nil)
	}

	a := &Assembler{
		normalizer: normalizer,
		parser:     extract.NewFreeformParser(normalizer.Vocabulary()),
		sources:    sources,
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble always succeeds: missing information is replaced by documented defaults
func (a *Assembler) Assemble(in AssembleInput) *model.FactCheckResult {
	payload := in.Payload
	if payload == nil {
		payload = extract.FreeformAnalysis{Unrecognized: true}
	}

	var res *model.FactCheckResult
	var doc gjson.Result

	switch p := payload.(type) {
	case extract.StructuredAnalysis:
		doc = p.Doc
		res = a.fromStructured(p.Doc)
	case extract.FreeformAnalysis:
		doc = p.Fields
		res = a.fromFreeform(p)
	default:
		res = a.fromFreeform(extract.FreeformAnalysis{Unrecognized: true})
	}

	res.ID = a.newID()
	res.Timestamp = a.now()
	res.ContentType = resolveContentType(in.ContentType, doc)
	res.Settings = resolveSettings(in.Settings, doc)

	if res.ClaimText == model.ClaimUnknown && strings.TrimSpace(in.ClaimHint) != "" {
		res.ClaimText = extract.DetectClaim(in.ClaimHint)
	}

	enforce(res)
	return res
}

func (a *Assembler) fromStructured(doc gjson.Result) *model.FactCheckResult {
	outcome := a.verdictOf(doc)

	explanation := strings.TrimSpace(extract.Lookup(doc, extract.ExplanationAliases).String())

	structured := a.sources.FromStructured(extract.Lookup(doc, extract.SourceAliases))
	inline := a.sources.FromLinks(a.parser.Parse(explanation).SourceLinks)

	return &model.FactCheckResult{
		ClaimText:  claimOf(doc),
		Verdict:    outcome.Verdict,
		Confidence: outcome.Confidence,
		Analysis: model.Analysis{
			Explanation:             explanation,
			KeyPoints:               keyPointsOf(extract.Lookup(doc, extract.KeyPointAliases)),
			Sources:                 a.sources.Merge(structured, inline),
			AlternativePerspectives: perspectivesOf(extract.Lookup(doc, extract.PerspectiveAliases)),
			SuggestedResponses:      responsesOf(extract.Lookup(doc, extract.ResponseAliases)),
		},
	}
}

func (a *Assembler) fromFreeform(p extract.FreeformAnalysis) *model.FactCheckResult {
	parsed := a.parser.Parse(p.Text)
	freeformSources := a.sources.FromLinks(parsed.SourceLinks)

	if !p.Fields.Exists() {
		outcome := a.normalizer.FromKeyword(parsed.VerdictKeyword, parsed.Score).WithCertainty(parsed.Certainty)
		return &model.FactCheckResult{
			ClaimText:  parsed.ClaimText,
			Verdict:    outcome.Verdict,
			Confidence: outcome.Confidence,
			Analysis: model.Analysis{
				Explanation:             parsed.Explanation,
				KeyPoints:               parsed.KeyPoints,
				Sources:                 freeformSources,
				AlternativePerspectives: []model.Perspective{},
				SuggestedResponses:      []model.SuggestedResponse{},
			},
		}
	}

	// An incomplete object: its recognized fields win, the flattened text fills gaps
	doc := p.Fields
	outcome := a.normalizer.FromKeyword(parsed.VerdictKeyword, parsed.Score).WithCertainty(parsed.Certainty)
	if extract.Lookup(doc, extract.VerdictAliases).Exists() {
		outcome = a.verdictOf(doc)
	}

	claim := claimOf(doc)
	if claim == model.ClaimUnknown {
		claim = parsed.ClaimText
	}

	keyPoints := keyPointsOf(extract.Lookup(doc, extract.KeyPointAliases))
	if len(keyPoints) == 0 {
		keyPoints = parsed.KeyPoints
	}

	return &model.FactCheckResult{
		ClaimText:  claim,
		Verdict:    outcome.Verdict,
		Confidence: outcome.Confidence,
		Analysis: model.Analysis{
			Explanation:             strings.TrimSpace(extract.Lookup(doc, extract.ExplanationAliases).String()),
			KeyPoints:               keyPoints,
			Sources:                 a.sources.Merge(a.sources.FromStructured(extract.Lookup(doc, extract.SourceAliases)), freeformSources),
			AlternativePerspectives: perspectivesOf(extract.Lookup(doc, extract.PerspectiveAliases)),
			SuggestedResponses:      responsesOf(extract.Lookup(doc, extract.ResponseAliases)),
		},
	}
}

func (a *Assembler) verdictOf(doc gjson.Result) score.Outcome {
	var explicit *float64
	if s := extract.Lookup(doc, extract.ScoreAliases); s.Exists() {
		if v, ok := numberOf(s); ok {
			explicit = &v
		}
	}

	var certainty *float64
	if c := extract.Lookup(doc, extract.CertaintyAliases); c.Exists() {
		if v, ok := numberOf(c); ok {
			certainty = &v
		}
	}

	var outcome score.Outcome
	if v := extract.Lookup(doc, extract.VerdictAliases); v.Type == gjson.Number {
		outcome = a.normalizer.FromNumber(v.Float(), explicit)
	} else {
		outcome = a.normalizer.FromLabel(v.String(), explicit)
	}
	return outcome.WithCertainty(certainty)
}

// numberOf reads numeric or numeric-string scores ("0.8", "80%", "4/5")
func numberOf(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		if v := extract.ParseScore(r.String()); v != nil {
			return *v, true
		}
	}
	return 0, false
}

func claimOf(doc gjson.Result) string {
	claim := strings.TrimSpace(extract.Lookup(doc, extract.ClaimAliases).String())
	if claim == "" {
		return model.ClaimUnknown
	}
	return claim
}

func keyPointsOf(r gjson.Result) []string {
	points := []string{}
	if r.Type == gjson.String {
		if s := strings.TrimSpace(r.String()); s != "" {
			points = append(points, s)
		}
		return points
	}
	for _, item := range r.Array() {
		s := item.String()
		if item.IsObject() {
			s = extract.Lookup(item, []string{"text", "point", "description", "content"}).String()
		}
		if s = strings.TrimSpace(s); s != "" {
			points = append(points, s)
		}
	}
	return points
}

func perspectivesOf(r gjson.Result) []model.Perspective {
	perspectives := []model.Perspective{}
	for _, item := range r.Array() {
		var p model.Perspective
		if item.IsObject() {
			p = model.Perspective{
				Title:       strings.TrimSpace(extract.Lookup(item, []string{"title", "name", "nazev"}).String()),
				Description: strings.TrimSpace(extract.Lookup(item, []string{"description", "text", "content", "popis"}).String()),
				Type:        strings.TrimSpace(extract.Lookup(item, []string{"type", "typ"}).String()),
			}
		} else {
			p.Description = strings.TrimSpace(item.String())
		}
		if p.Description == "" && p.Title == "" {
			continue
		}
		perspectives = append(perspectives, p)
	}
	return perspectives
}

func responsesOf(r gjson.Result) []model.SuggestedResponse {
	responses := []model.SuggestedResponse{}
	for _, item := range r.Array() {
		var sr model.SuggestedResponse
		if item.IsObject() {
			sr = model.SuggestedResponse{
				Type: strings.TrimSpace(extract.Lookup(item, []string{"type", "typ", "style"}).String()),
				Text: strings.TrimSpace(extract.Lookup(item, []string{"text", "content", "response"}).String()),
			}
		} else {
			sr.Text = strings.TrimSpace(item.String())
		}
		if sr.Text == "" {
			continue
		}
		responses = append(responses, sr)
	}
	return responses
}

func resolveContentType(requested model.ContentType, doc gjson.Result) model.ContentType {
	if requested.IsValid() {
		return requested
	}
	if ct := model.ContentType(extract.Lookup(doc, extract.ContentTypeAliases).String()); ct.IsValid() {
		return ct
	}
	return model.ContentText
}

func resolveSettings(requested model.Settings, doc gjson.Result) model.Settings {
	if !requested.IsZero() {
		return requested.WithDefaults()
	}

	fromDoc := model.Settings{
		ExpertiseLevel: model.ExpertiseLevel(extract.Lookup(doc, extract.ExpertiseAliases).String()),
		AnalysisLength: model.AnalysisLength(extract.Lookup(doc, extract.LengthAliases).String()),
	}
	if fromDoc.Validate() != nil {
		return model.DefaultSettings()
	}
	return fromDoc.WithDefaults()
}

// enforce applies the result invariants before the result leaves the assembler
func enforce(res *model.FactCheckResult) {
	if !res.Verdict.IsValid() {
		res.Verdict = model.VerdictUnknown
	}
	res.Confidence = score.Clamp(res.Confidence)
	if !res.Verdict.ConfidenceMeaningful() && res.Verdict != model.VerdictUnknown {
		res.Confidence = model.DefaultConfidence
	}

	if strings.TrimSpace(res.ClaimText) == "" {
		res.ClaimText = model.ClaimUnknown
	}
	if strings.TrimSpace(res.Analysis.Explanation) == "" {
		res.Analysis.Explanation = model.ExplanationPlaceholder
	}

	if res.Analysis.KeyPoints == nil {
		res.Analysis.KeyPoints = []string{}
	}
	if res.Analysis.Sources == nil {
		res.Analysis.Sources = []model.Source{}
	}
	if res.Analysis.AlternativePerspectives == nil {
		res.Analysis.AlternativePerspectives = []model.Perspective{}
	}
	if res.Analysis.SuggestedResponses == nil {
		res.Analysis.SuggestedResponses = []model.SuggestedResponse{}
	}
}
