package score

import (
	"math"

	"github.com/ppiankov/factcheck/internal/model"
)

// Seeds are the truth scores used when the source supplies only a label.
// Values are strictly ordered along the true <-> false scale.
var Seeds = map[model.Verdict]float64{
	model.VerdictTrue:             0.95,
	model.VerdictMostlyTrue:       0.75,
	model.VerdictPartiallyTrue:    0.5,
	model.VerdictMisleading:       0.5,
	model.VerdictMostlyFalse:      0.25,
	model.VerdictFalse:            0.05,
	model.VerdictInsufficientData: 0.5,
	model.VerdictUnverifiable:     0.5,
	model.VerdictSatire:           model.DefaultConfidence,
	model.VerdictUnknown:          model.DefaultConfidence,
	model.VerdictError:            model.DefaultConfidence,
}

// fivePointScale maps a numeric 1-5 verdict onto the canonical scale
var fivePointScale = map[int]model.Verdict{
	1: model.VerdictFalse,
	2: model.VerdictMostlyFalse,
	3: model.VerdictPartiallyTrue,
	4: model.VerdictMostlyTrue,
	5: model.VerdictTrue,
}

// Outcome is a normalized verdict with its truth score
type Outcome struct {
	Verdict    model.Verdict
	Confidence float64
	Matched    string // Upstream phrase that produced the verdict, empty when none matched
	Explicit   bool   // Confidence came from an upstream score rather than a seed
}

// Normalizer maps upstream verdict vocabularies onto the canonical enumeration
type Normalizer struct {
	vocab *Vocabulary
}

// NewNormalizer creates a normalizer over the given vocabulary (nil means built-in)
func NewNormalizer(vocab *Vocabulary) *Normalizer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Normalizer{vocab: vocab}
}

// Vocabulary returns the lookup table in use
func (n *Normalizer) Vocabulary() *Vocabulary {
	return n.vocab
}

// FromLabel normalizes a structured verdict field.
// The whole value is looked up first; free text inside the field is scanned as a fallback.
func (n *Normalizer) FromLabel(label string, score *float64) Outcome {
	if verdict, ok := n.vocab.Lookup(label); ok {
		return n.outcome(verdict, label, score)
	}
	if m, ok := n.vocab.Scan(label); ok {
		return n.outcome(m.Verdict, m.Phrase, score)
	}
	return n.outcome(model.VerdictUnknown, "", score)
}

// FromKeyword normalizes a keyword found by the freeform parser
func (n *Normalizer) FromKeyword(m *Match, score *float64) Outcome {
	if m == nil {
		return n.outcome(model.VerdictUnknown, "", score)
	}
	return n.outcome(m.Verdict, m.Phrase, score)
}

// FromNumber normalizes a numeric verdict on a 1-5 scale
func (n *Normalizer) FromNumber(v float64, score *float64) Outcome {
	rounded := int(math.Round(v))
	if verdict, ok := fivePointScale[rounded]; ok && math.Abs(v-float64(rounded)) < 1e-9 {
		return n.outcome(verdict, "", score)
	}
	return n.outcome(model.VerdictUnknown, "", score)
}

func (n *Normalizer) outcome(verdict model.Verdict, matched string, score *float64) Outcome {
	if verdict == model.VerdictError || !verdict.IsValid() {
		verdict = model.VerdictUnknown
	}
	out := Outcome{Verdict: verdict, Confidence: Seed(verdict), Matched: matched}
	if score != nil {
		if v, ok := NormalizeScore(*score); ok {
			out.Confidence = v
			out.Explicit = true
		}
	}
	return out
}

// WithCertainty applies the provider's certainty in its verdict. Certainty is not a truth
// score: it moves the confidence inside the verdict's band so the scale order is kept.
// An explicit truth score wins.
func (o Outcome) WithCertainty(certainty *float64) Outcome {
	if o.Explicit || certainty == nil {
		return o
	}
	c, ok := NormalizeScore(*certainty)
	if !ok {
		return o
	}
	o.Confidence = FoldCertainty(o.Verdict, c)
	return o
}

// FoldCertainty maps certainty in [0,1] into the band of an on-scale verdict.
// Full certainty reaches the outer edge (1 for true, 0 for false); partially_true and
// off-scale verdicts keep their seed.
func FoldCertainty(v model.Verdict, certainty float64) float64 {
	info := v.Info()
	if !info.OnScale {
		return Seed(v)
	}
	c := Clamp(certainty)
	width := info.MaxScore - info.MinScore
	var folded float64
	switch seed := Seed(v); {
	case seed > 0.5:
		folded = info.MinScore + c*width
	case seed < 0.5:
		folded = info.MaxScore - c*width
	default:
		return seed
	}
	return math.Min(math.Max(folded, info.MinScore), info.MaxScore)
}

// Seed returns the seed truth score of a verdict
func Seed(v model.Verdict) float64 {
	if s, ok := Seeds[v]; ok {
		return s
	}
	return model.DefaultConfidence
}

// NormalizeScore interprets an upstream numeric score. Values above 1 are read as
// percentages; the result is clamped to [0,1]. NaN and infinities are rejected.
func NormalizeScore(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v > 1 && v <= 100 {
		v /= 100
	}
	return Clamp(v), true
}

// Clamp limits v to [0,1]
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
