package model

import "math"

// Source is a citation attached to a fact-check result
type Source struct {
	Title            string     `json:"name"`
	URL              string     `json:"url"`
	Reliability      int        `json:"reliability,omitempty"` // Ordinal 1-5, 0 when the upstream supplied none
	ReliabilityScore float64    `json:"reliability_score"`     // Normalized [0,1]
	Kind             SourceKind `json:"kind,omitempty"`
}

// SourceKind classifies the authority of a source
type SourceKind string

const (
	SourceKindPrimary   SourceKind = "primary"   // Official documents, statistics, academic papers
	SourceKindSecondary SourceKind = "secondary" // Reputable media, fact-checking organizations
	SourceKindOther     SourceKind = "other"     // Everything else
)

// DefaultReliability is the midpoint ordinal assigned when no reliability signal exists
const DefaultReliability = 3

// OrdinalToScore converts a 1-5 reliability ordinal to the normalized [0,1] form
func OrdinalToScore(ordinal int) float64 {
	if ordinal < 1 {
		ordinal = 1
	}
	if ordinal > 5 {
		ordinal = 5
	}
	return float64(ordinal-1) / 4
}

// ScoreToOrdinal converts a normalized reliability score to the nearest 1-5 ordinal
func ScoreToOrdinal(score float64) int {
	return int(math.Round(clampUnit(score)*4)) + 1
}

// Stars returns the ordinal used for star-style display
func (s Source) Stars() int {
	if s.Reliability >= 1 && s.Reliability <= 5 {
		return s.Reliability
	}
	return ScoreToOrdinal(s.ReliabilityScore)
}

// WithReliability returns a copy with the ordinal set and the normalized score derived from it
func (s Source) WithReliability(ordinal int) Source {
	if ordinal < 1 || ordinal > 5 {
		return s
	}
	s.Reliability = ordinal
	s.ReliabilityScore = OrdinalToScore(ordinal)
	return s
}

// ReliabilityLevel returns the textual reliability band for a normalized score
func ReliabilityLevel(score float64) string {
	switch {
	case score >= 0.9:
		return "Velmi vysoká"
	case score >= 0.75:
		return "Vysoká"
	case score >= 0.6:
		return "Střední"
	case score >= 0.4:
		return "Nízká"
	case score >= 0.2:
		return "Velmi nízká"
	default:
		return "Nedůvěryhodný zdroj"
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
