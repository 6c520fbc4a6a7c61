package score

import (
	"fmt"

	"github.com/ppiankov/factcheck/internal/model"
	"gonum.org/v1/gonum/stat"
)

// SignalSeverity indicates the importance of a signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Signal is a diagnostic observation about the sources of a result, with its inputs
type Signal struct {
	Type        string                 `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SourceSupport summarizes the citations backing a result
type SourceSupport struct {
	Count               int      `json:"count"`
	Primary             int      `json:"primary"`
	Secondary           int      `json:"secondary"`
	Other               int      `json:"other"`
	MeanReliability     float64  `json:"mean_reliability"`
	WeightedReliability float64  `json:"weighted_reliability"` // Weighted by source kind
	Signals             []Signal `json:"signals"`
}

// kindWeights weight reliability by source authority
var kindWeights = map[model.SourceKind]float64{
	model.SourceKindPrimary:   3,
	model.SourceKindSecondary: 2,
	model.SourceKindOther:     1,
}

// Scorer summarizes source support. It never changes the verdict or the truth score.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Summarize calculates reliability statistics and signals for a source list
func (s *Scorer) Summarize(sources []model.Source) SourceSupport {
	support := SourceSupport{Count: len(sources), Signals: []Signal{}}

	if len(sources) == 0 {
		support.Signals = append(support.Signals, Signal{
			Type:        "source_coverage",
			Severity:    SeverityWarning,
			Description: "No sources cited",
			Data:        map[string]interface{}{"sources": 0},
		})
		return support
	}

	scores := make([]float64, len(sources))
	weights := make([]float64, len(sources))
	for i, src := range sources {
		scores[i] = src.ReliabilityScore
		switch src.Kind {
		case model.SourceKindPrimary:
			support.Primary++
		case model.SourceKindSecondary:
			support.Secondary++
		default:
			support.Other++
		}
		w, ok := kindWeights[src.Kind]
		if !ok {
			w = kindWeights[model.SourceKindOther]
		}
		weights[i] = w
	}

	support.MeanReliability = stat.Mean(scores, nil)
	support.WeightedReliability = stat.Mean(scores, weights)

	support.Signals = append(support.Signals, s.authoritySignal(support))
	support.Signals = append(support.Signals, s.reliabilitySignal(support))

	return support
}

// authoritySignal reports the primary/secondary/other balance
func (s *Scorer) authoritySignal(support SourceSupport) Signal {
	severity := SeverityInfo
	if support.Primary == 0 && support.Secondary == 0 {
		severity = SeverityCritical
	} else if support.Primary == 0 {
		severity = SeverityWarning
	}

	return Signal{
		Type:        "authority_distribution",
		Severity:    severity,
		Description: fmt.Sprintf("Authority distribution: %d primary, %d secondary, %d other", support.Primary, support.Secondary, support.Other),
		Data: map[string]interface{}{
			"primary":   support.Primary,
			"secondary": support.Secondary,
			"other":     support.Other,
			"total":     support.Count,
		},
	}
}

// reliabilitySignal reports the mean reliability band
func (s *Scorer) reliabilitySignal(support SourceSupport) Signal {
	severity := SeverityInfo
	if support.MeanReliability < 0.4 {
		severity = SeverityCritical
	} else if support.MeanReliability < 0.6 {
		severity = SeverityWarning
	}

	return Signal{
		Type:        "source_reliability",
		Severity:    severity,
		Description: fmt.Sprintf("Mean source reliability %.2f (%s)", support.MeanReliability, model.ReliabilityLevel(support.MeanReliability)),
		Data: map[string]interface{}{
			"mean":     support.MeanReliability,
			"weighted": support.WeightedReliability,
			"formula":  "sum(score * weight) / sum(weight), weight primary=3 secondary=2 other=1",
		},
	}
}
