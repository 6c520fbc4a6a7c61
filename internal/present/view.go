package present

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
)

// View is the toolkit-independent view model of one result
type View struct {
	ResultID     string                    `json:"result_id"`
	Badge        Badge                     `json:"badge"`
	Meter        Meter                     `json:"meter"`
	Claims       []ClaimRow                `json:"claims"`
	Explanation  string                    `json:"explanation"`
	KeyPoints    []string                  `json:"key_points"`
	Sources      []SourceItem              `json:"sources"`
	Support      score.SourceSupport       `json:"support"`
	Perspectives []model.Perspective       `json:"alternative_perspectives"`
	Responses    []model.SuggestedResponse `json:"suggested_responses"`
}

// Badge renders the verdict
type Badge struct {
	Verdict     model.Verdict `json:"verdict"`
	Label       string        `json:"label"`
	Color       string        `json:"color"`
	Description string        `json:"description"`
}

// Meter renders the truth score; hidden when the verdict carries no meaningful score
type Meter struct {
	Visible bool    `json:"visible"`
	Value   float64 `json:"value"`
	Percent int     `json:"percent"`
	Color   string  `json:"color"`
}

// ClaimRow is one line of the claim table
type ClaimRow struct {
	Claim      string `json:"claim"`
	Verdict    string `json:"verdict"`
	Color      string `json:"color"`
	Confidence string `json:"confidence"`
}

// SourceItem renders one citation
type SourceItem struct {
	Title            string           `json:"title"`
	URL              string           `json:"url"`
	Host             string           `json:"host"`
	Stars            int              `json:"stars"`
	StarText         string           `json:"star_text"`
	ReliabilityScore float64          `json:"reliability_score"`
	Level            string           `json:"level"`
	Kind             model.SourceKind `json:"kind,omitempty"`
}

var scorer = score.NewScorer()

// BuildView derives the view model from a result without reinterpreting it
func BuildView(res *model.FactCheckResult) *View {
	info := res.Verdict.Info()

	v := &View{
		ResultID: res.ID,
		Badge: Badge{
			Verdict:     res.Verdict,
			Label:       info.Label,
			Color:       info.Color,
			Description: info.Description,
		},
		Meter:        meterFor(res),
		Explanation:  res.Analysis.Explanation,
		KeyPoints:    append([]string{}, res.Analysis.KeyPoints...),
		Sources:      make([]SourceItem, 0, len(res.Analysis.Sources)),
		Support:      scorer.Summarize(res.Analysis.Sources),
		Perspectives: append([]model.Perspective{}, res.Analysis.AlternativePerspectives...),
		Responses:    append([]model.SuggestedResponse{}, res.Analysis.SuggestedResponses...),
	}

	confidence := "—"
	if v.Meter.Visible {
		confidence = fmt.Sprintf("%d %%", v.Meter.Percent)
	}
	v.Claims = []ClaimRow{{
		Claim:      res.ClaimText,
		Verdict:    info.Label,
		Color:      info.Color,
		Confidence: confidence,
	}}

	for _, src := range res.Analysis.Sources {
		v.Sources = append(v.Sources, SourceItemFor(src))
	}

	return v
}

func meterFor(res *model.FactCheckResult) Meter {
	value := score.Clamp(res.Confidence)
	return Meter{
		Visible: res.Verdict.ConfidenceMeaningful(),
		Value:   value,
		Percent: int(math.Round(value * 100)),
		Color:   res.Verdict.Info().Color,
	}
}

// SourceItemFor renders one source
func SourceItemFor(src model.Source) SourceItem {
	stars := src.Stars()
	title := src.Title
	if title == "" {
		title = extract.HostTitle(src.URL)
	}
	return SourceItem{
		Title:            title,
		URL:              src.URL,
		Host:             extract.HostTitle(src.URL),
		Stars:            stars,
		StarText:         StarText(stars),
		ReliabilityScore: src.ReliabilityScore,
		Level:            model.ReliabilityLevel(src.ReliabilityScore),
		Kind:             src.Kind,
	}
}

// StarText renders a 1-5 ordinal as filled and empty stars
func StarText(stars int) string {
	stars = max(0, min(stars, 5))
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}
