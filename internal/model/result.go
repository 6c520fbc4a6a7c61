package model

import "time"

const (
	// ClaimUnknown is the claim text used when no claim could be identified
	ClaimUnknown = "—"

	// DefaultConfidence is the truth score used when the source supplies none
	DefaultConfidence = 0.5

	// ExplanationPlaceholder replaces an absent explanation
	ExplanationPlaceholder = "The analysis did not include an explanation."
)

// FactCheckResult is the canonical, read-only outcome of one analysis.
// Its JSON form is the envelope returned by the HTTP API and produced by the JSON exporter.
type FactCheckResult struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	ContentType ContentType `json:"content_type"`
	ClaimText   string      `json:"content_summary"`
	Verdict     Verdict     `json:"truth_rating"`
	Confidence  float64     `json:"truth_score"`
	Analysis    Analysis    `json:"analysis"`
	Settings    Settings    `json:"settings"`
}

// Analysis holds the explanatory part of a result
type Analysis struct {
	Explanation             string              `json:"detailed_explanation"`
	KeyPoints               []string            `json:"key_points"`
	Sources                 []Source            `json:"sources"`
	AlternativePerspectives []Perspective       `json:"alternative_perspectives"`
	SuggestedResponses      []SuggestedResponse `json:"suggested_responses"`
}

// Perspective is an alternative reading of the analyzed content
type Perspective struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
}

// SuggestedResponse is a ready-made reply for sharing the result
type SuggestedResponse struct {
	Type string `json:"type,omitempty"` // informative, educational, humorous
	Text string `json:"text"`
}

// ContentType describes what was analyzed
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentAudio ContentType = "audio"
	ContentVideo ContentType = "video"
)

// IsValid reports whether c is a known content type
func (c ContentType) IsValid() bool {
	switch c {
	case ContentText, ContentImage, ContentAudio, ContentVideo:
		return true
	}
	return false
}

// Clone returns a deep copy so callers can never alias the slices of a stored result
func (r *FactCheckResult) Clone() *FactCheckResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Analysis.KeyPoints = append([]string{}, r.Analysis.KeyPoints...)
	c.Analysis.Sources = append([]Source{}, r.Analysis.Sources...)
	c.Analysis.AlternativePerspectives = append([]Perspective{}, r.Analysis.AlternativePerspectives...)
	c.Analysis.SuggestedResponses = append([]SuggestedResponse{}, r.Analysis.SuggestedResponses...)
	return &c
}

// ErrorResult builds the minimal fallback shown when an analysis fails
func ErrorResult(message string, now time.Time) *FactCheckResult {
	if message == "" {
		message = "The analysis failed."
	}
	return &FactCheckResult{
		Timestamp:   now,
		ContentType: ContentText,
		ClaimText:   ClaimUnknown,
		Verdict:     VerdictError,
		Confidence:  DefaultConfidence,
		Analysis: Analysis{
			Explanation:             message,
			KeyPoints:               []string{},
			Sources:                 []Source{},
			AlternativePerspectives: []Perspective{},
			SuggestedResponses:      []SuggestedResponse{},
		},
		Settings: DefaultSettings(),
	}
}
