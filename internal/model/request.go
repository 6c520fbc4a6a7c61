package model

import (
	"path/filepath"
	"strings"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
)

// MaxUploadBytes limits uploaded files
const MaxUploadBytes = 16 << 20

// ExpertiseLevel controls the register of the analysis
type ExpertiseLevel string

const (
	ExpertiseBasic    ExpertiseLevel = "basic"
	ExpertiseMedium   ExpertiseLevel = "medium"
	ExpertiseAdvanced ExpertiseLevel = "advanced"
	ExpertiseExpert   ExpertiseLevel = "expert"
)

// AnalysisLength controls how much detail the analysis contains
type AnalysisLength string

const (
	LengthBrief      AnalysisLength = "brief"
	LengthStandard   AnalysisLength = "standard"
	LengthDetailed   AnalysisLength = "detailed"
	LengthExhaustive AnalysisLength = "exhaustive"
)

// KeyPointCount returns how many key points the analysis should list
func (l AnalysisLength) KeyPointCount() int {
	switch l {
	case LengthBrief:
		return 3
	case LengthDetailed:
		return 8
	case LengthExhaustive:
		return 12
	default:
		return 5
	}
}

// PerspectiveCount returns how many alternative perspectives the analysis should offer
func (l AnalysisLength) PerspectiveCount() int {
	switch l {
	case LengthBrief:
		return 1
	case LengthDetailed:
		return 3
	case LengthExhaustive:
		return 4
	default:
		return 2
	}
}

// Settings are echoed from the request into the result unchanged
type Settings struct {
	ExpertiseLevel ExpertiseLevel `json:"expertise_level" yaml:"expertise_level" mapstructure:"expertise_level"`
	AnalysisLength AnalysisLength `json:"analysis_length" yaml:"analysis_length" mapstructure:"analysis_length"`
}

// DefaultSettings returns medium expertise with a standard-length analysis
func DefaultSettings() Settings {
	return Settings{
		ExpertiseLevel: ExpertiseMedium,
		AnalysisLength: LengthStandard,
	}
}

// IsZero reports whether no setting was supplied
func (s Settings) IsZero() bool {
	return s.ExpertiseLevel == "" && s.AnalysisLength == ""
}

// WithDefaults fills empty fields with the defaults
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.ExpertiseLevel == "" {
		s.ExpertiseLevel = d.ExpertiseLevel
	}
	if s.AnalysisLength == "" {
		s.AnalysisLength = d.AnalysisLength
	}
	return s
}

// Validate rejects unknown expertise levels and analysis lengths
func (s Settings) Validate() error {
	switch s.ExpertiseLevel {
	case "", ExpertiseBasic, ExpertiseMedium, ExpertiseAdvanced, ExpertiseExpert:
	default:
		return apperrors.InvalidInput("unknown expertise level %q", s.ExpertiseLevel)
	}
	switch s.AnalysisLength {
	case "", LengthBrief, LengthStandard, LengthDetailed, LengthExhaustive:
	default:
		return apperrors.InvalidInput("unknown analysis length %q", s.AnalysisLength)
	}
	return nil
}

// AnalysisRequest is one user-initiated analysis
type AnalysisRequest struct {
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	Media       []byte      `json:"-"`
	MediaMIME   string      `json:"-"`
	Filename    string      `json:"filename,omitempty"`
	Settings    Settings    `json:"settings"`
}

// Validate checks the request before any provider call
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" && len(r.Media) == 0 {
		return apperrors.InvalidInput("either text content or a file is required")
	}
	if r.ContentType != "" && !r.ContentType.IsValid() {
		return apperrors.InvalidInput("unknown content type %q", r.ContentType)
	}
	if len(r.Media) > MaxUploadBytes {
		return apperrors.InvalidInput("file exceeds %d bytes", MaxUploadBytes)
	}
	return r.Settings.Validate()
}

var uploadExtensions = map[string]ContentType{
	"txt":  ContentText,
	"md":   ContentText,
	"png":  ContentImage,
	"jpg":  ContentImage,
	"jpeg": ContentImage,
	"gif":  ContentImage,
	"webp": ContentImage,
	"mp3":  ContentAudio,
	"wav":  ContentAudio,
	"ogg":  ContentAudio,
	"m4a":  ContentAudio,
	"mp4":  ContentVideo,
	"mov":  ContentVideo,
	"avi":  ContentVideo,
	"webm": ContentVideo,
}

// ContentTypeForFile infers the content type from an upload's extension
func ContentTypeForFile(filename string) (ContentType, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ct, ok := uploadExtensions[ext]; ok {
		return ct, nil
	}
	return "", apperrors.InvalidInput("unsupported file type %q", filepath.Ext(filename))
}
