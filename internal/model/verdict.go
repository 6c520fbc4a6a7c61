package model

// Verdict is the canonical truth classification of a fact-check result
type Verdict string

const (
	VerdictTrue             Verdict = "true"
	VerdictMostlyTrue       Verdict = "mostly_true"
	VerdictPartiallyTrue    Verdict = "partially_true"
	VerdictMostlyFalse      Verdict = "mostly_false"
	VerdictFalse            Verdict = "false"
	VerdictMisleading       Verdict = "misleading"
	VerdictUnverifiable     Verdict = "unverifiable"
	VerdictInsufficientData Verdict = "insufficient_data"
	VerdictSatire           Verdict = "satire"
	VerdictUnknown          Verdict = "unknown" // No mapping rule matched
	VerdictError            Verdict = "error"   // Pipeline failure, never produced by content analysis
)

// ScaleInfo is the display metadata of a canonical verdict
type ScaleInfo struct {
	Label       string  `json:"label"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
	MinScore    float64 `json:"min_score,omitempty"`
	MaxScore    float64 `json:"max_score,omitempty"`
	OnScale     bool    `json:"on_scale"` // Part of the true <-> false spectrum
}

var truthScale = map[Verdict]ScaleInfo{
	VerdictTrue: {
		Label:       "Pravdivé",
		Color:       "#34A853",
		Description: "The claim is accurate and supported by reliable evidence.",
		MinScore:    0.9,
		MaxScore:    1.0,
		OnScale:     true,
	},
	VerdictMostlyTrue: {
		Label:       "Převážně pravdivé",
		Color:       "#4CAF50",
		Description: "The claim is largely accurate but needs clarification or extra context.",
		MinScore:    0.75,
		MaxScore:    0.9,
		OnScale:     true,
	},
	VerdictPartiallyTrue: {
		Label:       "Částečně pravdivé",
		Color:       "#FBBC05",
		Description: "The claim contains accurate elements but omits important details or takes them out of context.",
		MinScore:    0.5,
		MaxScore:    0.75,
		OnScale:     true,
	},
	VerdictMostlyFalse: {
		Label:       "Převážně nepravdivé",
		Color:       "#F57C00",
		Description: "The claim contains some accurate elements but is mostly inaccurate.",
		MinScore:    0.25,
		MaxScore:    0.5,
		OnScale:     true,
	},
	VerdictFalse: {
		Label:       "Nepravdivé",
		Color:       "#EA4335",
		Description: "The claim is inaccurate and contradicted by reliable evidence.",
		MinScore:    0.0,
		MaxScore:    0.25,
		OnScale:     true,
	},
	VerdictMisleading: {
		Label:       "Zavádějící",
		Color:       "#9C27B0",
		Description: "The claim may contain accurate facts but presents them in a way that creates a false impression.",
	},
	VerdictInsufficientData: {
		Label:       "Nedostatečné údaje",
		Color:       "#9AA0A6",
		Description: "There is not enough reliable evidence to confirm or refute the claim.",
	},
	VerdictUnverifiable: {
		Label:       "Neověřitelné",
		Color:       "#607D8B",
		Description: "The claim cannot be verified with available information.",
	},
	VerdictSatire: {
		Label:       "Satira",
		Color:       "#8D6E63",
		Description: "The content is satire and is not meant to be taken literally.",
	},
	VerdictUnknown: {
		Label:       "Neznámé",
		Color:       "#9AA0A6",
		Description: "The analysis did not produce a recognizable verdict.",
	},
	VerdictError: {
		Label:       "Chyba",
		Color:       "#D32F2F",
		Description: "The analysis could not be completed.",
	},
}

// Verdicts returns all canonical verdicts, ordered from true to false and then the off-scale values
func Verdicts() []Verdict {
	return []Verdict{
		VerdictTrue,
		VerdictMostlyTrue,
		VerdictPartiallyTrue,
		VerdictMostlyFalse,
		VerdictFalse,
		VerdictMisleading,
		VerdictUnverifiable,
		VerdictInsufficientData,
		VerdictSatire,
		VerdictUnknown,
		VerdictError,
	}
}

// IsValid reports whether v is a member of the canonical enumeration
func (v Verdict) IsValid() bool {
	_, ok := truthScale[v]
	return ok
}

// Info returns the display metadata of the verdict
func (v Verdict) Info() ScaleInfo {
	if info, ok := truthScale[v]; ok {
		return info
	}
	return truthScale[VerdictUnknown]
}

// Label returns the human-readable verdict label
func (v Verdict) Label() string {
	return v.Info().Label
}

// ConfidenceMeaningful reports whether a truth score can be shown next to the verdict.
// Satire, unknown and error results carry a neutral score that must not be presented.
func (v Verdict) ConfidenceMeaningful() bool {
	switch v {
	case VerdictSatire, VerdictUnknown, VerdictError:
		return false
	}
	return v.IsValid()
}

func (v Verdict) String() string {
	return string(v)
}
