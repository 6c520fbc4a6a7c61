package validate

import (
	"net/url"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// TrustedSource is a registry entry for a well-known publisher
type TrustedSource struct {
	Domain      string
	Name        string
	Type        string  // news, academic, government, fact_checking
	Reliability float64 // Normalized [0,1]
}

// trustedSources is the built-in registry of Czech and international publishers
var trustedSources = []TrustedSource{
	{"ct24.ceskatelevize.cz", "ČT24", "news", 0.85},
	{"irozhlas.cz", "iROZHLAS", "news", 0.85},
	{"denik.cz", "Deník", "news", 0.75},
	{"idnes.cz", "iDNES.cz", "news", 0.70},
	{"aktualne.cz", "Aktuálně.cz", "news", 0.80},
	{"seznamzpravy.cz", "Seznam Zprávy", "news", 0.75},
	{"reuters.com", "Reuters", "news", 0.90},
	{"apnews.com", "Associated Press", "news", 0.90},
	{"vedavyzkum.cz", "Věda a výzkum", "academic", 0.90},
	{"osel.cz", "OSEL", "academic", 0.85},
	{"sciencemag.org", "Science", "academic", 0.95},
	{"nature.com", "Nature", "academic", 0.95},
	{"mzcr.cz", "Ministerstvo zdravotnictví ČR", "government", 0.90},
	{"czso.cz", "Český statistický úřad", "government", 0.95},
	{"europa.eu", "Evropská unie", "government", 0.90},
	{"demagog.cz", "Demagog.cz", "fact_checking", 0.85},
}

// AuthorityClassifier classifies sources into primary, secondary and other
type AuthorityClassifier struct {
	config       *model.AuthorityConfig
	primaryMap   map[string]bool
	secondaryMap map[string]bool
	registry     map[string]TrustedSource
}

// NewAuthorityClassifier creates a new authority classifier
func NewAuthorityClassifier(config *model.AuthorityConfig) *AuthorityClassifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	classifier := &AuthorityClassifier{
		config:       config,
		primaryMap:   make(map[string]bool),
		secondaryMap: make(map[string]bool),
		registry:     make(map[string]TrustedSource),
	}

	for _, domain := range config.PrimaryDomains {
		classifier.primaryMap[strings.ToLower(domain)] = true
	}
	for _, domain := range config.SecondaryDomains {
		classifier.secondaryMap[strings.ToLower(domain)] = true
	}
	for _, ts := range trustedSources {
		classifier.registry[ts.Domain] = ts
	}

	return classifier
}

// Classify classifies a URL into a source kind
func (a *AuthorityClassifier) Classify(rawURL string) model.SourceKind {
	host := hostOf(rawURL)
	if host == "" {
		return model.SourceKindOther
	}

	if a.config.DomainMap != nil {
		if kind, ok := a.config.DomainMap[host]; ok {
			return ParseKind(kind)
		}
	}

	if matchesDomain(host, a.primaryMap) {
		return model.SourceKindPrimary
	}
	if matchesDomain(host, a.secondaryMap) {
		return model.SourceKindSecondary
	}

	if ts, ok := a.Trusted(rawURL); ok {
		return KindFromType(ts.Type)
	}

	// Public institutions
	for _, suffix := range []string{".gov", ".edu", ".ac.uk", ".gov.cz", ".gov.uk", ".europa.eu"} {
		if strings.HasSuffix(host, suffix) {
			return model.SourceKindPrimary
		}
	}

	return model.SourceKindOther
}

// Trusted looks a URL up in the trusted-source registry
func (a *AuthorityClassifier) Trusted(rawURL string) (TrustedSource, bool) {
	host := hostOf(rawURL)
	for host != "" {
		if ts, ok := a.registry[host]; ok {
			return ts, true
		}
		idx := strings.Index(host, ".")
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return TrustedSource{}, false
}

// KindFromType maps an upstream source type ("government", "news", …) to a kind
func KindFromType(t string) model.SourceKind {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "government", "official", "academic", "scientific", "primary", "statistics", "legal":
		return model.SourceKindPrimary
	case "news", "media", "fact_checking", "fact-checking", "factcheck", "secondary", "encyclopedia":
		return model.SourceKindSecondary
	case "":
		return ""
	default:
		return model.SourceKindOther
	}
}

// ParseKind converts a configured kind string
func ParseKind(kind string) model.SourceKind {
	switch strings.ToLower(kind) {
	case "primary", "1":
		return model.SourceKindPrimary
	case "secondary", "2":
		return model.SourceKindSecondary
	default:
		return model.SourceKindOther
	}
}

func matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// hostOf returns the lower-cased host of a URL without port and "www."
func hostOf(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}
