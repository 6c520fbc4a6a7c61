package score

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/factcheck/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Term maps one upstream phrase onto a canonical verdict
type Term struct {
	Phrase  string
	Verdict model.Verdict
}

// defaultTerms covers the binary, 5-level and 9-level scales in English and Czech,
// plus the canonical keys themselves so exported results re-parse.
var defaultTerms = []Term{
	{"true", model.VerdictTrue},
	{"pravda", model.VerdictTrue},
	{"pravdivé", model.VerdictTrue},
	{"pravdivý", model.VerdictTrue},
	{"pravdivá", model.VerdictTrue},
	{"accurate", model.VerdictTrue},

	{"mostly true", model.VerdictMostlyTrue},
	{"largely true", model.VerdictMostlyTrue},
	{"převážně pravdivé", model.VerdictMostlyTrue},
	{"převážně pravdivý", model.VerdictMostlyTrue},
	{"převážně pravda", model.VerdictMostlyTrue},
	{"převážně pravdivá", model.VerdictMostlyTrue},

	{"partially true", model.VerdictPartiallyTrue},
	{"partly true", model.VerdictPartiallyTrue},
	{"half true", model.VerdictPartiallyTrue},
	{"partial", model.VerdictPartiallyTrue},
	{"mixed", model.VerdictPartiallyTrue},
	{"částečně pravdivé", model.VerdictPartiallyTrue},
	{"částečně pravdivý", model.VerdictPartiallyTrue},
	{"částečně pravda", model.VerdictPartiallyTrue},
	{"částečně pravdivá", model.VerdictPartiallyTrue},
	{"spíše pravda", model.VerdictPartiallyTrue},
	{"spíše pravdivé", model.VerdictPartiallyTrue},
	{"spíše pravdivý", model.VerdictPartiallyTrue},
	{"spíše pravdivá", model.VerdictPartiallyTrue},

	{"misleading", model.VerdictMisleading},
	{"zavádějící", model.VerdictMisleading},

	{"mostly false", model.VerdictMostlyFalse},
	{"mostly untrue", model.VerdictMostlyFalse},
	{"spíše lež", model.VerdictMostlyFalse},
	{"spíše nepravda", model.VerdictMostlyFalse},
	{"spíše nepravdivé", model.VerdictMostlyFalse},
	{"spíše nepravdivý", model.VerdictMostlyFalse},
	{"spíše nepravdivá", model.VerdictMostlyFalse},
	{"převážně nepravdivé", model.VerdictMostlyFalse},
	{"převážně nepravdivý", model.VerdictMostlyFalse},
	{"převážně nepravdivá", model.VerdictMostlyFalse},
	{"převážně nepravda", model.VerdictMostlyFalse},

	{"false", model.VerdictFalse},
	{"untrue", model.VerdictFalse},
	{"not true", model.VerdictFalse},
	{"nepravda", model.VerdictFalse},
	{"lež", model.VerdictFalse},
	{"nepravdivé", model.VerdictFalse},
	{"nepravdivý", model.VerdictFalse},
	{"nepravdivá", model.VerdictFalse},
	{"není pravda", model.VerdictFalse},
	{"není pravdivé", model.VerdictFalse},

	{"insufficient data", model.VerdictInsufficientData},
	{"insufficient evidence", model.VerdictInsufficientData},
	{"not enough evidence", model.VerdictInsufficientData},
	{"nedostatečné údaje", model.VerdictInsufficientData},
	{"nedostatek důkazů", model.VerdictInsufficientData},

	{"unverifiable", model.VerdictUnverifiable},
	{"cannot be verified", model.VerdictUnverifiable},
	{"neověřitelné", model.VerdictUnverifiable},
	{"nelze ověřit", model.VerdictUnverifiable},
	{"nelze určit", model.VerdictUnverifiable},

	{"satire", model.VerdictSatire},
	{"satirical", model.VerdictSatire},
	{"satira", model.VerdictSatire},
	{"satirické", model.VerdictSatire},
}

// negators suppress a verdict token that follows them closely within the same clause
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"isn":     true,
	"wasn":    true,
	"ne":      true,
	"neni":    true,
	"nebylo":  true,
	"nejde":   true,
	"nejedna": true,
	"nikoli":  true,
	"nikoliv": true,
}

// negationWindow is how many preceding words are checked for a negator
const negationWindow = 2

type compiledTerm struct {
	words   []string
	phrase  string
	verdict model.Verdict
}

// Vocabulary is the ordered verdict lookup table
type Vocabulary struct {
	terms []compiledTerm
	exact map[string]model.Verdict
}

// DefaultVocabulary returns the built-in table
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(nil)
}

// NewVocabulary builds the built-in table extended with extra terms.
// Extra terms win over built-in ones with the same phrase.
func NewVocabulary(extra []Term) *Vocabulary {
	v := &Vocabulary{exact: make(map[string]model.Verdict)}

	all := make([]Term, 0, len(extra)+len(defaultTerms))
	all = append(all, extra...)
	all = append(all, defaultTerms...)

	for _, t := range all {
		words := Words(t.Phrase)
		if len(words) == 0 {
			continue
		}
		key := strings.Join(words, " ")
		if _, dup := v.exact[key]; dup {
			continue
		}
		v.exact[key] = t.Verdict
		v.terms = append(v.terms, compiledTerm{words: words, phrase: t.Phrase, verdict: t.Verdict})
	}

	// Longer phrases are tried first so "mostly false" never yields "false"
	sort.SliceStable(v.terms, func(i, j int) bool {
		return len(v.terms[i].words) > len(v.terms[j].words)
	})

	return v
}

// Lookup maps a whole field value onto a verdict, ignoring case, diacritics and separators
func (v *Vocabulary) Lookup(value string) (model.Verdict, bool) {
	verdict, ok := v.exact[strings.Join(Words(value), " ")]
	return verdict, ok
}

// Match is a verdict token found in running text
type Match struct {
	Verdict  model.Verdict
	Phrase   string
	Position int // Word index in the scanned text
}

// Scan finds the verdict keyword of a text.
// Matching is ordered and mutually exclusive: at each word the longest phrase wins and
// consumes its words. Tokens preceded by a negator in the same clause are skipped.
// When several families appear, the earliest remaining token wins.
func (v *Vocabulary) Scan(text string) (Match, bool) {
	toks := tokenize(text)

	for i := 0; i < len(toks); {
		term, ok := v.matchAt(toks, i)
		if !ok {
			i++
			continue
		}
		if !negated(toks, i) {
			return Match{Verdict: term.verdict, Phrase: term.phrase, Position: i}, true
		}
		i += len(term.words)
	}

	return Match{}, false
}

func (v *Vocabulary) matchAt(toks []token, i int) (compiledTerm, bool) {
	for _, term := range v.terms {
		if i+len(term.words) > len(toks) {
			continue
		}
		ok := true
		for k, w := range term.words {
			t := toks[i+k]
			if t.word != w || (k > 0 && t.clause != toks[i].clause) {
				ok = false
				break
			}
		}
		if ok {
			return term, true
		}
	}
	return compiledTerm{}, false
}

func negated(toks []token, i int) bool {
	for k := i - 1; k >= 0 && k >= i-negationWindow; k-- {
		if toks[k].clause != toks[i].clause {
			return false
		}
		if negators[toks[k].word] {
			return true
		}
	}
	return false
}

type token struct {
	word   string
	clause int
}

// tokenize splits folded text into words, tracking clause boundaries
func tokenize(text string) []token {
	var toks []token
	var current strings.Builder
	clause := 0

	flush := func() {
		if current.Len() > 0 {
			toks = append(toks, token{word: current.String(), clause: clause})
			current.Reset()
		}
	}

	for _, r := range Fold(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		case strings.ContainsRune(".!?;:,\n()[]", r):
			flush()
			clause++
		default:
			flush()
		}
	}
	flush()

	return toks
}

// Words returns the folded words of s
func Words(s string) []string {
	toks := tokenize(s)
	words := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.word
	}
	return words
}

// Fold lower-cases s and strips diacritics ("Lež" -> "lez")
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}
