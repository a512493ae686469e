package classifier

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases str and strips diacritics so "Diplôme" and "diplome" compare equal.
func Fold(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	return strings.ToLower(result)
}

// canonical composes accents so "MÉTIER" typed with a combining mark still
// matches the verbatim marker.
func canonical(str string) string {
	return norm.NFC.String(str)
}

// isUpper is true when str has at least one cased letter and no lower-case one.
func isUpper(str string) bool {
	cased := false
	for _, r := range str {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

type matcher struct {
	name string
	re   *regexp.Regexp
}

// compileTerms builds substring matchers. Folded terms are matched against
// folded text, the others case-sensitively against canonical text.
func compileTerms(terms []string, folded bool) []matcher {
	out := make([]matcher, 0, len(terms))
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		pattern := canonical(term)
		if folded {
			pattern = Fold(term)
		}
		out = append(out, matcher{name: term, re: regexp.MustCompile(regexp.QuoteMeta(pattern))})
	}
	return out
}

func firstMatch(ms []matcher, text string) (string, bool) {
	for _, m := range ms {
		if m.re.MatchString(text) {
			return m.name, true
		}
	}
	return "", false
}
