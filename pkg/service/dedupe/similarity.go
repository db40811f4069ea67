package dedupe

import (
	"math"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity scores how close two insight summaries are, in [0, 1]. A metric
// must be symmetric, deterministic, and return 1.0 for identical text.
type Similarity func(a, b string) float64

// Normalize reduces text for fuzzy matching: lowercase, punctuation replaced
// with spaces, whitespace collapsed. Only ASCII letters and digits survive.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TextSimilarity is the default metric: the better of a SequenceMatcher
// ratio and a Levenshtein ratio over normalized text. Operands are put in
// canonical order first, which makes the score symmetric by construction.
func TextSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}
	if na > nb {
		na, nb = nb, na
	}

	seq := difflib.NewMatcher(splitChars(na), splitChars(nb)).Ratio()
	lev := levenshteinRatio(na, nb)
	return math.Max(seq, lev)
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func levenshteinRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}
