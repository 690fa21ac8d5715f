package domain

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCloseTolerance is the fraction of the canonical answer length a
// guess may differ by and still count as close.
const DefaultCloseTolerance = 0.2

// diacritic folding: decompose, strip combining marks, recompose.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a guess or answer for comparison: diacritics
// stripped, case folded, surrounding and repeated whitespace collapsed.
func Normalize(s string) string {
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Evaluate classifies a raw guess against a canonical answer set. It is
// pure and safe to call concurrently. A tolerance <= 0 falls back to
// DefaultCloseTolerance.
func Evaluate(guess string, canonical []string, tolerance float64) Outcome {
	if tolerance <= 0 {
		tolerance = DefaultCloseTolerance
	}

	g := Normalize(guess)
	if g == "" {
		return OutcomeIncorrect
	}

	near := false
	for _, answer := range canonical {
		a := Normalize(answer)
		if a == "" {
			continue
		}
		if g == a {
			return OutcomeExact
		}
		limit := int(tolerance * float64(len([]rune(a))))
		if limit == 0 {
			continue
		}
		if levenshtein.ComputeDistance(g, a) <= limit {
			near = true
		}
	}
	if near {
		return OutcomeClose
	}
	return OutcomeIncorrect
}
