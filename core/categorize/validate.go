package categorize

import (
	"regexp"
	"unicode"
)

// Category name length bounds.
const (
	minCategoryLength = 2
	maxCategoryLength = 50
)

var (
	purelyNumeric = regexp.MustCompile(`^\d+$`)
	versionLike   = regexp.MustCompile(`^\d+\.\d+`)
)

// Validator is the shared predicate that rejects non-business-like category
// strings. It gates AI output and seeds manually supplied categories.
type Validator struct {
	// PreventNumeric additionally rejects purely numeric, version-like,
	// issue-number-like and digit-heavy strings.
	PreventNumeric bool
}

// IsValid reports whether the name is an acceptable category.
func (v Validator) IsValid(name string) bool {
	return v.Reject(name) == ""
}

// Reject returns a human-readable rejection reason, or "" when acceptable.
func (v Validator) Reject(name string) string {
	runes := []rune(name)
	if len(runes) < minCategoryLength {
		return "too short (minimum 2 characters)"
	}
	if len(runes) > maxCategoryLength {
		return "too long (maximum 50 characters)"
	}

	if v.PreventNumeric {
		if purelyNumeric.MatchString(name) {
			return "purely numeric"
		}
		if versionLike.MatchString(name) {
			return "looks like a version number"
		}
		if name[0] == '#' {
			return "looks like an issue number"
		}
		if digitFraction(runes) > 0.5 {
			return "more than half digits"
		}
	}

	for _, r := range runes {
		if unicode.IsLetter(r) {
			return ""
		}
	}
	return "contains no letters"
}

func digitFraction(runes []rune) float64 {
	digits := 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) / float64(len(runes))
}
