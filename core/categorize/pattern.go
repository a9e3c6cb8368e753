// Package categorize derives business-domain categories for commits, either
// through deterministic subject-line patterns or through an LLM engine.
package categorize

import (
	"regexp"
	"strings"
)

// genericVerbs are first tokens that never form a category on their own.
var genericVerbs = map[string]bool{
	"MERGE":    true,
	"FIX":      true,
	"ADD":      true,
	"UPDATE":   true,
	"REMOVE":   true,
	"DELETE":   true,
	"FEAT":     true,
	"CHORE":    true,
	"DOCS":     true,
	"STYLE":    true,
	"REFACTOR": true,
	"TEST":     true,
	"PERF":     true,
}

var bracketPrefix = regexp.MustCompile(`^\[([^\]]*)\]`)

// FromSubject extracts a category from a commit subject line.
// Priority: pipe delimiter, then square-bracket prefix, then an all-caps
// first token. The extracted candidate must still pass strict validation,
// so a version number in a pipe prefix yields no category.
func FromSubject(subject string) (string, bool) {
	subject = strings.TrimSpace(subject)

	if candidate, ok := extractCandidate(subject); ok {
		validator := Validator{PreventNumeric: true}
		if validator.IsValid(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// extractCandidate applies the priority rules; first match wins.
func extractCandidate(subject string) (string, bool) {
	if idx := strings.Index(subject, " | "); idx >= 0 {
		if prefix := strings.ToUpper(strings.TrimSpace(subject[:idx])); prefix != "" {
			return prefix, true
		}
	}

	if match := bracketPrefix.FindStringSubmatch(subject); match != nil {
		if inner := strings.ToUpper(strings.TrimSpace(match[1])); inner != "" {
			return inner, true
		}
	}

	fields := strings.Fields(subject)
	if len(fields) == 0 {
		return "", false
	}
	first := fields[0]
	// "BILLING fix" categorizes, "fix bug" does not.
	if len(first) >= 2 && first == strings.ToUpper(first) && !genericVerbs[first] {
		return first, true
	}

	return "", false
}
