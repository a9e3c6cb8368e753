package categorize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorStrict(t *testing.T) {
	v := Validator{PreventNumeric: true}

	tests := []struct {
		name   string
		input  string
		reason string // empty means valid
	}{
		{name: "plain word", input: "BILLING"},
		{name: "two words", input: "CUSTOMER SUCCESS"},
		{name: "mixed with digits", input: "AREA51X"},
		{name: "too short", input: "A", reason: "too short (minimum 2 characters)"},
		{name: "too long", input: strings.Repeat("X", 51), reason: "too long (maximum 50 characters)"},
		{name: "purely numeric", input: "2023", reason: "purely numeric"},
		{name: "version like", input: "2.58.0", reason: "looks like a version number"},
		{name: "issue number", input: "#6802", reason: "looks like an issue number"},
		{name: "digit heavy", input: "A12345", reason: "more than half digits"},
		{name: "no letters", input: "-- --", reason: "contains no letters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.reason, v.Reject(tc.input))
			assert.Equal(t, tc.reason == "", v.IsValid(tc.input))
		})
	}
}

func TestValidatorLenient(t *testing.T) {
	v := Validator{}

	// Without strictness, digit-heavy names only need a letter.
	assert.True(t, v.IsValid("A12345"))
	assert.False(t, v.IsValid("2023"))
	assert.False(t, v.IsValid("X"))
}
