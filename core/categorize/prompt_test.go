package categorize

import (
	"testing"

	"github.com/marcomd/metricmind/schema"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	commit := &schema.Commit{Hash: "abc123", Subject: "BILLING | add proration"}

	prompt := BuildPrompt(commit, []string{"BILLING", "AUTH"}, []string{"invoice.go"})
	assert.Contains(t, prompt, "abc123")
	assert.Contains(t, prompt, "BILLING | add proration")
	assert.Contains(t, prompt, "Approved categories: BILLING, AUTH")
	assert.Contains(t, prompt, "Files: invoice.go")
	assert.Contains(t, prompt, "CATEGORY:")
	assert.Contains(t, prompt, "CONFIDENCE:")
	assert.Contains(t, prompt, "REASON:")
}

func TestBuildPromptEmptyVocabulary(t *testing.T) {
	commit := &schema.Commit{Hash: "def456", Subject: "fix typo"}

	prompt := BuildPrompt(commit, nil, nil)
	assert.NotContains(t, prompt, "Approved categories")
	assert.NotContains(t, prompt, "Files:")
	assert.Contains(t, prompt, "no approved categories yet")
}
