package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	reply, err := ParseReply("CATEGORY: billing\nCONFIDENCE: 85\nREASON: invoice keywords")
	require.NoError(t, err)
	assert.Equal(t, "BILLING", reply.Category)
	assert.Equal(t, 85, reply.Confidence)
	assert.Equal(t, "invoice keywords", reply.Reason)
}

func TestParseReplyDefaultsAndClamping(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		confidence int
	}{
		{name: "missing confidence", text: "CATEGORY: CS", confidence: 50},
		{name: "non numeric confidence", text: "CATEGORY: CS\nCONFIDENCE: high", confidence: 50},
		{name: "clamped high", text: "CATEGORY: CS\nCONFIDENCE: 250", confidence: 100},
		{name: "clamped low", text: "CATEGORY: CS\nCONFIDENCE: -5", confidence: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reply, err := ParseReply(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.confidence, reply.Confidence)
		})
	}
}

func TestParseReplyMissingCategory(t *testing.T) {
	_, err := ParseReply("I think this commit is about billing.")
	assert.Error(t, err)

	_, err = ParseReply("CATEGORY:\nCONFIDENCE: 90")
	assert.Error(t, err)
}

func TestParseReplySurroundingProse(t *testing.T) {
	text := "Sure! Here is my answer.\n\nCATEGORY: CHECKOUT\nCONFIDENCE: 72\nREASON: cart and payment flow\nHope that helps."
	reply, err := ParseReply(text)
	require.NoError(t, err)
	assert.Equal(t, "CHECKOUT", reply.Category)
	assert.Equal(t, 72, reply.Confidence)
	assert.Equal(t, "cart and payment flow", reply.Reason)
}
