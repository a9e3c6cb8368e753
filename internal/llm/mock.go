package llm

import (
	"context"
	"fmt"
)

// Mock is a test provider that returns predictable responses.
type Mock struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
}

var _ Provider = &Mock{} // Compile-time check

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return fmt.Sprintf("CATEGORY: GENERAL\nCONFIDENCE: 50\nREASON: mock reply for %.40s", prompt), nil
}
