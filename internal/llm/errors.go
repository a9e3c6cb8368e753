package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is the closed set of LLM failure categories. Call sites handle
// failures by kind rather than by concrete type inspection.
type Kind string

const (
	// KindTimeout marks a time-bounded call that did not complete.
	KindTimeout Kind = "timeout"

	// KindTransport marks a network or HTTP-level failure.
	KindTransport Kind = "transport"

	// KindConfig marks missing or invalid provider configuration.
	KindConfig Kind = "config"

	// KindResponse marks a well-formed transport reply the provider
	// could not decode.
	KindResponse Kind = "response"
)

// Error carries structured context for one failed provider call.
type Error struct {
	Kind Kind
	Op   string // Provider or operation name
	Hint string // Optional actionable suggestion
	Err  error  // Optional underlying error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("llm %s error in %s", e.Kind, e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies an error from a provider call. Context deadlines and
// net timeouts map to KindTimeout regardless of how they were wrapped.
func KindOf(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind
	}
	return KindTransport
}

// Retryable reports whether an error kind is transient. Only timeouts and
// transport failures warrant another attempt.
func Retryable(kind Kind) bool {
	return kind == KindTimeout || kind == KindTransport
}
