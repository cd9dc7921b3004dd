// Package llm defines the interface to chat-completion backends. The
// answer service consumes a Provider; concrete implementations live in
// subpackages so their SDK dependencies stay out of callers.
package llm

import (
	"context"
	"errors"
)

// Options tune a single generation call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider generates a completion for a prompt.
type Provider interface {
	// Name returns the provider identifier ("openai", "google").
	Name() string

	// Generate sends the prompt and returns the completion text.
	// Implementations must respect ctx cancellation.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// ErrEmptyCompletion indicates the backend returned a response with no
// usable text.
var ErrEmptyCompletion = errors.New("llm returned empty completion")

// TransientError wraps an error that is worth retrying, such as a rate
// limit or a 5xx from the backend.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient llm error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
