package completion

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// UpdateFunc receives the accumulated response text as it grows. While the
// response is still streaming, suggestions is nil. The final invocation
// carries a non-nil suggestions slice (possibly empty), which is the only
// completion signal callers get.
type UpdateFunc func(partial string, suggestions []string)

// Provider defines the contract for any completion backend
type Provider interface {
	// Stream sends a chat history to the model and delivers the growing
	// response through onUpdate. It returns once the final update has been
	// delivered, or with an error if the backend call failed.
	Stream(ctx context.Context, history []Message, onUpdate UpdateFunc, options ...Option) error

	// Chat sends a chat history to the model and returns the full response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
}
