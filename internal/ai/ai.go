// Package ai is the model gateway: it sends prompts to a hosted text-completion
// service and turns its free-form answers into JSON objects.
package ai

import (
	"context"
	"time"
)

// Request is a single chat-style completion request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Completer is implemented by completion backends (OpenAI-compatible chat, Gemini).
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
	Model() string
}

// Options tune one gateway invocation.
type Options struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

const (
	defaultMaxTokens   = 1500
	defaultTemperature = 0.1
	defaultTopP        = 0.9
	defaultTimeout     = 90 * time.Second
)

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Temperature < 0 {
		o.Temperature = defaultTemperature
	}
	if o.TopP <= 0 {
		o.TopP = defaultTopP
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}
