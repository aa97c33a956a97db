package ai

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/utils"
)

const (
	defaultSystemInstruction = "You are an expert HR analyst. Answer with a single JSON object and nothing else."
	defaultMaxLogLength      = 200
)

// Gateway wraps a Completer with a per-call timeout and JSON extraction.
// It never retries; see package retry.
type Gateway struct {
	completer Completer
	system    string
	logger    *zap.Logger
	maxLogLen int
}

// NewGateway returns a gateway over completer. A nil completer yields a
// gateway whose every call fails with ErrUnavailable.
func NewGateway(completer Completer, log *zap.Logger, maxLogLength int) *Gateway {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	g := &Gateway{
		completer: completer,
		system:    defaultSystemInstruction,
		maxLogLen: maxLogLength,
	}
	if completer != nil {
		g.logger = logger.WithCommonFields(log, completer.Provider(), completer.Model())
	} else {
		g.logger = logger.OrNop(log)
	}
	return g
}

// Available reports whether a backend is configured.
func (g *Gateway) Available() bool {
	return g != nil && g.completer != nil
}

// Invoke sends prompt and returns the JSON object found in the answer.
func (g *Gateway) Invoke(ctx context.Context, prompt string, opts Options) (map[string]any, error) {
	raw, err := g.Complete(ctx, g.system, prompt, opts)
	if err != nil {
		return nil, err
	}

	payload, err := ParseObject(raw)
	if err != nil {
		g.logger.Debug("model returned malformed json",
			zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
			zap.Error(err),
		)
		return nil, &ModelError{Op: "decode", Err: err}
	}

	return payload, nil
}

// Complete sends a raw system+user request and returns the answer text.
func (g *Gateway) Complete(ctx context.Context, system, prompt string, opts Options) (string, error) {
	if !g.Available() {
		return "", &ModelError{Op: "invoke", Err: ErrUnavailable}
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &ModelError{Op: "invoke", Err: errors.New("prompt must not be empty")}
	}

	opts = opts.withDefaults()

	callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	g.logger.Debug("model request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
		zap.Duration("timeout", opts.Timeout),
	)

	raw, err := g.completer.Complete(callCtx, Request{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	})
	if err != nil {
		if callCtx.Err() != nil && ctx.Err() == nil {
			err = errors.Join(err, callCtx.Err())
		}
		return "", &ModelError{Op: "invoke", Err: err}
	}

	g.logger.Debug("model response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	return raw, nil
}
