// Package chat implements ai.Completer for OpenAI-compatible chat-completions
// endpoints (Azure AI model deployments, DeepSeek, OpenAI).
package chat

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/utils"
)

const (
	provider        = "chat"
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/skillmatch"
	maxErrorBody    = 512
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to a single chat-completions endpoint.
type Client struct {
	endpoint string
	model    string
	token    string
	logger   *zap.Logger

	HTTPClient *http.Client
	UserAgent  string
}

// New returns a client for endpoint authenticated with the bearer token.
func New(endpoint, model, token string, log *zap.Logger) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("chat endpoint is required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("chat api key is required")
	}

	return &Client{
		endpoint: endpoint,
		model:    strings.TrimSpace(model),
		token:    token,
		logger:   logger.WithCommonFields(log, provider, model),
		// Per-call deadlines come from the context; this is only a backstop.
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
		UserAgent:  userAgent,
	}, nil
}

func (c *Client) Provider() string { return provider }

func (c *Client) Model() string { return c.model }

// Complete posts a system+user conversation and returns the first choice.
func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	messages := make([]message, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, message{Role: "system", Content: system})
	}
	messages = append(messages, message{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setHeaders(httpReq)

	c.logger.Debug("make request", zap.String("url", c.endpoint))
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(data), maxErrorBody))
	}

	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("completion response is empty")
	}

	return content, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(reader)
}
