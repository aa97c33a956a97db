package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillmatch/internal/ai"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorCompleteJoinsParts(t *testing.T) {
	fake := &fakeModels{resp: textResponse(" {\"a\":", "", "1} ")}
	gen := newGenerator(fake, "", zap.NewNop())

	out, err := gen.Complete(context.Background(), ai.Request{
		System:      "extract",
		Prompt:      "  cv text  ",
		MaxTokens:   800,
		Temperature: 0.1,
		TopP:        0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\n1}", out)

	assert.Equal(t, defaultModel, fake.model)
	assert.Equal(t, "cv text", fake.prompt)
	require.NotNil(t, fake.config)
	assert.EqualValues(t, 800, fake.config.MaxOutputTokens)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "extract", fake.config.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.9, float64(*fake.config.TopP), 1e-6)
}

func TestGeneratorCompleteErrors(t *testing.T) {
	gen := newGenerator(&fakeModels{err: errors.New("boom")}, "gemini-2.5-flash", nil)
	_, err := gen.Complete(context.Background(), ai.Request{Prompt: "x"})
	assert.ErrorContains(t, err, "generate content: boom")

	gen = newGenerator(&fakeModels{resp: textResponse("   ")}, "gemini-2.5-flash", nil)
	_, err = gen.Complete(context.Background(), ai.Request{Prompt: "x"})
	assert.ErrorContains(t, err, "empty response")

	_, err = gen.Complete(context.Background(), ai.Request{Prompt: " "})
	assert.ErrorContains(t, err, "prompt must not be empty")

	var nilGen *Generator
	_, err = nilGen.Complete(context.Background(), ai.Request{Prompt: "x"})
	assert.Error(t, err)
	assert.Equal(t, "", nilGen.Model())
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "  ", "", nil)
	assert.Error(t, err)
}
