// Package jobdesc drafts job descriptions with the completion service and
// cleans the answer into plain Markdown with hyphen bullets.
package jobdesc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/retry"
	"github.com/spigell/skillmatch/internal/utils"
)

const (
	systemInstruction = "You are an expert HR professional who creates clear, well-structured job descriptions. " +
		"Always use clean formatting with simple markdown headers (##) and bullet points (-). " +
		"Avoid special characters, emojis, or complex formatting."

	maxTitleRunes        = 200
	maxRequirementsRunes = 2000
	maxCompanyRunes      = 1000
)

var ErrEmptyTitle = errors.New("job title is required")

// Request describes the position to write about.
type Request struct {
	Title        string `json:"title" binding:"required"`
	Requirements string `json:"requirements"`
	CompanyInfo  string `json:"companyInfo"`
}

type Completer interface {
	Complete(ctx context.Context, system, prompt string, opts ai.Options) (string, error)
}

type Generator struct {
	completer Completer
	policy    retry.Policy
	logger    *zap.Logger
}

func New(completer Completer, policy retry.Policy, log *zap.Logger) *Generator {
	log = logger.OrNop(log)
	policy.Logger = log
	return &Generator{completer: completer, policy: policy, logger: log}
}

// Generate returns the cleaned description. Unlike CV analysis this surfaces
// model failures to the caller.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	req = sanitize(req)
	if req.Title == "" {
		return "", ErrEmptyTitle
	}
	if g.completer == nil {
		return "", &ai.ModelError{Op: "invoke", Err: ai.ErrUnavailable}
	}

	prompt := buildPrompt(req)
	raw, err := retry.Do(ctx, g.policy, func(ctx context.Context, timeout time.Duration) (string, error) {
		return g.completer.Complete(ctx, systemInstruction, prompt, ai.Options{
			MaxTokens:   1000,
			Temperature: 0.6,
			TopP:        0.9,
			Timeout:     timeout,
		})
	})
	if err != nil {
		return "", fmt.Errorf("generate job description: %w", err)
	}

	text := Clean(raw)
	if text == "" {
		return "", &ai.ModelError{Op: "generate", Err: errors.New("empty job description")}
	}

	g.logger.Debug("job description generated", zap.String("title", req.Title), zap.Int("length", len(text)))
	return text, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional HR specialist. Create a clean, well-structured job description for a %q position.\n\n", req.Title)
	fmt.Fprintf(&b, "Requirements to include: %s\n\n", req.Requirements)
	if req.CompanyInfo != "" {
		fmt.Fprintf(&b, "Company context: %s\n\n", req.CompanyInfo)
	}
	b.WriteString(`Please format the response with clear sections using this structure:

## Job Overview
[A brief, engaging introduction about the role]

## Key Responsibilities
- [4-5 main responsibilities with action verbs]

## Required Qualifications
- [Essential skills, education and years of experience]

## Preferred Skills
- [Nice-to-have skills, technologies or certifications]

## What We Offer
- Competitive salary package
- Professional development opportunities
- Flexible working arrangements
- Health and wellness benefits

Keep the language professional and clear. Use simple bullet points with hyphens (-) only.`)
	return b.String()
}

// sanitize flattens free-text fields to single lines and neutralises square
// brackets so that user input cannot pose as prompt sections.
func sanitize(req Request) Request {
	return Request{
		Title:        sanitizeField(req.Title, maxTitleRunes),
		Requirements: sanitizeField(req.Requirements, maxRequirementsRunes),
		CompanyInfo:  sanitizeField(req.CompanyInfo, maxCompanyRunes),
	}
}

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")")

func sanitizeField(s string, limit int) string {
	s = utils.CollapseSpaces(bracketReplacer.Replace(s))
	return utils.TruncateRunes(s, limit)
}
