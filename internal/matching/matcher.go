package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/retry"
)

const (
	DefaultRankLimit   = 10
	DefaultConcurrency = 4
)

type Gateway interface {
	Available() bool
	Invoke(ctx context.Context, prompt string, opts ai.Options) (map[string]any, error)
}

type Config struct {
	Retry       retry.Policy
	Concurrency int
}

type Matcher struct {
	gateway Gateway
	cfg     Config
	logger  *zap.Logger
}

// New returns a matcher. A nil or unavailable gateway means heuristic only.
func New(gateway Gateway, cfg Config, log *zap.Logger) *Matcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Matcher{gateway: gateway, cfg: cfg, logger: logger.OrNop(log)}
}

// Match never fails: any model problem degrades to Heuristic.
func (m *Matcher) Match(ctx context.Context, job JobPosting, candidate cv.CandidateProfile) MatchResult {
	if m.gateway == nil || !m.gateway.Available() {
		return Heuristic(job, candidate)
	}

	prompt, err := buildPrompt(job, candidate)
	if err != nil {
		m.logger.Warn("build match prompt", zap.Error(err))
		return Heuristic(job, candidate)
	}

	policy := m.cfg.Retry
	policy.Logger = m.logger
	result, err := retry.Do(ctx, policy, func(ctx context.Context, timeout time.Duration) (MatchResult, error) {
		payload, err := m.gateway.Invoke(ctx, prompt, ai.Options{MaxTokens: 800, Temperature: 0.2, Timeout: timeout})
		if err != nil {
			return MatchResult{}, err
		}
		return parseAnswer(payload)
	})
	if err != nil {
		m.logger.Warn("model match unusable, using heuristic",
			zap.String("job", job.Title),
			zap.String("candidate", candidate.Name),
			zap.Error(err),
		)
		return Heuristic(job, candidate)
	}

	return result
}

func buildPrompt(job JobPosting, candidate cv.CandidateProfile) (string, error) {
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	summary := map[string]any{
		"name":            candidate.Name,
		"skills":          candidate.Skills,
		"yearsExperience": candidate.YearsExperience,
		"domain":          candidate.Domain,
		"location":        candidate.Location,
		"summary":         candidate.Summary,
		"workHistory":     candidate.WorkHistory,
	}
	candidateJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}

	return fmt.Sprintf(`Assess how well the candidate fits the job.
Return JSON: {"score": 0.0, "strengths": ["..."], "weaknesses": ["..."], "recommendation": ""}
score is a number between 0 and 1.

Job:
%s

Candidate:
%s`, jobJSON, candidateJSON), nil
}

func parseAnswer(payload map[string]any) (MatchResult, error) {
	score := ai.CoerceFloat(payload["score"])
	if math.IsNaN(score) {
		return MatchResult{}, &ai.ModelError{Op: "decode", Err: errors.New("answer has no numeric score")}
	}
	// Some models answer in percent despite the instructions.
	if score > 1 && score <= 100 {
		score /= 100
	}
	if score < 0 || score > 1 {
		return MatchResult{}, &ai.ModelError{Op: "decode", Err: fmt.Errorf("score %v out of range", score)}
	}

	strengths := ai.CoerceStrings(payload["strengths"])
	if strengths == nil {
		strengths = []string{}
	}
	weaknesses := ai.CoerceStrings(payload["weaknesses"])
	if weaknesses == nil {
		weaknesses = []string{}
	}

	return MatchResult{
		Score:          score,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		Recommendation: ai.CoerceString(payload["recommendation"]),
		Method:         MethodModel,
	}, nil
}

// RankedCandidate is one line of a ranking.
type RankedCandidate struct {
	Candidate cv.CandidateProfile `json:"candidate"`
	Match     MatchResult         `json:"match"`
}

// RankCandidates matches every candidate against job and returns the best
// limit of them, highest score first. Ties keep input order.
func (m *Matcher) RankCandidates(ctx context.Context, job JobPosting, candidates []cv.CandidateProfile, limit int) []RankedCandidate {
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	ranked := make([]RankedCandidate, len(candidates))
	m.forEach(ctx, len(candidates), func(ctx context.Context, i int) {
		ranked[i] = RankedCandidate{Candidate: candidates[i], Match: m.Match(ctx, job, candidates[i])}
	})

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Match.Score > ranked[b].Match.Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// JobRecommendation is one job suggested for a candidate.
type JobRecommendation struct {
	Job   JobPosting  `json:"job"`
	Match MatchResult `json:"match"`
}

// RecommendJobs returns the jobs that fit candidate best.
func (m *Matcher) RecommendJobs(ctx context.Context, candidate cv.CandidateProfile, jobs []JobPosting, limit int) []JobRecommendation {
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	recs := make([]JobRecommendation, len(jobs))
	m.forEach(ctx, len(jobs), func(ctx context.Context, i int) {
		recs[i] = JobRecommendation{Job: jobs[i], Match: m.Match(ctx, jobs[i], candidate)}
	})

	sort.SliceStable(recs, func(a, b int) bool {
		return recs[a].Match.Score > recs[b].Match.Score
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func (m *Matcher) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
