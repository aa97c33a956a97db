// Package staged extracts a CV with three narrow model prompts. Each stage is
// retried on its own and degrades to a narrow heuristic when the model cannot
// answer, so one bad stage never loses the others.
package staged

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/heuristic"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/retry"
	"github.com/spigell/skillmatch/internal/utils"
)

// ErrNoModelStage is returned when every stage had to fall back, meaning the
// draft carries no model output at all.
var ErrNoModelStage = errors.New("no extraction stage was answered by the model")

type Gateway interface {
	Available() bool
	Invoke(ctx context.Context, prompt string, opts ai.Options) (map[string]any, error)
}

// Fallbacks are the per-stage narrow extractors.
type Fallbacks interface {
	Identity(text string) cv.Draft
	CoreSkills(text string) cv.Draft
	History(domain string, skills []string, years int) cv.Draft
}

type Config struct {
	Taxonomy []string
	Retry    retry.Policy
	// Parallel runs the identity and skills stages concurrently.
	Parallel bool
}

type Extractor struct {
	gateway   Gateway
	fallbacks Fallbacks
	cfg       Config
	logger    *zap.Logger
}

// Result is the merged draft plus the outcome of every stage.
type Result struct {
	Draft  cv.Draft
	Stages []cv.StageOutcome
}

// ModelStages counts the stages answered by the model.
func (r Result) ModelStages() int {
	n := 0
	for _, s := range r.Stages {
		if s.Source == SourceModel {
			n++
		}
	}
	return n
}

func New(gateway Gateway, fallbacks Fallbacks, cfg Config, log *zap.Logger) *Extractor {
	if len(cfg.Taxonomy) == 0 {
		cfg.Taxonomy = heuristic.DefaultTables().DomainLabels()
	}
	return &Extractor{
		gateway:   gateway,
		fallbacks: fallbacks,
		cfg:       cfg,
		logger:    logger.OrNop(log),
	}
}

// Extract runs the three stages. The returned Result is always usable; the
// error is ErrNoModelStage when no stage got a model answer.
func (e *Extractor) Extract(ctx context.Context, text string) (Result, error) {
	if e.gateway == nil || !e.gateway.Available() {
		return e.fallbackOnly(text), ErrNoModelStage
	}

	var (
		identity, skills               cv.Draft
		identityOutcome, skillsOutcome cv.StageOutcome
	)

	runIdentity := func() {
		identity, identityOutcome = e.run(ctx, identityStage, text, func() cv.Draft {
			return e.fallbacks.Identity(text)
		})
	}
	runSkills := func() {
		skills, skillsOutcome = e.run(ctx, skillsStage, text, func() cv.Draft {
			return e.fallbacks.CoreSkills(text)
		})
	}

	if e.cfg.Parallel {
		var g errgroup.Group
		g.Go(func() error { runIdentity(); return nil })
		g.Go(func() error { runSkills(); return nil })
		_ = g.Wait()
	} else {
		runIdentity()
		runSkills()
	}

	draft := identity.Merge(skills)

	// The history fallback reuses whatever domain the skills stage settled
	// on, including its own generic default.
	history, historyOutcome := e.run(ctx, historyStage, text, func() cv.Draft {
		return e.fallbacks.History(draft.String(cv.KeyDomain), ai.CoerceStrings(draft[cv.KeySkills]), draftYears(draft))
	})
	draft = draft.Merge(history)

	result := Result{
		Draft:  draft,
		Stages: []cv.StageOutcome{identityOutcome, skillsOutcome, historyOutcome},
	}
	if result.ModelStages() == 0 {
		return result, ErrNoModelStage
	}
	return result, nil
}

func (e *Extractor) run(ctx context.Context, st stage, text string, fallback func() cv.Draft) (cv.Draft, cv.StageOutcome) {
	log := logger.WithStage(e.logger, st.name)

	excerpt := text
	if st.window > 0 {
		excerpt = utils.TruncateRunes(text, st.window)
	}
	prompt := st.prompt(excerpt, e.cfg.Taxonomy)

	draft, err := retry.Do(ctx, e.policy(log), func(ctx context.Context, timeout time.Duration) (cv.Draft, error) {
		opts := st.options
		opts.Timeout = timeout

		payload, err := e.gateway.Invoke(ctx, prompt, opts)
		if err != nil {
			return nil, err
		}
		if err := st.schema.check(payload); err != nil {
			return nil, &ai.ModelError{Op: "schema", Err: err}
		}
		draft, err := st.decode(payload, e.cfg.Taxonomy)
		if err != nil {
			return nil, &ai.ModelError{Op: "decode", Err: err}
		}
		return draft, nil
	})
	if err != nil {
		log.Warn("stage fell back to heuristic", zap.Error(err))
		return fallback(), cv.StageOutcome{Name: st.name, Source: SourceFallback, Error: err.Error()}
	}

	log.Debug("stage answered by model", zap.Int("fields", len(draft)))
	return draft, cv.StageOutcome{Name: st.name, Source: SourceModel}
}

func (e *Extractor) policy(log *zap.Logger) retry.Policy {
	p := e.cfg.Retry
	p.Logger = log
	return p
}

func (e *Extractor) fallbackOnly(text string) Result {
	draft := e.fallbacks.Identity(text).Merge(e.fallbacks.CoreSkills(text))
	draft = draft.Merge(e.fallbacks.History(draft.String(cv.KeyDomain), ai.CoerceStrings(draft[cv.KeySkills]), draftYears(draft)))

	reason := ai.ErrUnavailable.Error()
	return Result{
		Draft: draft,
		Stages: []cv.StageOutcome{
			{Name: StageIdentity, Source: SourceFallback, Error: reason},
			{Name: StageSkills, Source: SourceFallback, Error: reason},
			{Name: StageHistory, Source: SourceFallback, Error: reason},
		},
	}
}

func draftYears(d cv.Draft) int {
	f := ai.CoerceFloat(d[cv.KeyYearsExperience])
	if math.IsNaN(f) {
		return heuristic.FallbackYears
	}
	return cv.ClampYears(f)
}
