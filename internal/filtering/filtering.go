// Package filtering narrows a candidate pool with a sequence of independent
// filters, each reporting how many candidates it dropped.
package filtering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/logger"
)

const (
	DefaultMinExperience = 0
	DefaultMaxExperience = 20
)

// Filter represents a single filtering step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(c *Criteria) error
	Apply(ctx context.Context, deps Deps, candidates []cv.CandidateProfile) ([]cv.CandidateProfile, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Criteria is an advanced candidate search. Empty fields do not filter.
type Criteria struct {
	Skills        []string `json:"skills" mapstructure:"skills"`
	MinExperience int      `json:"minExperience" mapstructure:"min-experience" validate:"gte=0,lte=50"`
	MaxExperience int      `json:"maxExperience" mapstructure:"max-experience" validate:"gte=0,lte=50"`
	Domain        string   `json:"domain" mapstructure:"domain"`
	Location      string   `json:"location" mapstructure:"location"`
}

// DefaultCriteria matches every candidate with up to 20 years of experience.
func DefaultCriteria() Criteria {
	return Criteria{MinExperience: DefaultMinExperience, MaxExperience: DefaultMaxExperience}
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// toggle is embedded by filters to implement Disable/IsEnabled.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// DefaultSteps returns the filters in the order they are applied.
func DefaultSteps() []Filter {
	return []Filter{
		NewExperience(),
		NewDomain(),
		NewLocation(),
		NewSkills(),
	}
}

// Steps returns the default filters with the ones c leaves empty disabled.
func Steps(c Criteria) []Filter {
	steps := DefaultSteps()
	if strings.TrimSpace(c.Domain) == "" {
		DisableByName(steps, "domain", "no domain requested")
	}
	if strings.TrimSpace(c.Location) == "" {
		DisableByName(steps, "location", "no location requested")
	}
	if len(nonBlank(c.Skills)) == 0 {
		DisableByName(steps, "skills", "no skills requested")
	}
	return steps
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the survivors.
// The input slice is never modified.
func Run(ctx context.Context, c *Criteria, deps Deps, steps []Filter, candidates []cv.CandidateProfile) ([]cv.CandidateProfile, error) {
	log := logger.OrNop(deps.Logger)
	deps.Logger = log

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(c); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	current := append([]cv.CandidateProfile(nil), candidates...)
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !step.IsEnabled() {
			log.Info("filter disabled", zap.String("name", step.Name()), zap.String("reason", reasonOf(step)))
			continue
		}

		next, info, err := step.Apply(ctx, deps, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		log.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		current = next
	}

	return current, nil
}

func reasonOf(step Filter) string {
	if reporter, ok := step.(statusProvider); ok {
		return reporter.Status().Reason
	}
	return ""
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// Hit is a candidate that survived a search.
type Hit struct {
	Candidate     cv.CandidateProfile `json:"candidate"`
	MatchedSkills []string            `json:"matchedSkills"`
}

// Result holds the surviving candidates and the state of every step.
type Result struct {
	Hits  []Hit    `json:"results"`
	Steps []Status `json:"steps"`
}

// Search runs Steps(c) and orders the survivors by how many of the requested
// skills they have. Ties keep input order.
func Search(ctx context.Context, c Criteria, log *zap.Logger, candidates []cv.CandidateProfile) (Result, error) {
	steps := Steps(c)
	left, err := Run(ctx, &c, Deps{Logger: log}, steps, candidates)
	if err != nil {
		return Result{}, err
	}

	hits := make([]Hit, 0, len(left))
	for _, p := range left {
		hits = append(hits, Hit{Candidate: p, MatchedSkills: matchedSkills(p, c.Skills)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return len(hits[i].MatchedSkills) > len(hits[j].MatchedSkills)
	})
	return Result{Hits: hits, Steps: Describe(steps)}, nil
}

var errExperienceRange = errors.New("minimum experience is greater than maximum")

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func matchedSkills(p cv.CandidateProfile, wanted []string) []string {
	matched := []string{}
	for _, w := range nonBlank(wanted) {
		for _, s := range p.Skills {
			if strings.EqualFold(strings.TrimSpace(s), w) {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched
}

// keep returns the candidates for which pred holds and the step summary.
func keep(candidates []cv.CandidateProfile, pred func(cv.CandidateProfile) bool) ([]cv.CandidateProfile, Step) {
	out := make([]cv.CandidateProfile, 0, len(candidates))
	for _, p := range candidates {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out, Step{Initial: len(candidates), Dropped: len(candidates) - len(out), Left: len(out)}
}
