package filtering

import (
	"context"
	"strconv"

	"github.com/spigell/skillmatch/internal/cv"
)

type experienceFilter struct {
	toggle
	min, max int
}

// NewExperience creates a filter that keeps candidates inside the experience range.
func NewExperience() Filter {
	return &experienceFilter{}
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Validate(c *Criteria) error {
	f.min, f.max = DefaultMinExperience, DefaultMaxExperience
	if c != nil {
		f.min, f.max = c.MinExperience, c.MaxExperience
	}
	if f.min > f.max {
		return errExperienceRange
	}
	return nil
}

func (f *experienceFilter) Apply(_ context.Context, _ Deps, candidates []cv.CandidateProfile) ([]cv.CandidateProfile, Step, error) {
	out, step := keep(candidates, func(p cv.CandidateProfile) bool {
		return p.YearsExperience >= f.min && p.YearsExperience <= f.max
	})
	return out, step, nil
}

func (f *experienceFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min": strconv.Itoa(f.min), "max": strconv.Itoa(f.max)},
	}
}
