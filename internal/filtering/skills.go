package filtering

import (
	"context"
	"strings"

	"github.com/spigell/skillmatch/internal/cv"
)

type skillsFilter struct {
	toggle
	skills []string
}

// NewSkills creates a filter that keeps candidates having at least one requested skill.
func NewSkills() Filter {
	return &skillsFilter{}
}

func (f *skillsFilter) Name() string { return "skills" }

func (f *skillsFilter) Validate(c *Criteria) error {
	f.skills = nil
	if c != nil {
		f.skills = nonBlank(c.Skills)
	}
	return nil
}

func (f *skillsFilter) Apply(_ context.Context, _ Deps, candidates []cv.CandidateProfile) ([]cv.CandidateProfile, Step, error) {
	if len(f.skills) == 0 {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
	}

	out, step := keep(candidates, func(p cv.CandidateProfile) bool {
		return len(matchedSkills(p, f.skills)) > 0
	})
	return out, step, nil
}

func (f *skillsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"skills": strings.Join(f.skills, ",")},
	}
}
