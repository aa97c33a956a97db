package filtering

import (
	"context"
	"strings"

	"github.com/spigell/skillmatch/internal/cv"
)

type locationFilter struct {
	toggle
	location string
}

// NewLocation creates a filter that keeps candidates located in the requested place.
func NewLocation() Filter {
	return &locationFilter{}
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Validate(c *Criteria) error {
	f.location = ""
	if c != nil {
		f.location = strings.ToLower(strings.TrimSpace(c.Location))
	}
	return nil
}

func (f *locationFilter) Apply(_ context.Context, _ Deps, candidates []cv.CandidateProfile) ([]cv.CandidateProfile, Step, error) {
	if f.location == "" {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
	}

	out, step := keep(candidates, func(p cv.CandidateProfile) bool {
		return strings.Contains(strings.ToLower(p.Location), f.location)
	})
	return out, step, nil
}

func (f *locationFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"location": f.location},
	}
}
