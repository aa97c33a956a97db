package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/cv"
)

type domainFilter struct {
	toggle
	domain string
}

// NewDomain creates a filter that keeps candidates whose domain mentions the requested one.
func NewDomain() Filter {
	return &domainFilter{}
}

func (f *domainFilter) Name() string { return "domain" }

func (f *domainFilter) Validate(c *Criteria) error {
	f.domain = ""
	if c != nil {
		f.domain = strings.ToLower(strings.TrimSpace(c.Domain))
	}
	return nil
}

func (f *domainFilter) Apply(_ context.Context, deps Deps, candidates []cv.CandidateProfile) ([]cv.CandidateProfile, Step, error) {
	if f.domain == "" {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
	}

	out, step := keep(candidates, func(p cv.CandidateProfile) bool {
		return strings.Contains(strings.ToLower(p.Domain), f.domain)
	})
	if deps.Logger != nil && step.Dropped > 0 {
		deps.Logger.Debug("excluding candidates by domain", zap.String("domain", f.domain), zap.Int("dropped", step.Dropped))
	}
	return out, step, nil
}

func (f *domainFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"domain": f.domain},
	}
}
