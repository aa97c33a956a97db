package cv

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/utils"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	leadingInt   = regexp.MustCompile(`-?\d+`)
)

// Normalize turns a draft into a profile that satisfies every structural
// invariant. It never fails; gaps are filled from defaults. Metadata is left
// zero for the caller to attach.
func Normalize(d Draft, defaults Defaults) CandidateProfile {
	defaults = defaults.withFallbacks()

	p := CandidateProfile{
		Name:            normalizeName(d[KeyName]),
		Email:           normalizeEmail(d[KeyEmail]),
		Phone:           utils.CollapseSpaces(ai.CoerceString(d[KeyPhone])),
		Skills:          normalizeSkills(d[KeySkills]),
		YearsExperience: normalizeYears(d[KeyYearsExperience]),
		WorkHistory:     normalizeWork(d[KeyWorkHistory]),
		Education:       normalizeEducation(d[KeyEducation]),
		Languages:       ai.CoerceStrings(d[KeyLanguages]),
		Domain:          utils.CollapseSpaces(ai.CoerceString(d[KeyDomain])),
		Location:        utils.CollapseSpaces(ai.CoerceString(d[KeyLocation])),
		Summary:         utils.TruncateRunes(strings.TrimSpace(ai.CoerceString(d[KeySummary])), MaxSummaryRunes),
	}

	if len(p.Languages) == 0 {
		p.Languages = []string{defaults.Language}
	}
	if p.Domain == "" {
		p.Domain = GenericDomain
	}
	if p.Location == "" {
		p.Location = defaults.Region
	}

	return p
}

func normalizeName(v any) string {
	name := utils.CollapseSpaces(ai.CoerceString(v))
	if name == "" {
		return PlaceholderName
	}
	return name
}

func normalizeEmail(v any) string {
	email := strings.ToLower(strings.TrimSpace(ai.CoerceString(v)))
	if !emailPattern.MatchString(email) {
		return ""
	}
	return email
}

func normalizeSkills(v any) []string {
	skills := make([]string, 0, MaxSkills)
	seen := make(map[string]struct{})
	for _, s := range ai.CoerceStrings(v) {
		s = utils.CollapseSpaces(s)
		if utf8.RuneCountInString(s) <= 1 {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, s)
		if len(skills) == MaxSkills {
			break
		}
	}
	return skills
}

func normalizeYears(v any) int {
	f := ai.CoerceFloat(v)
	if math.IsNaN(f) {
		s, ok := v.(string)
		if !ok {
			return 0
		}
		m := leadingInt.FindString(s)
		if m == "" {
			return 0
		}
		n, err := strconv.ParseFloat(m, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		f = n
	}
	return ClampYears(f)
}

// ClampYears floors f and bounds it to [0, MaxYearsExperience] before
// converting, so huge or infinite values land on the bounds. NaN gives 0.
func ClampYears(f float64) int {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > MaxYearsExperience:
		return MaxYearsExperience
	default:
		return int(math.Floor(f))
	}
}

func normalizeWork(v any) []WorkEntry {
	out := []WorkEntry{}
	switch val := v.(type) {
	case []WorkEntry:
		for _, e := range val {
			out = append(out, cleanWork(e))
		}
	case []any:
		for _, item := range val {
			var e WorkEntry
			switch it := item.(type) {
			case map[string]any:
				if err := mapstructure.WeakDecode(it, &e); err != nil {
					continue
				}
			case string:
				e.Description = it
			default:
				continue
			}
			out = append(out, cleanWork(e))
		}
	}
	return out
}

func cleanWork(e WorkEntry) WorkEntry {
	return WorkEntry{
		Role:        utils.CollapseSpaces(e.Role),
		Employer:    utils.CollapseSpaces(e.Employer),
		Period:      utils.CollapseSpaces(e.Period),
		Description: strings.TrimSpace(e.Description),
	}
}

func normalizeEducation(v any) []EducationEntry {
	out := []EducationEntry{}
	switch val := v.(type) {
	case []EducationEntry:
		for _, e := range val {
			out = append(out, cleanEducation(e))
		}
	case []any:
		for _, item := range val {
			var e EducationEntry
			switch it := item.(type) {
			case map[string]any:
				if err := mapstructure.WeakDecode(it, &e); err != nil {
					continue
				}
			case string:
				e.Degree = it
			default:
				continue
			}
			out = append(out, cleanEducation(e))
		}
	}
	return out
}

func cleanEducation(e EducationEntry) EducationEntry {
	return EducationEntry{
		Degree:      utils.CollapseSpaces(e.Degree),
		Institution: utils.CollapseSpaces(e.Institution),
		Year:        utils.CollapseSpaces(e.Year),
	}
}
