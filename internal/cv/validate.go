package cv

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultThreshold is the minimum score for a profile to pass. Tunable.
const DefaultThreshold = 50

const (
	pointsName           = 20
	pointsEmail          = 15
	pointsSkills         = 25
	pointsSkillsTooMany  = 15
	pointsExperience     = 15
	pointsDomain         = 10
	pointsEducation      = 10
	pointsLocation       = 5
	suspiciousSkillCount = 15
)

var namePattern = regexp.MustCompile(`^[\p{L}\p{M}\s'.\-]+$`)

// Validation is the outcome of scoring a profile. A failed validation is a
// result, not an error.
type Validation struct {
	Score   int      `json:"score"`
	Passed  bool     `json:"passed"`
	Details []string `json:"details"`
}

// Validator scores profiles against a pass threshold.
type Validator struct {
	Threshold int
}

func NewValidator(threshold int) Validator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Validator{Threshold: threshold}
}

// Validate scores p with the default threshold.
func Validate(p CandidateProfile) Validation {
	return NewValidator(DefaultThreshold).Validate(p)
}

// Validate scores each signal independently and sums the points.
func (v Validator) Validate(p CandidateProfile) Validation {
	threshold := v.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var (
		score   int
		details = make([]string, 0, 7)
	)
	add := func(points int, format string, args ...any) {
		score += points
		details = append(details, fmt.Sprintf("%s (+%d)", fmt.Sprintf(format, args...), points))
	}

	nameLen := utf8.RuneCountInString(p.Name)
	switch {
	case p.Name == PlaceholderName:
		add(0, "name: placeholder")
	case nameLen >= 2 && nameLen <= 100 && namePattern.MatchString(p.Name):
		add(pointsName, "name: plausible")
	default:
		add(0, "name: missing or implausible %q", p.Name)
	}

	if emailPattern.MatchString(strings.ToLower(strings.TrimSpace(p.Email))) {
		add(pointsEmail, "email: valid")
	} else {
		add(0, "email: missing or malformed")
	}

	switch n := len(p.Skills); {
	case n == 0:
		add(0, "skills: none")
	case n > suspiciousSkillCount:
		add(pointsSkillsTooMany, "skills: %d found, suspiciously many", n)
	default:
		add(pointsSkills, "skills: %d found", n)
	}

	if p.YearsExperience >= 0 && p.YearsExperience <= MaxYearsExperience {
		add(pointsExperience, "experience: %d years", p.YearsExperience)
	} else {
		add(0, "experience: %d years out of range", p.YearsExperience)
	}

	domain := strings.TrimSpace(p.Domain)
	if domain != "" && domain != GenericDomain && utf8.RuneCountInString(domain) > 3 {
		add(pointsDomain, "domain: %s", domain)
	} else {
		add(0, "domain: generic or missing")
	}

	if len(p.Education) > 0 {
		add(pointsEducation, "education: %d entries", len(p.Education))
	} else {
		add(0, "education: none")
	}

	if utf8.RuneCountInString(strings.TrimSpace(p.Location)) > 2 {
		add(pointsLocation, "location: %s", p.Location)
	} else {
		add(0, "location: missing")
	}

	return Validation{
		Score:   score,
		Passed:  score >= threshold,
		Details: details,
	}
}

// Confidence derives the qualitative confidence label.
func Confidence(method Method, score int) ConfidenceLevel {
	switch method {
	case MethodModelStaged:
		switch {
		case score >= 80:
			return ConfidenceVeryHigh
		case score >= 60:
			return ConfidenceHigh
		}
	case MethodHeuristic:
		switch {
		case score >= 70:
			return ConfidenceHigh
		case score >= 50:
			return ConfidenceMedium
		}
	case MethodHeuristicLowConfidence:
		return ConfidenceLow
	}
	return ConfidenceVeryLow
}
