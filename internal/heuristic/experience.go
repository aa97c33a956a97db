package heuristic

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	minCareerYear = 2005

	seniorYears  = 6
	juniorYears  = 1
	defaultYears = 3
)

var (
	yearsThenUnit = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*(?:years?|yrs|ans|années)\s*(?:of\s+|d['’]\s*)?(?:experience|expérience)`)
	unitThenYears = regexp.MustCompile(`(?i)(?:experience|expérience)\s*(?:of|de|:)?\s*(?:plus de\s+|over\s+)?(\d{1,2})\s*\+?\s*(?:years?|yrs|ans|années)`)
	fourDigitYear = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	ongoing       = regexp.MustCompile(`(?i)\b(?:present|présent|aujourd['’]hui|actuel(?:lement)?|now|current|en cours)\b`)
)

// yearsOfExperience returns the best estimate and, when derived from dates,
// the span it was computed from.
func (e *Extractor) yearsOfExperience(text, lower string, currentYear int) (int, yearSpan) {
	for _, re := range []*regexp.Regexp{yearsThenUnit, unitThenYears} {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return clampHeuristic(n), yearSpan{}
			}
		}
	}

	if span, ok := careerSpan(text, currentYear); ok {
		return clampHeuristic(span.to - span.from), span
	}

	switch {
	case containsAny(e.c.senior, lower):
		return seniorYears, yearSpan{}
	case containsAny(e.c.junior, lower):
		return juniorYears, yearSpan{}
	default:
		return defaultYears, yearSpan{}
	}
}

func careerSpan(text string, currentYear int) (yearSpan, bool) {
	from, to := 0, 0
	for _, m := range fourDigitYear.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err != nil || y < minCareerYear || y > currentYear {
			continue
		}
		if from == 0 || y < from {
			from = y
		}
		if y > to {
			to = y
		}
	}
	if from == 0 {
		return yearSpan{}, false
	}
	if ongoing.MatchString(strings.ToLower(text)) {
		to = currentYear
	}
	if to <= from {
		return yearSpan{}, false
	}
	return yearSpan{from: from, to: to}, true
}

func clampHeuristic(years int) int {
	switch {
	case years < 0:
		return 0
	case years > maxHeuristicYears:
		return maxHeuristicYears
	default:
		return years
	}
}
