package heuristic

import (
	"regexp"
	"strings"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/utils"
)

var educationSeparators = regexp.MustCompile(`\s+[-–—|]\s+|,\s*|\s+(?:at|à|chez)\s+`)

func (e *Extractor) education(lines []string, domain string) []cv.EducationEntry {
	var out []cv.EducationEntry
	for _, line := range lines {
		if len(out) == maxEducation {
			break
		}
		if !containsAny(e.c.education, line) || e.isHeader(line) {
			continue
		}
		out = append(out, parseEducationLine(line))
	}
	if len(out) == 0 {
		return []cv.EducationEntry{genericEducation(domain)}
	}
	return out
}

func parseEducationLine(line string) cv.EducationEntry {
	year := fourDigitYear.FindString(line)
	rest := line
	if year != "" {
		rest = strings.Replace(rest, year, "", 1)
	}
	rest = strings.Trim(utils.CollapseSpaces(strings.NewReplacer("(", " ", ")", " ").Replace(rest)), " -–—|,:")

	var parts []string
	for _, p := range educationSeparators.Split(rest, -1) {
		if p = strings.Trim(strings.TrimSpace(p), "-–—|,:"); p != "" {
			parts = append(parts, p)
		}
	}

	entry := cv.EducationEntry{Year: year}
	switch len(parts) {
	case 0:
		entry.Degree = line
	case 1:
		entry.Degree = parts[0]
	default:
		entry.Degree = parts[0]
		entry.Institution = parts[1]
	}
	return entry
}

func genericEducation(domain string) cv.EducationEntry {
	return cv.EducationEntry{
		Degree:      "Formation supérieure en " + domain,
		Institution: "Non précisé",
	}
}
