package heuristic

import (
	"github.com/spigell/skillmatch/internal/cv"
)

// Narrow extractors used by the staged model extractor when a single stage
// cannot get an answer from the model.

// FallbackYears is the experience assumed when the skills stage falls back.
const FallbackYears = defaultYears

// Identity extracts name, email and phone with regular expressions only.
func (e *Extractor) Identity(text string) cv.Draft {
	return cv.Draft{
		cv.KeyName:  e.name(text, nonEmptyLines(text)),
		cv.KeyEmail: findEmail(text),
		cv.KeyPhone: findPhone(text),
	}
}

// CoreSkills matches the smaller vocabulary and assumes a default
// experience. The domain is left generic.
func (e *Extractor) CoreSkills(text string) cv.Draft {
	skills := matchAll(e.c.coreSkills, text)
	if skills == nil {
		skills = []string{}
	}
	return cv.Draft{
		cv.KeySkills:          skills,
		cv.KeyDomain:          cv.GenericDomain,
		cv.KeyYearsExperience: FallbackYears,
	}
}

// History synthesizes one work entry and one education entry for domain.
func (e *Extractor) History(domain string, skills []string, years int) cv.Draft {
	if domain == "" {
		domain = cv.GenericDomain
	}
	return cv.Draft{
		cv.KeyWorkHistory: []cv.WorkEntry{synthesizeWork(domain, skills, years, yearSpan{})},
		cv.KeyEducation:   []cv.EducationEntry{genericEducation(domain)},
		cv.KeyLanguages:   []string{e.defaults.Language},
		cv.KeySummary:     summarize(domain, years, skills),
	}
}
