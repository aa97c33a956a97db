// Package heuristic derives a candidate profile from raw CV text with regular
// expressions and keyword tables. It is the safety net used whenever the
// model path is unavailable or produced an implausible record.
package heuristic

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/utils"
)

const (
	maxHeuristicYears = 40
	maxEducation      = 2
	topSkillsInText   = 3
)

// Extractor is safe for concurrent use; it holds only immutable state.
type Extractor struct {
	c        compiled
	defaults cv.Defaults
	now      func() time.Time
}

// New compiles tables. A nil clock means time.Now.
func New(tables Tables, defaults cv.Defaults, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	if defaults.Language == "" || defaults.Region == "" {
		base := cv.DefaultDefaults()
		if defaults.Language == "" {
			defaults.Language = base.Language
		}
		if defaults.Region == "" {
			defaults.Region = base.Region
		}
	}

	return &Extractor{
		c:        compile(tables),
		defaults: defaults,
		now:      now,
	}
}

// Extract builds a best-effort profile. Every step is independent; a step
// that finds nothing falls back to its own default.
func (e *Extractor) Extract(text string) cv.CandidateProfile {
	lines := nonEmptyLines(text)
	lower := strings.ToLower(text)
	currentYear := e.now().Year()

	skills := e.skills(text)
	years, span := e.yearsOfExperience(text, lower, currentYear)
	domain := e.domain(lower)

	return cv.CandidateProfile{
		Name:            e.name(text, lines),
		Email:           findEmail(text),
		Phone:           findPhone(text),
		Skills:          skills,
		YearsExperience: years,
		WorkHistory:     []cv.WorkEntry{synthesizeWork(domain, skills, years, span)},
		Education:       e.education(lines, domain),
		Languages:       e.languages(text),
		Domain:          domain,
		Location:        e.location(text),
		Summary:         summarize(domain, years, skills),
	}
}

func (e *Extractor) skills(text string) []string {
	found := matchAll(e.c.skills, text)
	if len(found) < 3 {
		found = append(found, e.c.softSkills...)
	}
	if found == nil {
		found = []string{}
	}
	return found
}

func (e *Extractor) domain(lower string) string {
	best, bestScore := cv.GenericDomain, 0
	for _, d := range e.c.domains {
		if score := countHits(d.keywords, lower); score > bestScore {
			best, bestScore = d.label, score
		}
	}
	return best
}

func (e *Extractor) languages(text string) []string {
	var out []string
	for _, l := range e.c.languages {
		if containsAny(l.keywords, text) {
			out = append(out, l.name)
		}
	}
	if len(out) == 0 {
		return []string{e.defaults.Language}
	}
	return out
}

type yearSpan struct {
	from, to int
}

func (s yearSpan) String() string {
	if s.from == 0 {
		return ""
	}
	return fmt.Sprintf("%d - %d", s.from, s.to)
}

func synthesizeWork(domain string, skills []string, years int, span yearSpan) cv.WorkEntry {
	period := span.String()
	if period == "" {
		period = fmt.Sprintf("%d ans d'expérience", years)
	}

	description := fmt.Sprintf("Expérience en %s", domain)
	if top := topSkills(skills); top != "" {
		description += " avec " + top
	}

	return cv.WorkEntry{
		Role:        "Spécialiste " + domain,
		Employer:    "Non précisé",
		Period:      period,
		Description: description,
	}
}

func summarize(domain string, years int, skills []string) string {
	summary := fmt.Sprintf("Professionnel %s avec %d ans d'expérience.", domain, years)
	if top := topSkills(skills); top != "" {
		summary += " Compétences principales : " + top + "."
	}
	return utils.TruncateRunes(summary, cv.MaxSummaryRunes)
}

func topSkills(skills []string) string {
	if len(skills) > topSkillsInText {
		skills = skills[:topSkillsInText]
	}
	return strings.Join(skills, ", ")
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = utils.CollapseSpaces(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
