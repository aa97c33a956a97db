package matching

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/skillmatch/internal/cv"
)

const (
	weightSkills     = 0.4
	weightExperience = 0.3
	weightDomain     = 0.2
	weightQuality    = 0.1

	seniorMinYears = 5
	juniorMaxYears = 3

	domainMatch   = 1.0
	domainNeutral = 0.5
	domainMiss    = 0.3
)

var (
	seniorCue = regexp.MustCompile(`(?i)\b(?:senior|expert|lead|confirmé|sénior|expérimenté)`)
	juniorCue = regexp.MustCompile(`(?i)\b(?:junior|débutant|stagiaire|entry[ -]level|graduate)\b`)
)

// components holds the partial scores in [0,1].
type components struct {
	skills     float64
	matched    []string
	experience float64
	domain     float64
	quality    float64
}

// Heuristic scores candidate against job without any model call.
func Heuristic(job JobPosting, candidate cv.CandidateProfile) MatchResult {
	text := strings.ToLower(job.Text())
	c := components{
		experience: experienceScore(text, candidate.YearsExperience),
		domain:     domainScore(text, candidate.Domain),
		quality:    clamp(float64(candidate.Metadata.ValidationScore)/100, 0, 1),
	}
	c.matched = matchedSkills(text, candidate.Skills)
	if len(candidate.Skills) > 0 {
		c.skills = float64(len(c.matched)) / float64(len(candidate.Skills))
	}

	score := weightSkills*c.skills + weightExperience*c.experience + weightDomain*c.domain + weightQuality*c.quality
	score = clamp(math.Round(score*100)/100, 0, MaxHeuristicScore)

	strengths, weaknesses := explain(c, candidate)
	return MatchResult{
		Score:          score,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		Recommendation: recommendation(score),
		Method:         MethodHeuristic,
	}
}

func matchedSkills(text string, skills []string) []string {
	matched := []string{}
	for _, s := range skills {
		needle := strings.ToLower(strings.TrimSpace(s))
		if needle == "" {
			continue
		}
		if containsWord(text, needle) {
			matched = append(matched, s)
		}
	}
	return matched
}

// containsWord reports whether needle occurs in text with non-alphanumeric
// characters (or the text edges) on both sides.
func containsWord(text, needle string) bool {
	for from := 0; from <= len(text)-len(needle); {
		idx := strings.Index(text[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}

func experienceScore(text string, years int) float64 {
	switch {
	case seniorCue.MatchString(text):
		if years >= seniorMinYears {
			return 1
		}
		return float64(max(years, 0)) / seniorMinYears
	case juniorCue.MatchString(text):
		if years <= juniorMaxYears {
			return 1
		}
		return 0.7
	default:
		return math.Min(1, 0.5+0.1*float64(max(years, 0)))
	}
}

func domainScore(text, domain string) float64 {
	domain = strings.TrimSpace(domain)
	if domain == "" || domain == cv.GenericDomain {
		return domainNeutral
	}
	for _, w := range strings.FieldsFunc(strings.ToLower(domain), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len([]rune(w)) > 2 && containsWord(text, w) {
			return domainMatch
		}
	}
	return domainMiss
}

func explain(c components, candidate cv.CandidateProfile) (strengths, weaknesses []string) {
	strengths, weaknesses = []string{}, []string{}

	switch {
	case c.skills >= 0.6:
		strengths = append(strengths, "Compétences alignées : "+strings.Join(c.matched, ", "))
	case c.skills > 0.3:
		strengths = append(strengths, "Compétences partiellement alignées : "+strings.Join(c.matched, ", "))
	default:
		weaknesses = append(weaknesses, "Peu de compétences correspondant au poste")
	}

	switch {
	case c.experience >= 0.8:
		strengths = append(strengths, fmt.Sprintf("Expérience adaptée (%d ans)", candidate.YearsExperience))
	case c.experience < 0.6:
		weaknesses = append(weaknesses, "Expérience insuffisante pour le niveau requis")
	}

	switch c.domain {
	case domainMatch:
		strengths = append(strengths, "Domaine pertinent : "+candidate.Domain)
	case domainMiss:
		weaknesses = append(weaknesses, "Domaine éloigné du poste : "+candidate.Domain)
	}

	if c.quality < 0.5 {
		weaknesses = append(weaknesses, "Profil incomplet, à vérifier en entretien")
	}

	return strengths, weaknesses
}

func recommendation(score float64) string {
	switch {
	case score >= 0.8:
		return "Candidat fortement recommandé : planifier un entretien rapidement."
	case score >= 0.6:
		return "Bon candidat : un entretien est recommandé."
	case score >= 0.4:
		return "Candidat possible : vérifier les compétences manquantes."
	default:
		return "Profil peu adapté à ce poste."
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
