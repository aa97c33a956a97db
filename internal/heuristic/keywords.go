package heuristic

import (
	"regexp"
	"strings"
)

const (
	boundaryStart = `(?:^|[^\p{L}\p{N}+#])`
	boundaryEnd   = `(?:$|[^\p{L}\p{N}+#])`
)

type keyword struct {
	label string
	re    *regexp.Regexp
}

func compileKeyword(label, word string) keyword {
	return keyword{
		label: label,
		re:    regexp.MustCompile(`(?i)` + boundaryStart + regexp.QuoteMeta(strings.ToLower(word)) + boundaryEnd),
	}
}

func compileKeywords(words []string) []keyword {
	out := make([]keyword, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		out = append(out, compileKeyword(w, w))
	}
	return out
}

// matchAll returns the labels of every keyword found in text, in table order.
func matchAll(keywords []keyword, text string) []string {
	var found []string
	for _, k := range keywords {
		if k.re.MatchString(text) {
			found = append(found, k.label)
		}
	}
	return found
}

func countHits(keywords []keyword, text string) int {
	n := 0
	for _, k := range keywords {
		if k.re.MatchString(text) {
			n++
		}
	}
	return n
}

func containsAny(keywords []keyword, text string) bool {
	for _, k := range keywords {
		if k.re.MatchString(text) {
			return true
		}
	}
	return false
}

type compiledDomain struct {
	label    string
	keywords []keyword
}

type compiledLanguage struct {
	name     string
	keywords []keyword
}

type compiled struct {
	skills     []keyword
	coreSkills []keyword
	softSkills []string
	domains    []compiledDomain
	cities     []keyword
	education  []keyword
	languages  []compiledLanguage
	headers    map[string]struct{}
	senior     []keyword
	junior     []keyword
}

func compile(t Tables) compiled {
	c := compiled{
		skills:     compileKeywords(t.Skills),
		coreSkills: compileKeywords(t.CoreSkills),
		softSkills: append([]string{}, t.SoftSkills...),
		education:  compileKeywords(t.EducationKeywords),
		senior:     compileKeywords(t.SeniorKeywords),
		junior:     compileKeywords(t.JuniorKeywords),
		headers:    make(map[string]struct{}, len(t.SectionHeaders)),
	}

	for _, city := range t.Cities {
		if city = strings.TrimSpace(city); city != "" {
			// Case-sensitive so that "Nice" or "Tours" do not fire on ordinary words.
			c.cities = append(c.cities, keyword{
				label: city,
				re:    regexp.MustCompile(boundaryStart + regexp.QuoteMeta(city) + boundaryEnd),
			})
		}
	}
	for _, d := range t.Domains {
		c.domains = append(c.domains, compiledDomain{label: d.Label, keywords: compileKeywords(d.Keywords)})
	}
	for _, l := range t.Languages {
		c.languages = append(c.languages, compiledLanguage{name: l.Name, keywords: compileKeywords(l.Keywords)})
	}
	for _, h := range t.SectionHeaders {
		c.headers[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	return c
}
