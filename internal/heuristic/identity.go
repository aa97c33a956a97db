package heuristic

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/utils"
)

const nameScanLines = 5

var (
	capitalizedName = regexp.MustCompile(`^\p{Lu}[\p{Ll}'’]+(?:[ \-]\p{Lu}[\p{Ll}'’]+){1,3}$`)
	nameLabel       = regexp.MustCompile(`(?im)^[ \t]*(?:nom complet|full name|prénom et nom|nom|name)[ \t]*[:\-][ \t]*(.+)$`)
	allCapsLine     = regexp.MustCompile(`^\p{Lu}[\p{Lu}'’\-]*(?: [\p{Lu}'’\-]+){1,3}$`)

	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneFrench   = regexp.MustCompile(`(?:\+33[ .]?|0)[1-9](?:[ .\-]?\d{2}){4}`)
	phoneGeneric  = regexp.MustCompile(`\+?\d[\d .\-()]{7,}\d`)
	locationLabel = regexp.MustCompile(`(?im)^[ \t]*(?:adresse|address|ville|city|localisation|location|lieu)[ \t]*[:\-][ \t]*(.+)$`)
	postalCity    = regexp.MustCompile(`\b\d{5}[ \t]+(\p{Lu}[\p{L}'’\-]+(?:[ \t]\p{Lu}[\p{L}'’\-]+)*)`)
)

func (e *Extractor) name(text string, lines []string) string {
	head := lines
	if len(head) > nameScanLines {
		head = head[:nameScanLines]
	}

	for _, l := range head {
		if capitalizedName.MatchString(l) && !e.isHeader(l) {
			return l
		}
	}

	if m := nameLabel.FindStringSubmatch(text); m != nil {
		if v := utils.CollapseSpaces(m[1]); plausibleLength(v, 2, 60) && !strings.Contains(v, "@") {
			return v
		}
	}

	for _, l := range head {
		if allCapsLine.MatchString(l) && plausibleLength(l, 5, 50) && !e.isHeader(l) {
			return cases.Title(language.French).String(strings.ToLower(l))
		}
	}

	for _, l := range head {
		r, _ := utf8.DecodeRuneInString(l)
		if unicode.IsUpper(r) && plausibleLength(l, 5, 50) && !strings.ContainsAny(l, "@0123456789") && !e.isHeader(l) {
			return l
		}
	}

	return cv.PlaceholderName
}

// isHeader reports whether every word of line is a known section title.
func (e *Extractor) isHeader(line string) bool {
	words := strings.FieldsFunc(strings.ToLower(line), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if _, ok := e.c.headers[w]; !ok && len(w) > 2 {
			return false
		}
	}
	return true
}

func plausibleLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func findEmail(text string) string {
	return strings.ToLower(emailPattern.FindString(text))
}

func findPhone(text string) string {
	if m := phoneFrench.FindString(text); m != "" {
		return utils.CollapseSpaces(m)
	}
	for _, m := range phoneGeneric.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 9 && digits <= 15 {
			return utils.CollapseSpaces(m)
		}
	}
	return ""
}

func (e *Extractor) location(text string) string {
	if m := locationLabel.FindStringSubmatch(text); m != nil {
		if v := utils.CollapseSpaces(m[1]); plausibleLength(v, 2, 100) {
			return v
		}
	}
	if m := postalCity.FindStringSubmatch(text); m != nil {
		return utils.CollapseSpaces(m[1])
	}
	for _, city := range e.c.cities {
		if city.re.MatchString(text) {
			return city.label
		}
	}
	return e.defaults.Region
}
