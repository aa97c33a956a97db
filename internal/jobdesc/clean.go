package jobdesc

import (
	"regexp"
	"strings"
)

var (
	thinkBlock   = regexp.MustCompile(`(?s)<think>.*?</think>`)
	italic       = regexp.MustCompile(`\*([^*\n]+)\*`)
	listMarker   = regexp.MustCompile(`(?m)^[ \t]*[*+\-][ \t]*`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	trailingWhit = regexp.MustCompile(`(?m)[ \t]+$`)

	typography = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
		"‘", `"`, "’", `"`,
		"–", "-", "—", "-",
		"•", "-",
		"\r\n", "\n",
	)
)

// Clean normalises model output: straight quotes, hyphen dashes and bullets,
// no bold or italics, "- " list markers and at most one blank line in a row.
func Clean(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	text = typography.Replace(strings.TrimSpace(text))
	text = strings.ReplaceAll(text, "**", "")
	text = italic.ReplaceAllString(text, "$1")
	text = listMarker.ReplaceAllString(text, "- ")
	text = trailingWhit.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
