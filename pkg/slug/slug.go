package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases title, collapses every run outside [a-z0-9] to one hyphen
// and trims hyphens from both ends. Titles without ASCII letters or digits
// yield "".
func Make(title string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
