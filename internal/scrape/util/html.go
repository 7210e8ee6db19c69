package util

import (
	"html"
	"regexp"
	"strings"
)

var (
	reBreak      = regexp.MustCompile(`(?i)<br\s*/?>`)
	reBlockClose = regexp.MustCompile(`(?i)</(p|div|li|h[1-6]|tr)>`)
	reTag        = regexp.MustCompile(`(?s)<[^>]*>`)
)

// HTMLToText flattens posting HTML into readable plain text: br and closing
// block tags become newlines, remaining tags drop, entities decode.
func HTMLToText(s string) string {
	if s == "" {
		return ""
	}
	s = reBreak.ReplaceAllString(s, "\n")
	s = reBlockClose.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = CleanText(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
