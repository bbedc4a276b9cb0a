package format

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxTextLength is the cap applied to free-text fields (descriptions,
// comment bodies) before rendering, in characters.
const maxTextLength = 100

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingStart = regexp.MustCompile(`(?m)^#{1,6}[ \t]*`)
)

// emphasisMarkers drops bold/italic markers. Single underscores are left
// alone: they are far more often part of identifiers (user_id) than
// italic markup in PM data.
var emphasisMarkers = strings.NewReplacer(
	"**", "",
	"__", "",
	"*", "",
)

// cleanText prepares a free-text field for single-line rendering:
// lightweight markdown is stripped, newlines become spaces, and the
// result is truncated to maxTextLength characters with an ellipsis.
func cleanText(s string) string {
	s = markdownLink.ReplaceAllString(s, "$1")
	s = headingStart.ReplaceAllString(s, "")
	s = emphasisMarkers.Replace(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	return truncate(s, maxTextLength)
}

// truncate cuts s to max characters, appending "..." only when something
// was actually removed. A string of exactly max characters is unchanged.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
