// Package render turns normalized entries into the text blocks and
// combined documents served to the AI client.
//
// Output is deterministic for a given input: no wall-clock values, no
// map iteration, no completion-order dependence. Whatever order the
// aggregator hands sections over in is the order they appear.
package render

import (
	"fmt"
	"strings"

	"clickup-mcp/internal/format"
)

// Fixed sentences the endpoint contract promises verbatim.
const (
	emptyDocument = "No data available."
	documentTitle = "# Workspace Overview"
)

// RenderedSection is one kind's fully formatted text block, or an inline
// error line when that kind's fetch failed.
type RenderedSection struct {
	Kind format.Kind
	Text string
}

// Section renders entries for one kind as a numbered list. An empty
// entry sequence yields the fixed "No <kind> found." sentence rather
// than an empty string.
func Section(kind format.Kind, entries []format.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No %s found.", kind)
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.PrimaryLabel)
		fmt.Fprintf(&b, "   ID: %s\n", e.ID)
		if e.StatusLabel != "" {
			fmt.Fprintf(&b, "   Status: %s\n", e.StatusLabel)
		}
		for _, f := range e.Fields {
			if f.Value == "" {
				continue
			}
			fmt.Fprintf(&b, "   %s: %s\n", f.Label, f.Value)
		}
	}
	return b.String()
}

// ErrorSection renders the single-line failure notice for a kind whose
// fetch could not complete.
func ErrorSection(kind format.Kind, err error) string {
	return fmt.Sprintf("Could not fetch %s: %v", kind, err)
}

// Document combines rendered sections into one text document: a fixed
// header, each section under an upper-cased kind label in the order
// given, and a trailing summary sentence naming the included kinds.
// Zero sections yield the fixed "No data available." sentence.
func Document(sections []RenderedSection) string {
	if len(sections) == 0 {
		return emptyDocument
	}

	var b strings.Builder
	b.WriteString(documentTitle)
	b.WriteString("\n")

	names := make([]string, 0, len(sections))
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n", strings.ToUpper(string(s.Kind)))
		b.WriteString(strings.TrimRight(s.Text, "\n"))
		b.WriteString("\n")
		names = append(names, string(s.Kind))
	}

	fmt.Fprintf(&b, "\nIncluded: %s.\n", strings.Join(names, ", "))
	return b.String()
}
