package format

import (
	"strings"
	"time"

	"clickup-mcp/internal/payload"
)

// Format maps a raw payload to normalized entries for the given kind.
// It is total: unknown kinds fall through to the generic formatter, a
// malformed item degrades to a placeholder entry, and an unrecognizable
// payload yields an empty slice. Format never returns an error and never
// panics.
func Format(kind Kind, raw any) []Entry {
	switch kind {
	case KindTasks:
		return formatItems(payload.Items(raw, "tasks"), taskEntry, "Unnamed Task")
	case KindSpaces:
		return formatItems(payload.Items(raw, "spaces"), spaceEntry, "Unnamed Space")
	case KindLists:
		return formatItems(payload.Items(raw, "lists"), listEntry, "Unnamed List")
	case KindFolders:
		return formatItems(payload.Items(raw, "folders"), folderEntry, "Unnamed Folder")
	case KindComments:
		return formatItems(payload.Items(raw, "comments"), commentEntry, "Unnamed Comment")
	default:
		return formatItems(payload.Items(raw, string(kind)), genericEntry, "Unnamed Item")
	}
}

// formatItems runs the per-item formatter over every item, recovering a
// degraded entry whenever one item blows up. One bad item never fails
// the whole pass.
func formatItems(items []map[string]any, one func(map[string]any) Entry, fallbackLabel string) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, safeEntry(item, one, fallbackLabel))
	}
	return entries
}

func safeEntry(item map[string]any, one func(map[string]any) Entry, fallbackLabel string) (e Entry) {
	defer func() {
		if r := recover(); r != nil {
			e = degradedEntry(item, fallbackLabel)
		}
	}()
	return one(item)
}

// degradedEntry is the best-effort placeholder for an item the formatter
// could not interpret.
func degradedEntry(item map[string]any, fallbackLabel string) Entry {
	return Entry{
		ID:           payload.StringOr(item, UnknownID, "id"),
		PrimaryLabel: payload.StringOr(item, fallbackLabel, "name"),
		Fields:       []Field{{Label: "Error", Value: "entry could not be formatted"}},
	}
}

// ─── Per-kind formatters ─────────────────────────────────────────────────────
//
// Field order is fixed per kind: status, then due date, then description,
// then assignees, then tags, where applicable. The renderer prints fields
// in slice order, so the order is decided here and nowhere else.

func taskEntry(item map[string]any) Entry {
	e := Entry{
		ID:           payload.StringOr(item, UnknownID, "id"),
		PrimaryLabel: payload.StringOr(item, "Unnamed Task", "name"),
		StatusLabel:  payload.String(item, "status", "status"),
	}
	if due, ok := payload.Time(item, "due_date"); ok {
		e.Fields = append(e.Fields, Field{Label: "Due", Value: due.Format("2006-01-02")})
	}
	desc := payload.String(item, "description")
	if desc == "" {
		desc = payload.String(item, "text_content")
	}
	if desc != "" {
		e.Fields = append(e.Fields, Field{Label: "Description", Value: cleanText(desc)})
	}
	if names := joinNames(item, "assignees", "username"); names != "" {
		e.Fields = append(e.Fields, Field{Label: "Assignees", Value: names})
	}
	if names := joinNames(item, "tags", "name"); names != "" {
		e.Fields = append(e.Fields, Field{Label: "Tags", Value: names})
	}
	return e
}

func spaceEntry(item map[string]any) Entry {
	e := Entry{
		ID:           payload.StringOr(item, UnknownID, "id"),
		PrimaryLabel: payload.StringOr(item, "Unnamed Space", "name"),
	}
	if payload.Bool(item, "archived") {
		e.StatusLabel = "archived"
	}
	if payload.Bool(item, "private") {
		e.Fields = append(e.Fields, Field{Label: "Private", Value: "yes"})
	}
	if names := joinNames(item, "statuses", "status"); names != "" {
		e.Fields = append(e.Fields, Field{Label: "Statuses", Value: names})
	}
	return e
}

func listEntry(item map[string]any) Entry {
	e := Entry{
		ID:           payload.StringOr(item, UnknownID, "id"),
		PrimaryLabel: payload.StringOr(item, "Unnamed List", "name"),
		StatusLabel:  payload.String(item, "status", "status"),
	}
	if due, ok := payload.Time(item, "due_date"); ok {
		e.Fields = append(e.Fields, Field{Label: "Due", Value: due.Format("2006-01-02")})
	}
	if content := payload.String(item, "content"); content != "" {
		e.Fields = append(e.Fields, Field{Label: "Description", Value: cleanText(content)})
	}
	if count := payload.String(item, "task_count"); count != "" {
		e.Fields = append(e.Fields, Field{Label: "Tasks", Value: count})
	}
	if space := payload.String(item, "space", "name"); space != "" {
		e.Fields = append(e.Fields, Field{Label: "Space", Value: space})
	}
	// Folderless lists carry a placeholder folder marked hidden.
	if !payload.Bool(item, "folder", "hidden") {
		if folder := payload.String(item, "folder", "name"); folder != "" {
			e.Fields = append(e.Fields, Field{Label: "Folder", Value: folder})
		}
	}
	return e
}

func folderEntry(item map[string]any) Entry {
	e := Entry{
		ID:           payload.StringOr(item, UnknownID, "id"),
		PrimaryLabel: payload.StringOr(item, "Unnamed Folder", "name"),
	}
	if count := payload.String(item, "task_count"); count != "" {
		e.Fields = append(e.Fields, Field{Label: "Tasks", Value: count})
	}
	if space := payload.String(item, "space", "name"); space != "" {
		e.Fields = append(e.Fields, Field{Label: "Space", Value: space})
	}
	if names := joinNames(item, "lists", "name"); names != "" {
		e.Fields = append(e.Fields, Field{Label: "Lists", Value: names})
	}
	return e
}

func commentEntry(item map[string]any) Entry {
	e := Entry{
		ID:           payload.StringOr(item, UnknownID, "id"),
		PrimaryLabel: "Comment by " + payload.StringOr(item, "unknown", "user", "username"),
	}
	if ts, ok := payload.Time(item, "date"); ok {
		e.Fields = append(e.Fields, Field{Label: "Date", Value: ts.Format(time.RFC3339)})
	}
	if text := payload.String(item, "comment_text"); text != "" {
		e.Fields = append(e.Fields, Field{Label: "Text", Value: cleanText(text)})
	}
	if payload.Bool(item, "resolved") {
		e.Fields = append(e.Fields, Field{Label: "Resolved", Value: "yes"})
	}
	return e
}

func genericEntry(item map[string]any) Entry {
	label := payload.String(item, "name")
	if label == "" {
		label = payload.String(item, "title")
	}
	if label == "" {
		label = "Unnamed Item"
	}
	return Entry{
		ID:           payload.StringOr(item, UnknownID, "id"),
		PrimaryLabel: label,
	}
}

// joinNames collects the field at namePath from every map element of the
// list under key and joins the non-empty results with ", ".
func joinNames(item map[string]any, key string, namePath ...string) string {
	members := payload.Items(item, key)
	if len(members) == 0 {
		return ""
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		if name := payload.String(m, namePath...); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
