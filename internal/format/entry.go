package format

// Placeholder values used when an upstream item is missing required fields.
// The renderer relies on ID and PrimaryLabel always being non-empty.
const (
	UnknownID = "unknown-id"
)

// Field is one labeled value on an Entry. Fields carry their own order:
// the formatter appends them in the fixed per-kind sequence and the
// renderer prints them as-is.
type Field struct {
	Label string
	Value string
}

// Entry is the normalized view of one upstream item, uniform across
// resource kinds. ID and PrimaryLabel are always present (falling back to
// placeholders); StatusLabel and Fields are optional.
type Entry struct {
	ID           string
	PrimaryLabel string
	StatusLabel  string
	Fields       []Field
}
