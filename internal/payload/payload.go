// Package payload provides tolerant accessors for the untyped JSON trees
// returned by the ClickUp API.
//
// ClickUp payloads are only partially documented: fields may be absent,
// null, or carry a different scalar type than expected (timestamps arrive
// as numeric strings on some endpoints and as numbers on others). Every
// formatter goes through this package instead of asserting types ad hoc,
// so a surprising payload degrades to a missing field rather than a panic.
package payload

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Get walks nested maps along path and returns the value found there.
// The second return is false when any intermediate step is absent, nil,
// or not a map.
func Get(node any, path ...string) (any, bool) {
	cur := node
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// String returns the scalar at path coerced to a string, or "" when the
// path is absent or the value cannot be represented as a string.
// Numbers render without exponent notation, so millisecond timestamps
// survive the round trip intact.
func String(node any, path ...string) string {
	v, ok := Get(node, path...)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// StringOr is String with a fallback for absent or empty values.
func StringOr(node any, fallback string, path ...string) string {
	if s := String(node, path...); s != "" {
		return s
	}
	return fallback
}

// Bool returns the boolean at path, or false when absent or not a bool.
func Bool(node any, path ...string) bool {
	v, ok := Get(node, path...)
	if !ok {
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// List returns the slice found under key. It accepts either a map that
// wraps the list under key (the usual ClickUp response shape, e.g.
// {"tasks": [...]}) or a bare top-level list. Anything else yields nil.
func List(node any, key string) []any {
	switch v := node.(type) {
	case []any:
		return v
	case map[string]any:
		if inner, ok := v[key].([]any); ok {
			return inner
		}
	}
	return nil
}

// Items is List restricted to map elements; non-map items are dropped.
func Items(node any, key string) []map[string]any {
	raw := List(node, key)
	if raw == nil {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// Time parses the timestamp at path. ClickUp emits millisecond epochs as
// JSON numbers or numeric strings; RFC 3339 strings are accepted too.
// The second return is false when the value is absent or unparsable.
func Time(node any, path ...string) (time.Time, bool) {
	v, ok := Get(node, path...)
	if !ok {
		return time.Time{}, false
	}
	if s, isStr := v.(string); isStr {
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
			return ts.UTC(), true
		}
	}
	ms, err := cast.ToInt64E(v)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}
