// Package format converts raw ClickUp payloads into normalized,
// render-ready entries, one formatter per resource kind.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a category of upstream resource.
//
// Kind is an open string type so that caller-supplied strings can flow
// through the aggregation pipeline unharmed; Supported and ParseKind
// define the closed set that has a formatter and an upstream route.
type Kind string

const (
	KindTasks    Kind = "tasks"
	KindSpaces   Kind = "spaces"
	KindLists    Kind = "lists"
	KindFolders  Kind = "folders"
	KindComments Kind = "comments"
)

// ErrUnsupportedKind indicates a kind with no formatter or upstream route.
var ErrUnsupportedKind = errors.New("unsupported resource kind")

// kinds lists every supported kind in its canonical display order.
var kinds = []Kind{KindTasks, KindSpaces, KindLists, KindFolders, KindComments}

// Kinds returns the supported kinds in canonical order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Supported reports whether k has a dedicated formatter and upstream route.
func Supported(k Kind) bool {
	switch k {
	case KindTasks, KindSpaces, KindLists, KindFolders, KindComments:
		return true
	}
	return false
}

// ParseKind normalizes a kind string (case and surrounding space are
// ignored) and rejects anything outside the supported set.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !Supported(k) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}
