// Package tools implements the MCP tool handlers for workspace context.
//
// Each tool is a struct that receives its dependencies via constructor
// and exposes Definition() for the schema plus Handle() for execution.
// Handlers return user-facing failures as tool error results; a Go
// error is reserved for protocol-level faults.
package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"clickup-mcp/internal/format"
)

// Aggregator is the slice of the aggregation pipeline the tools use.
type Aggregator interface {
	One(ctx context.Context, workspaceID, userID string, kind format.Kind, limit int, query string) (string, error)
	Many(ctx context.Context, workspaceID, userID string, kinds []format.Kind, limit int, query string) string
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// splitKinds parses a comma-separated kind list, preserving the
// caller's order and duplicates. Unknown names pass through; the
// aggregator decides what to do with them.
func splitKinds(s string) []format.Kind {
	var kinds []format.Kind
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		kinds = append(kinds, format.Kind(part))
	}
	return kinds
}
