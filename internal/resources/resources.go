// Package resources implements the MCP resource handlers.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (clickup://...) following MCP
// conventions.
package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"clickup-mcp/internal/format"
)

// Handler manages the resource endpoints.
type Handler struct{}

// NewHandler creates a resource Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// KindsResource returns the MCP resource definition for the supported
// resource kinds.
func (h *Handler) KindsResource() mcp.Resource {
	return mcp.NewResource(
		"clickup://kinds",
		"Supported Resource Kinds",
		mcp.WithResourceDescription("The resource kinds get_workspace_context and get_resource understand"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleKinds returns the supported kinds and what each section carries.
func (h *Handler) HandleKinds(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	descriptions := map[format.Kind]string{
		format.KindTasks:    "Tasks across the workspace, with status, due date, assignees, and tags. Accepts a free-text query.",
		format.KindSpaces:   "Top-level spaces, with privacy and available statuses.",
		format.KindLists:    "Lists from the first few spaces, with task counts and their parent space.",
		format.KindFolders:  "Folders from the first few spaces, with their contained lists.",
		format.KindComments: "Recent comments, with author, date, and resolution state.",
	}

	var b strings.Builder
	b.WriteString("# Resource Kinds\n\n")
	for _, k := range format.Kinds() {
		fmt.Fprintf(&b, "- `%s` — %s\n", k, descriptions[k])
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     b.String(),
		},
	}, nil
}
