package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"clickup-mcp/internal/format"
)

// ResourceTool handles the get_resource MCP tool.
// It fetches a single resource kind, surfacing every failure to the
// caller instead of degrading.
type ResourceTool struct {
	agg           Aggregator
	defaultTeamID string
}

// NewResourceTool creates a ResourceTool with its dependencies.
func NewResourceTool(agg Aggregator, defaultTeamID string) *ResourceTool {
	return &ResourceTool{agg: agg, defaultTeamID: defaultTeamID}
}

// Definition returns the MCP tool definition for registration.
func (t *ResourceTool) Definition() mcp.Tool {
	return mcp.NewTool("get_resource",
		mcp.WithDescription(
			"Get one kind of ClickUp resource as a rendered markdown section. "+
				"Unlike get_workspace_context, a failed fetch is reported as an error "+
				"rather than an inline note.",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Resource kind to fetch."),
			mcp.Enum("tasks", "spaces", "lists", "folders", "comments"),
		),
		mcp.WithString("workspace_id",
			mcp.Description("ClickUp workspace (team) ID. Defaults to the configured team."),
		),
		mcp.WithString("user_id",
			mcp.Description("User identity for token resolution. Leave empty for the shared token."),
		),
		mcp.WithNumber("limit",
			mcp.Description("How many spaces to expand when fetching lists or folders (default: 3)."),
		),
		mcp.WithString("query",
			mcp.Description("Free-text filter applied to the tasks fetch."),
		),
	)
}

// Handle processes the get_resource tool call.
func (t *ResourceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := format.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	workspaceID := req.GetString("workspace_id", t.defaultTeamID)
	if workspaceID == "" {
		return mcp.NewToolResultError("'workspace_id' is required (no default team configured)"), nil
	}

	limit := intArg(req, "limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("'limit' must not be negative"), nil
	}

	section, err := t.agg.One(ctx, workspaceID, req.GetString("user_id", ""), kind, limit, req.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(section), nil
}
