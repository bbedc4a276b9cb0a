package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ContextTool handles the get_workspace_context MCP tool.
// It assembles a multi-section markdown overview of a ClickUp workspace.
type ContextTool struct {
	agg           Aggregator
	defaultTeamID string
}

// NewContextTool creates a ContextTool with its dependencies.
func NewContextTool(agg Aggregator, defaultTeamID string) *ContextTool {
	return &ContextTool{agg: agg, defaultTeamID: defaultTeamID}
}

// Definition returns the MCP tool definition for registration.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("get_workspace_context",
		mcp.WithDescription(
			"Get a markdown overview of a ClickUp workspace. "+
				"Fetches the requested resource kinds (tasks, spaces, lists, folders, comments) "+
				"concurrently and assembles one document, in the order you asked for them. "+
				"A kind that fails to fetch shows an inline error instead of hiding the rest.",
		),
		mcp.WithString("kinds",
			mcp.Description(
				"Comma-separated resource kinds to include: tasks, spaces, lists, folders, comments. "+
					"Defaults to 'tasks,spaces,lists'. Unknown kinds are skipped.",
			),
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

// Handle processes the get_workspace_context tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", t.defaultTeamID)
	if workspaceID == "" {
		return mcp.NewToolResultError("'workspace_id' is required (no default team configured)"), nil
	}

	kinds := splitKinds(req.GetString("kinds", "tasks,spaces,lists"))
	limit := intArg(req, "limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("'limit' must not be negative"), nil
	}
	userID := req.GetString("user_id", "")
	query := req.GetString("query", "")

	doc := t.agg.Many(ctx, workspaceID, userID, kinds, limit, query)
	return mcp.NewToolResultText(doc), nil
}
