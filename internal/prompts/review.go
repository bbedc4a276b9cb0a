// Package prompts implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// WorkspaceReviewPrompt handles the workspace-review MCP prompt.
// It steers the AI through fetching the workspace overview and turning
// it into an actionable status summary.
type WorkspaceReviewPrompt struct{}

// NewWorkspaceReviewPrompt creates a WorkspaceReviewPrompt.
func NewWorkspaceReviewPrompt() *WorkspaceReviewPrompt {
	return &WorkspaceReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WorkspaceReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("workspace-review",
		mcp.WithPromptDescription(
			"Review the current state of your ClickUp workspace. "+
				"Fetches tasks, spaces, and lists, then summarizes what needs attention.",
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription(
				"Optional area to focus the review on, e.g. 'overdue tasks' or a project name",
			),
		),
	)
}

// Handle processes the workspace-review prompt request.
func (p *WorkspaceReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := ""
	if args := req.Params.Arguments; args != nil {
		if f, ok := args["focus"]; ok && f != "" {
			focus = f
		}
	}

	focusLine := ""
	if focus != "" {
		focusLine = fmt.Sprintf("\n\nFocus the review on: %s. Pass it as the 'query' argument so the task fetch is filtered too.", focus)
	}

	return &mcp.GetPromptResult{
		Description: "Review ClickUp workspace",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please review my ClickUp workspace.\n\n" +
						"1. Call `get_workspace_context` with kinds='tasks,spaces,lists'\n" +
						"2. Read through the overview and summarize: what is in progress, " +
						"what looks blocked or overdue, and what has no assignee\n" +
						"3. If a section shows a fetch error, mention it and continue with the rest\n" +
						"4. End with a short list of suggested next steps" +
						focusLine,
				),
			},
		},
	}, nil
}
