// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"clickup-mcp/internal/aggregate"
	"clickup-mcp/internal/clickup"
	"clickup-mcp/internal/config"
	"clickup-mcp/internal/prompts"
	"clickup-mcp/internal/resources"
	"clickup-mcp/internal/tokens"
	"clickup-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the token store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if the store init failed.
func New() (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	cfg, err := config.Load()
	if err != nil {
		return nil, noop, fmt.Errorf("loading config: %w", err)
	}

	client := clickup.New(cfg.BaseURL)

	// The token store is an independent subsystem: if it fails to open,
	// requests still resolve against the configured tokens. We log a
	// warning and continue without per-user token storage.
	cleanup := noop
	var chain tokens.Chain
	store, storeErr := tokens.NewStore(cfg.DataDir)
	if storeErr != nil {
		log.Printf("WARNING: token store disabled: %v", storeErr)
	} else {
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Printf("WARNING: token store close: %v", err)
			}
		}
		chain = append(chain, store)
	}
	chain = append(chain, tokens.Static{Default: cfg.APIToken, PerUser: cfg.UserTokens})

	agg := aggregate.New(client, chain)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"clickup-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	contextTool := tools.NewContextTool(agg, cfg.TeamID)
	s.AddTool(contextTool.Definition(), contextTool.Handle)

	resourceTool := tools.NewResourceTool(agg, cfg.TeamID)
	s.AddTool(resourceTool.Definition(), resourceTool.Handle)

	// --- Register prompts ---

	reviewPrompt := prompts.NewWorkspaceReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.KindsResource(), resourceHandler.HandleKinds)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the token
// store is disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the instructions that tell the AI how to
// use the workspace tools effectively.
func serverInstructions() string {
	return `You have access to a ClickUp workspace context server.

## Tools

- get_workspace_context: one call returns a markdown overview with a
  section per requested resource kind (tasks, spaces, lists, folders,
  comments), in the order you requested them. Use this first — it is
  cheaper than fetching kinds one by one.
- get_resource: fetches a single kind. Use it to drill into one kind
  after the overview, or when you need failures reported as errors
  instead of inline notes.

## When to fetch context

- At the start of a conversation about the user's projects, tasks, or
  planning, fetch the overview before answering from assumption.
- Default kinds are tasks,spaces,lists. Add comments when the user asks
  about discussions or feedback; add folders for structure questions.
- Pass the 'query' argument to narrow the tasks section when the user
  names a topic, e.g. query='launch'.

## Reading the overview

- Sections appear under '## KIND' headings in your requested order and
  the trailing 'Included:' sentence confirms what was fetched.
- A line like 'Could not fetch tasks: ...' means only that kind failed;
  every other section is still complete and trustworthy. Mention the
  failure to the user and carry on with the rest.
- Long descriptions are truncated; use get_resource with the same kind
  if you need more of a specific area.

## Identity

- Requests run with the shared configured token by default. Pass
  user_id when the user has their own stored token (managed with the
  'clickup-mcp token' CLI) so fetches see their permissions.`
}
