// clickup-mcp: ClickUp workspace context MCP server
//
// An MCP server that gives AI coding tools a read-only view of a
// ClickUp workspace: tasks, spaces, lists, folders, and comments,
// aggregated into a single markdown overview.
//
// Usage:
//
//	clickup-mcp serve                      # Start MCP server (stdio transport)
//	clickup-mcp token set <user> <token>   # Store a per-user API token
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"clickup-mcp/internal/config"
	clickupserver "clickup-mcp/internal/server"
	"clickup-mcp/internal/tokens"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "token":
		if err := runToken(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("clickup-mcp v%s\n", clickupserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := clickupserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// The stdio transport exits when the host closes stdin; a signal
	// should also release the token store cleanly. Closing twice is
	// safe.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(0)
	}()

	return server.ServeStdio(s)
}

// runToken manages per-user API tokens in the local store. Human
// output goes to stderr; only the list of user IDs goes to stdout so
// it stays scriptable.
func runToken(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: clickup-mcp token <set|list|delete>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	store, err := tokens.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	switch args[0] {
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: clickup-mcp token set <user> <token>")
		}
		if err := store.Set(args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Token stored for %s\n", args[1])
	case "list":
		users, err := store.List()
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Fprintln(os.Stderr, "No tokens stored.")
			return nil
		}
		for _, u := range users {
			fmt.Println(u)
		}
	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: clickup-mcp token delete <user>")
		}
		if err := store.Delete(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Token deleted for %s\n", args[1])
	default:
		return fmt.Errorf("unknown token command: %s", args[0])
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `clickup-mcp v%s — ClickUp workspace context MCP server

Usage:
  clickup-mcp serve                      Start the MCP server (stdio transport)
  clickup-mcp token set <user> <token>   Store a per-user ClickUp API token
  clickup-mcp token list                 List users with stored tokens
  clickup-mcp token delete <user>        Remove a user's token

Configuration:
  Set CLICKUP_API_TOKEN and CLICKUP_TEAM_ID, or create
  ~/.clickup-mcp/config.yaml. Then add to your AI tool's MCP config:

  {
    "mcpServers": {
      "clickup": {
        "command": "clickup-mcp",
        "args": ["serve"],
        "env": {
          "CLICKUP_API_TOKEN": "pk_...",
          "CLICKUP_TEAM_ID": "9001"
        }
      }
    }
  }
`, clickupserver.Version)
}
