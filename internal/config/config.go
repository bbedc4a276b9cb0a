// Package config loads server configuration from a YAML file and the
// environment. Environment variables always win over file values, so a
// deployment can pin a token without touching the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup.
type Config struct {
	// APIToken is the shared ClickUp API token, used when a request
	// carries no user identity or the user has no token of their own.
	APIToken string `yaml:"api_token"`

	// TeamID is the default ClickUp workspace (team) ID.
	TeamID string `yaml:"team_id"`

	// BaseURL overrides the ClickUp API endpoint. Empty selects the
	// public API.
	BaseURL string `yaml:"base_url"`

	// DataDir holds the token database and the default config file.
	// Defaults to ~/.clickup-mcp.
	DataDir string `yaml:"data_dir"`

	// UserTokens maps user IDs to API tokens for deployments that
	// configure a few identities statically instead of through the
	// token store.
	UserTokens map[string]string `yaml:"user_tokens"`
}

// Load merges defaults, the config file, and environment variables, in
// that order. The file is looked up at $CLICKUP_MCP_CONFIG, falling
// back to <data dir>/config.yaml; only an explicitly configured file is
// required to exist.
func Load() (Config, error) {
	home, _ := os.UserHomeDir()
	cfg := Config{
		DataDir: filepath.Join(home, ".clickup-mcp"),
	}
	if dir := os.Getenv("CLICKUP_MCP_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	path := os.Getenv("CLICKUP_MCP_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No default config file is fine; the environment may carry
		// everything.
	default:
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	if v := os.Getenv("CLICKUP_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("CLICKUP_TEAM_ID"); v != "" {
		cfg.TeamID = v
	}
	if v := os.Getenv("CLICKUP_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CLICKUP_MCP_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	return cfg, nil
}
