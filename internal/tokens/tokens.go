// Package tokens resolves ClickUp API tokens for upstream requests.
//
// A Resolver maps the user identity attached to a request to the API
// token used when calling ClickUp. Resolvers compose: the server chains
// the SQLite-backed store with the static config fallback, so a
// per-user token wins over the shared workspace token.
package tokens

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound reports that no token is configured for a user.
var ErrNotFound = errors.New("no token found")

// Resolver maps a user ID to a ClickUp API token.
type Resolver interface {
	Resolve(ctx context.Context, userID string) (string, error)
}

// Static resolves tokens from in-memory configuration. A per-user match
// wins; otherwise Default is used when set.
type Static struct {
	Default string
	PerUser map[string]string
}

func (s Static) Resolve(_ context.Context, userID string) (string, error) {
	if tok, ok := s.PerUser[userID]; ok && tok != "" {
		return tok, nil
	}
	if s.Default != "" {
		return s.Default, nil
	}
	return "", fmt.Errorf("%w for user %q", ErrNotFound, userID)
}

// Chain tries each resolver in order. ErrNotFound moves on to the next
// resolver; any other error stops the chain.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, userID string) (string, error) {
	for _, r := range c {
		tok, err := r.Resolve(ctx, userID)
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w for user %q", ErrNotFound, userID)
}
