// Package aggregate fetches workspace resources from ClickUp and
// assembles them into a single markdown overview.
//
// Fetching follows a gather-all model: every requested kind resolves to
// either a rendered section or an inline error section, so one kind
// failing never hides the data of another. Kinds fetch concurrently and
// the finished document preserves the caller's requested order.
package aggregate

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"golang.org/x/sync/errgroup"

	"clickup-mcp/internal/clickup"
	"clickup-mcp/internal/format"
	"clickup-mcp/internal/payload"
	"clickup-mcp/internal/render"
	"clickup-mcp/internal/tokens"
)

// DefaultSpaceLimit bounds how many spaces are expanded when fetching
// space-scoped kinds (lists, folders).
const DefaultSpaceLimit = 3

// Fetcher issues one authenticated upstream GET. *clickup.Client
// satisfies it; tests substitute fakes.
type Fetcher interface {
	Get(ctx context.Context, path, token string, query url.Values) (any, error)
}

// Aggregator coordinates token resolution, concurrent fetching, and
// rendering for workspace overview requests.
type Aggregator struct {
	fetcher Fetcher
	tokens  tokens.Resolver
}

// New creates an Aggregator backed by the given fetcher and token
// resolver.
func New(fetcher Fetcher, resolver tokens.Resolver) *Aggregator {
	return &Aggregator{fetcher: fetcher, tokens: resolver}
}

// One fetches a single resource kind and renders its section. Unlike
// Many, every failure is returned to the caller.
func (a *Aggregator) One(ctx context.Context, workspaceID, userID string, kind format.Kind, limit int, query string) (string, error) {
	if !format.Supported(kind) {
		return "", fmt.Errorf("%w: %q", format.ErrUnsupportedKind, string(kind))
	}

	token, err := a.tokens.Resolve(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("resolving token: %w", err)
	}

	entries, err := a.fetchKind(ctx, workspaceID, token, kind, limit, query)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", kind, err)
	}
	return render.Section(kind, entries), nil
}

// outcome is one kind's fetch result, tagged with its request position
// so the document preserves caller order.
type outcome struct {
	idx     int
	kind    format.Kind
	entries []format.Entry
	err     error
}

// Many fetches the requested kinds concurrently and assembles the
// overview document. Failures stay local to their kind: a failed fetch
// becomes an inline error section, never an error return. Unsupported
// kinds are skipped with a warning. Duplicates fetch and render twice.
func (a *Aggregator) Many(ctx context.Context, workspaceID, userID string, kinds []format.Kind, limit int, query string) string {
	known := make([]format.Kind, 0, len(kinds))
	for _, k := range kinds {
		if !format.Supported(k) {
			log.Printf("WARNING: skipping unsupported resource kind %q", string(k))
			continue
		}
		known = append(known, k)
	}
	if len(known) == 0 {
		return render.Document(nil)
	}

	// One token resolution per request. A failure becomes each kind's
	// error section rather than failing the whole call.
	token, tokenErr := a.tokens.Resolve(ctx, userID)

	ch := make(chan outcome, len(known))
	for i, k := range known {
		go func(idx int, kind format.Kind) {
			defer func() {
				if r := recover(); r != nil {
					ch <- outcome{idx: idx, kind: kind, err: fmt.Errorf("internal error: %v", r)}
				}
			}()
			if tokenErr != nil {
				ch <- outcome{idx: idx, kind: kind, err: fmt.Errorf("resolving token: %w", tokenErr)}
				return
			}
			entries, err := a.fetchKind(ctx, workspaceID, token, kind, limit, query)
			ch <- outcome{idx: idx, kind: kind, entries: entries, err: err}
		}(i, k)
	}

	results := make([]outcome, len(known))
	for range known {
		o := <-ch
		results[o.idx] = o
	}

	sections := make([]render.RenderedSection, 0, len(results))
	for _, o := range results {
		text := render.Section(o.kind, o.entries)
		if o.err != nil {
			text = render.ErrorSection(o.kind, o.err)
		}
		sections = append(sections, render.RenderedSection{Kind: o.kind, Text: text})
	}
	return render.Document(sections)
}

// fetchKind retrieves one kind's raw payload(s) and formats them.
func (a *Aggregator) fetchKind(ctx context.Context, workspaceID, token string, kind format.Kind, limit int, query string) ([]format.Entry, error) {
	var path string
	var q url.Values
	switch kind {
	case format.KindTasks:
		path = clickup.TeamTasksPath(workspaceID)
		if query != "" {
			q = url.Values{"search": {query}}
		}
	case format.KindSpaces:
		path = clickup.TeamSpacesPath(workspaceID)
	case format.KindComments:
		path = clickup.TeamCommentsPath(workspaceID)
	case format.KindLists, format.KindFolders:
		return a.fetchPerSpace(ctx, workspaceID, token, kind, limit)
	default:
		return nil, fmt.Errorf("%w: %q", format.ErrUnsupportedKind, string(kind))
	}

	raw, err := a.fetcher.Get(ctx, path, token, q)
	if err != nil {
		return nil, err
	}
	return format.Format(kind, raw), nil
}

// fetchPerSpace implements the two-level fetch for space-scoped kinds:
// list the workspace's spaces, then fetch the kind from the first limit
// spaces concurrently. Results flatten in space order.
func (a *Aggregator) fetchPerSpace(ctx context.Context, workspaceID, token string, kind format.Kind, limit int) ([]format.Entry, error) {
	raw, err := a.fetcher.Get(ctx, clickup.TeamSpacesPath(workspaceID), token, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching spaces: %w", err)
	}

	spaces := payload.Items(raw, "spaces")
	if limit <= 0 {
		limit = DefaultSpaceLimit
	}
	if len(spaces) > limit {
		spaces = spaces[:limit]
	}

	childPath := clickup.SpaceListsPath
	if kind == format.KindFolders {
		childPath = clickup.SpaceFoldersPath
	}

	// Indexed writes keep the flattened result in space order without
	// locking; each slot is owned by exactly one goroutine.
	results := make([]any, len(spaces))
	var g errgroup.Group
	for i, space := range spaces {
		id := payload.String(space, "id")
		if id == "" {
			continue
		}
		g.Go(func() error {
			raw, err := a.fetcher.Get(ctx, childPath(id), token, nil)
			if err != nil {
				return fmt.Errorf("space %s: %w", id, err)
			}
			results[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []format.Entry
	for _, raw := range results {
		if raw == nil {
			continue
		}
		entries = append(entries, format.Format(kind, raw)...)
	}
	return entries, nil
}
