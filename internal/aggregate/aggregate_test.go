package aggregate_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"clickup-mcp/internal/aggregate"
	"clickup-mcp/internal/format"
	"clickup-mcp/internal/tokens"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type call struct {
	path  string
	token string
	query url.Values
}

// fakeFetcher serves canned payloads by path and records every call.
type fakeFetcher struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]any
	errors    map[string]error
	delays    map[string]time.Duration
}

func (f *fakeFetcher) Get(_ context.Context, path, token string, query url.Values) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{path: path, token: token, query: query})
	delay := f.delays[path]
	err := f.errors[path]
	resp, ok := f.responses[path]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		resp = map[string]any{}
	}
	return resp, nil
}

func (f *fakeFetcher) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.path
	}
	return out
}

func (f *fakeFetcher) called(path string) bool {
	for _, p := range f.paths() {
		if p == path {
			return true
		}
	}
	return false
}

type fakeResolver struct {
	token string
	err   error
}

func (r fakeResolver) Resolve(context.Context, string) (string, error) {
	return r.token, r.err
}

func tasksPayload(names ...string) map[string]any {
	items := make([]any, len(names))
	for i, n := range names {
		items[i] = map[string]any{"id": "t" + n, "name": n}
	}
	return map[string]any{"tasks": items}
}

func spacesPayload(ids ...string) map[string]any {
	items := make([]any, len(ids))
	for i, id := range ids {
		items[i] = map[string]any{"id": id, "name": "Space " + id}
	}
	return map[string]any{"spaces": items}
}

func listsPayload(names ...string) map[string]any {
	items := make([]any, len(names))
	for i, n := range names {
		items[i] = map[string]any{"id": "l" + n, "name": n}
	}
	return map[string]any{"lists": items}
}

func newAggregator(f *fakeFetcher) *aggregate.Aggregator {
	return aggregate.New(f, fakeResolver{token: "pk_test"})
}

// ─── Many ────────────────────────────────────────────────────────────────────

func TestMany_AllKindsSucceed(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/task":  tasksPayload("Ship release"),
		"team/9001/space": spacesPayload("sp1"),
	}}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindTasks, format.KindSpaces}, 3, "")

	for _, want := range []string{
		"# Workspace Overview",
		"## TASKS",
		"1. Ship release",
		"## SPACES",
		"1. Space sp1",
		"Included: tasks, spaces.",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestMany_PartialFailure(t *testing.T) {
	f := &fakeFetcher{
		responses: map[string]any{
			"team/9001/space":   spacesPayload("sp1"),
			"team/9001/comment": map[string]any{"comments": []any{}},
		},
		errors: map[string]error{
			"team/9001/task": errors.New("HTTP 500: internal error"),
		},
	}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindTasks, format.KindSpaces, format.KindComments}, 3, "")

	if !strings.Contains(doc, "Could not fetch tasks:") {
		t.Errorf("document missing tasks error section:\n%s", doc)
	}
	if !strings.Contains(doc, "1. Space sp1") {
		t.Errorf("spaces section should survive the tasks failure:\n%s", doc)
	}
	if !strings.Contains(doc, "No comments found.") {
		t.Errorf("comments section should survive the tasks failure:\n%s", doc)
	}
	if !strings.Contains(doc, "Included: tasks, spaces, comments.") {
		t.Errorf("failed kinds still count as included:\n%s", doc)
	}
}

func TestMany_PreservesCallerOrder(t *testing.T) {
	// Spaces responds slowest; the document must still follow the
	// requested order, not completion order.
	f := &fakeFetcher{
		responses: map[string]any{
			"team/9001/task":  tasksPayload("Fast task"),
			"team/9001/space": spacesPayload("sp1"),
		},
		delays: map[string]time.Duration{
			"team/9001/space": 30 * time.Millisecond,
		},
	}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindSpaces, format.KindTasks}, 3, "")

	spacesAt := strings.Index(doc, "## SPACES")
	tasksAt := strings.Index(doc, "## TASKS")
	if spacesAt < 0 || tasksAt < 0 {
		t.Fatalf("document missing a section:\n%s", doc)
	}
	if spacesAt > tasksAt {
		t.Errorf("sections out of caller order (spaces at %d, tasks at %d):\n%s", spacesAt, tasksAt, doc)
	}
	if !strings.Contains(doc, "Included: spaces, tasks.") {
		t.Errorf("trailer out of caller order:\n%s", doc)
	}
}

func TestMany_TwoLevelFetchHonorsLimit(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/space": spacesPayload("sp1", "sp2", "sp3"),
		"space/sp1/list":  listsPayload("Alpha"),
		"space/sp2/list":  listsPayload("Beta"),
		"space/sp3/list":  listsPayload("Gamma"),
	}}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindLists}, 2, "")

	if f.called("space/sp3/list") {
		t.Errorf("limit 2 should not expand the third space; calls: %v", f.paths())
	}
	alphaAt := strings.Index(doc, "Alpha")
	betaAt := strings.Index(doc, "Beta")
	if alphaAt < 0 || betaAt < 0 {
		t.Fatalf("flattened lists missing:\n%s", doc)
	}
	if alphaAt > betaAt {
		t.Errorf("lists out of space order:\n%s", doc)
	}
	if strings.Contains(doc, "Gamma") {
		t.Errorf("third space leaked past the limit:\n%s", doc)
	}
}

func TestMany_TwoLevelSkipsSpacesWithoutID(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/space": map[string]any{"spaces": []any{
			map[string]any{"name": "No ID here"},
			map[string]any{"id": "sp2", "name": "Space sp2"},
		}},
		"space/sp2/list": listsPayload("Beta"),
	}}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindLists}, 3, "")

	if !strings.Contains(doc, "Beta") {
		t.Errorf("list from the valid space missing:\n%s", doc)
	}
	for _, p := range f.paths() {
		if strings.HasPrefix(p, "space//") {
			t.Errorf("fetched a space with an empty ID: %v", f.paths())
		}
	}
}

func TestMany_SpacesFailureFailsLists(t *testing.T) {
	f := &fakeFetcher{errors: map[string]error{
		"team/9001/space": errors.New("HTTP 503: try later"),
	}}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindLists}, 3, "")

	if !strings.Contains(doc, "Could not fetch lists: fetching spaces:") {
		t.Errorf("first-level failure should fail the dependent kind:\n%s", doc)
	}
}

func TestMany_SkipsUnknownKinds(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/task": tasksPayload("Ship release"),
	}}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindTasks, "bogus"}, 3, "")

	if !strings.Contains(doc, "## TASKS") {
		t.Errorf("known kind should render:\n%s", doc)
	}
	if strings.Contains(doc, "bogus") {
		t.Errorf("unknown kind leaked into document:\n%s", doc)
	}
	if !strings.Contains(doc, "Included: tasks.") {
		t.Errorf("trailer should list only known kinds:\n%s", doc)
	}
}

func TestMany_NoUsableKinds(t *testing.T) {
	f := &fakeFetcher{}
	a := newAggregator(f)

	tests := []struct {
		name  string
		kinds []format.Kind
	}{
		{"empty request", nil},
		{"all unknown", []format.Kind{"bogus", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Many(context.Background(), "9001", "", tt.kinds, 3, "")
			if got != "No data available." {
				t.Errorf("document = %q, want %q", got, "No data available.")
			}
		})
	}
	if len(f.paths()) != 0 {
		t.Errorf("no upstream calls expected, got %v", f.paths())
	}
}

func TestMany_DuplicateKindsRenderTwice(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/task": tasksPayload("Ship release"),
	}}
	a := newAggregator(f)

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindTasks, format.KindTasks}, 3, "")

	if got := strings.Count(doc, "## TASKS"); got != 2 {
		t.Errorf("TASKS sections = %d, want 2:\n%s", got, doc)
	}
	if !strings.Contains(doc, "Included: tasks, tasks.") {
		t.Errorf("trailer should repeat the duplicate:\n%s", doc)
	}
}

func TestMany_TokenFailureStaysPerKind(t *testing.T) {
	f := &fakeFetcher{}
	a := aggregate.New(f, fakeResolver{err: errors.New("no token found")})

	doc := a.Many(context.Background(), "9001", "", []format.Kind{format.KindTasks, format.KindSpaces}, 3, "")

	if got := strings.Count(doc, "resolving token:"); got != 2 {
		t.Errorf("token error sections = %d, want one per kind:\n%s", got, doc)
	}
	if len(f.paths()) != 0 {
		t.Errorf("no upstream calls expected without a token, got %v", f.paths())
	}
}

func TestMany_ConcurrentCalls(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/task":  tasksPayload("Ship release"),
		"team/9001/space": spacesPayload("sp1"),
	}}
	a := newAggregator(f)
	kinds := []format.Kind{format.KindTasks, format.KindSpaces}

	const callers = 10
	docs := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			docs[i] = a.Many(context.Background(), "9001", "", kinds, 3, "")
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if docs[i] != docs[0] {
			t.Errorf("caller %d saw a different document", i)
		}
	}
}

// ─── One ─────────────────────────────────────────────────────────────────────

func TestOne_RendersSection(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/task": tasksPayload("Ship release"),
	}}
	a := newAggregator(f)

	got, err := a.One(context.Background(), "9001", "", format.KindTasks, 3, "")
	if err != nil {
		t.Fatalf("One: %v", err)
	}
	if !strings.Contains(got, "1. Ship release") {
		t.Errorf("section missing entry:\n%s", got)
	}
	if strings.Contains(got, "# Workspace Overview") {
		t.Errorf("single-kind output should not carry the document header:\n%s", got)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) != 1 || f.calls[0].token != "pk_test" {
		t.Errorf("resolved token not forwarded: %+v", f.calls)
	}
}

func TestOne_SurfacesUpstreamError(t *testing.T) {
	boom := errors.New("HTTP 401: Token invalid")
	f := &fakeFetcher{errors: map[string]error{"team/9001/task": boom}}
	a := newAggregator(f)

	_, err := a.One(context.Background(), "9001", "", format.KindTasks, 3, "")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped upstream failure", err)
	}
}

func TestOne_RejectsUnsupportedKind(t *testing.T) {
	a := newAggregator(&fakeFetcher{})

	_, err := a.One(context.Background(), "9001", "", "bogus", 3, "")
	if !errors.Is(err, format.ErrUnsupportedKind) {
		t.Errorf("error = %v, want ErrUnsupportedKind", err)
	}
}

func TestOne_SurfacesTokenFailure(t *testing.T) {
	a := aggregate.New(&fakeFetcher{}, tokens.Static{})

	_, err := a.One(context.Background(), "9001", "", format.KindTasks, 3, "")
	if !errors.Is(err, tokens.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestOne_ForwardsTaskQuery(t *testing.T) {
	f := &fakeFetcher{responses: map[string]any{
		"team/9001/task": tasksPayload("Ship release"),
	}}
	a := newAggregator(f)

	if _, err := a.One(context.Background(), "9001", "", format.KindTasks, 3, "launch plan"); err != nil {
		t.Fatalf("One: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if got := f.calls[0].query.Get("search"); got != "launch plan" {
		t.Errorf("search query = %q, want %q", got, "launch plan")
	}
}
