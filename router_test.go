package vgnav

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHistory is a MemoryHistory that remembers every Push and Replace.
type recordingHistory struct {
	*MemoryHistory
	mu    sync.Mutex
	calls []string
}

func newRecordingHistory(start string) *recordingHistory {
	return &recordingHistory{MemoryHistory: NewMemoryHistory(start)}
}

func (h *recordingHistory) Push(p string) {
	h.mu.Lock()
	h.calls = append(h.calls, "push "+p)
	h.mu.Unlock()
	h.MemoryHistory.Push(p)
}

func (h *recordingHistory) Replace(p string) {
	h.mu.Lock()
	h.calls = append(h.calls, "replace "+p)
	h.mu.Unlock()
	h.MemoryHistory.Replace(p)
}

func (h *recordingHistory) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func appTable() *RouteTable {
	return MustNewRouteTable(
		RouteEntry{Path: "/home", View: viewHome},
		RouteEntry{Path: "/login", View: viewLogin},
	)
}

func newTestRouter(t *testing.T, table *RouteTable, start string, opts ...RouterOpt) (*Router, *recordingHistory) {
	t.Helper()
	h := newRecordingHistory(start)
	r, err := New(table, h, opts...)
	require.NoError(t, err)
	return r, h
}

func TestRouter(t *testing.T) {

	type tcase struct {
		path  string         // the path to navigate to
		opts  []NavigatorOpt // options passed to Navigate
		check func(st NavigationState, calls []string) bool
	}

	tclist := []tcase{
		{
			"/home",
			nil,
			func(st NavigationState, calls []string) bool {
				return st.View == viewHome && st.Path == "/home" && !st.NotFound && fmt.Sprint(calls) == "[push /home]"
			},
		},
		{
			"/login",
			[]NavigatorOpt{NavReplace},
			func(st NavigationState, calls []string) bool {
				return st.View == viewLogin && fmt.Sprint(calls) == "[replace /login]"
			},
		},
		{
			"/nothing",
			nil,
			func(st NavigationState, calls []string) bool {
				return st.View == viewNotFound && st.Path == "/nothing" && st.NotFound && fmt.Sprint(calls) == "[push /nothing]"
			},
		},
		{
			"/",
			nil,
			func(st NavigationState, calls []string) bool {
				return st.View == viewHome && st.Path == "/home" && fmt.Sprint(calls) == "[push /home]"
			},
		},
		{
			"/rooms/9",
			nil,
			func(st NavigationState, calls []string) bool {
				return st.View == viewRoom && st.Params.Get("id") == "9"
			},
		},
	}

	for i, tc := range tclist {
		t.Run(fmt.Sprint(i), func(t *testing.T) {

			table := MustNewRouteTable(
				RouteEntry{Path: "/", Redirect: "/home"},
				RouteEntry{Path: "/home", View: viewHome},
				RouteEntry{Path: "/login", View: viewLogin},
				RouteEntry{Path: "/rooms/:id", View: viewRoom},
			)
			r, h := newTestRouter(t, table, "/login", WithNotFound(viewNotFound))

			require.NoError(t, r.Navigate(tc.path, tc.opts...))

			st := r.State()
			assert.Equal(t, PhaseSettled, st.Phase)
			if !tc.check(st, h.Calls()) {
				t.Errorf("unexpected state %+v, calls %v", st, h.Calls())
			}
		})
	}

}

func TestRouterEndToEnd(t *testing.T) {

	r, h := newTestRouter(t, appTable(), "/login")
	assert.Equal(t, PhaseIdle, r.State().Phase)

	require.NoError(t, r.Start(context.Background()))
	st := r.State()
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Equal(t, viewLogin, st.View)
	assert.Equal(t, "/login", st.Path)
	assert.Empty(t, h.Calls())

	r.MustNavigate("/home")
	st = r.State()
	assert.Equal(t, "/home", st.Path)
	assert.Equal(t, viewHome, st.View)
	assert.Equal(t, []string{"push /home"}, h.Calls())

	require.True(t, h.Back())
	st = r.State()
	assert.Equal(t, viewLogin, st.View)
	assert.Equal(t, "/login", st.Path)
	assert.Equal(t, []string{"push /home"}, h.Calls(), "back must not push or replace")

	require.True(t, h.Forward())
	assert.Equal(t, viewHome, r.Current())
	assert.Len(t, h.Calls(), 1)
}

func TestRouterRegisteredPaths(t *testing.T) {
	table := appTable()
	for _, e := range table.Entries() {
		t.Run(e.Path, func(t *testing.T) {
			r, h := newTestRouter(t, table, "/elsewhere")
			require.NoError(t, r.Navigate(e.Path))
			st := r.State()
			assert.Equal(t, e.Path, st.Path)
			assert.Equal(t, e.View, st.View)
			assert.Equal(t, e.Path, h.CurrentPath())
		})
	}
}

func TestRouterNotFoundWithoutFallback(t *testing.T) {
	r, h := newTestRouter(t, appTable(), "/home")
	require.NoError(t, r.Start(context.Background()))

	require.NoError(t, r.Navigate("/legacy/page"))
	st := r.State()
	assert.Equal(t, "/legacy/page", st.Path)
	assert.Equal(t, ViewNone, st.View)
	assert.True(t, st.NotFound)
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Equal(t, "/legacy/page", h.CurrentPath())
}

func TestRouterReplaceKeepsDepth(t *testing.T) {
	r, h := newTestRouter(t, appTable(), "/login")
	require.NoError(t, r.Start(context.Background()))
	r.MustNavigate("/home")

	depth := h.Len()
	r.MustNavigate("/login", NavReplace)
	assert.Equal(t, depth, h.Len())
	assert.Equal(t, "/login", h.CurrentPath())
	assert.Equal(t, viewLogin, r.Current())

	// the replaced entry is gone, back returns to the start entry
	require.True(t, h.Back())
	assert.Equal(t, viewLogin, r.Current())
	assert.Equal(t, 0, h.Index())
}

func TestRouterIdempotent(t *testing.T) {
	r, h := newTestRouter(t, appTable(), "/login")

	r.MustNavigate("/home")
	first := r.State()
	firstCalls := h.Calls()

	r.MustNavigate("/home")
	second := r.State()
	secondCalls := h.Calls()[len(firstCalls):]

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.View, second.View)
	assert.Equal(t, first.Phase, second.Phase)
	assert.Equal(t, firstCalls, secondCalls)
	assert.Equal(t, first.Generation+1, second.Generation)
}

func TestRouterStartRedirect(t *testing.T) {
	table := MustNewRouteTable(
		RouteEntry{Path: "/", Redirect: "/home"},
		RouteEntry{Path: "/home", View: viewHome},
	)
	r, h := newTestRouter(t, table, "/")
	require.NoError(t, r.Start(context.Background()))

	assert.Equal(t, viewHome, r.Current())
	assert.Equal(t, "/home", r.State().Path)
	assert.Equal(t, []string{"replace /home"}, h.Calls())
	assert.Equal(t, 1, h.Len())
}

func TestRouterStop(t *testing.T) {
	r, h := newTestRouter(t, appTable(), "/login")
	require.NoError(t, r.Start(context.Background()))
	r.MustNavigate("/home")

	r.Stop()
	require.True(t, h.Back())
	assert.Equal(t, viewHome, r.Current())
}

func TestRouterOnChange(t *testing.T) {
	r, h := newTestRouter(t, appTable(), "/login")

	var seen []ViewID
	r.OnChange(func(st NavigationState) { seen = append(seen, st.View) })

	require.NoError(t, r.Start(context.Background()))
	r.MustNavigate("/home")
	h.Back()

	assert.Equal(t, []ViewID{viewLogin, viewHome, viewLogin}, seen)
}

func TestRouterGeneration(t *testing.T) {
	r, _ := newTestRouter(t, appTable(), "/login")
	require.NoError(t, r.Start(context.Background()))
	r.MustNavigate("/home")
	r.MustNavigate("/nope")
	assert.Equal(t, uint64(3), r.State().Generation)
}

func TestRouterStaleNavigation(t *testing.T) {

	started := make(chan struct{})
	release := make(chan struct{})

	act := ActivatorFunc(func(ctx context.Context, m Match) error {
		if m.Entry.View == viewLogin {
			close(started)
			<-release
		}
		return nil
	})

	r, h := newTestRouter(t, appTable(), "/", WithActivator(act))

	errc := make(chan error, 1)
	go func() { errc <- r.Navigate("/login") }()

	<-started
	assert.Equal(t, PhaseResolving, r.State().Phase)

	require.NoError(t, r.Navigate("/home"))
	close(release)

	err := <-errc
	assert.ErrorIs(t, err, ErrStaleNavigation)

	st := r.State()
	assert.Equal(t, viewHome, st.View)
	assert.Equal(t, "/home", st.Path)
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Equal(t, []string{"push /home"}, h.Calls())
}

func TestRouterActivatorError(t *testing.T) {

	errBoom := errors.New("boom")
	act := ActivatorFunc(func(ctx context.Context, m Match) error {
		if m.Entry.View == viewLogin {
			return errBoom
		}
		return nil
	})

	r, h := newTestRouter(t, appTable(), "/home", WithActivator(act))
	require.NoError(t, r.Start(context.Background()))

	err := r.Navigate("/login")
	assert.ErrorIs(t, err, errBoom)

	st := r.State()
	assert.Equal(t, viewHome, st.View)
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Empty(t, h.Calls())

	assert.Panics(t, func() { r.MustNavigate("/login") })
}

func TestRouterCancelledContext(t *testing.T) {
	act := ActivatorFunc(func(ctx context.Context, m Match) error { return nil })
	r, h := newTestRouter(t, appTable(), "/home", WithActivator(act))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.NavigateContext(ctx, "/login")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseIdle, r.State().Phase)
	assert.Empty(t, h.Calls())
}

type countingEnv struct {
	locks, unlocks, renders int
}

func (e *countingEnv) Lock()         { e.locks++ }
func (e *countingEnv) UnlockOnly()   { e.unlocks++ }
func (e *countingEnv) UnlockRender() { e.renders++ }

func TestRouterEventEnv(t *testing.T) {
	env := &countingEnv{}
	r, h := newTestRouter(t, appTable(), "/login", WithEventEnv(env))
	require.NoError(t, r.Start(context.Background()))
	r.MustNavigate("/home")
	assert.Equal(t, 0, env.locks, "explicit navigation runs under the caller's lock")

	h.Back()
	assert.Equal(t, 1, env.locks)
	assert.Equal(t, 1, env.renders)
	assert.Equal(t, 0, env.unlocks)
}

func TestNewRouterErrors(t *testing.T) {
	_, err := New(nil, NewMemoryHistory("/"))
	assert.True(t, IsConfigError(err))
	assert.ErrorIs(t, err, ErrMissingTable)

	_, err = New(appTable(), nil)
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
}

func TestRouterPathFor(t *testing.T) {
	r, _ := newTestRouter(t, appTable(), "/")
	p, err := r.PathFor(viewLogin, nil)
	require.NoError(t, err)
	assert.Equal(t, "/login", p)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "resolving", PhaseResolving.String())
	assert.Equal(t, "settled", PhaseSettled.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
}
