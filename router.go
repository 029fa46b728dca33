package vgnav

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"go.uber.org/atomic"
)

// EventEnv is our view of a Vugu EventEnv
type EventEnv interface {
	Lock()         // acquire write lock
	UnlockOnly()   // release write lock
	UnlockRender() // release write lock and request re-render
}

// NavigatorOpt is a marker interface to ensure that options to Navigate are passed intentionally.
type NavigatorOpt interface {
	IsNavigatorOpt()
}

type intNavigatorOpt int

// IsNavigatorOpt implements NavigatorOpt.
func (i intNavigatorOpt) IsNavigatorOpt() {}

// NavReplace will cause this navigation to replace the
// current history entry rather than pushing to the stack.
// Use it for corrective navigations the user should not be able to go "back" into.
var NavReplace NavigatorOpt = intNavigatorOpt(1)

type navOpts []NavigatorOpt

func (no navOpts) has(o NavigatorOpt) bool {
	for _, o2 := range no {
		if o == o2 {
			return true
		}
	}
	return false
}

// Phase is where a Router is in handling navigation.
type Phase int

const (
	PhaseIdle      Phase = iota // nothing resolved yet
	PhaseResolving              // a navigation is being matched and activated
	PhaseSettled                // a view is active and its path is in the address bar
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseSettled:
		return "settled"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// NavigationState is a snapshot of what the Router is showing.
type NavigationState struct {
	Phase      Phase
	Path       string     // current path, empty before the first navigation
	View       ViewID     // active view, ViewNone before the first navigation
	NotFound   bool       // true if Path matched no route and View is the not-found view
	Params     url.Values // values captured from ":param" route segments
	Generation uint64     // number of navigation attempts so far
}

// Activator is called with the resolved match before a navigation is committed.
// It may do slow work (loading the view, fetching data); if another navigation
// starts meanwhile the result of this one is thrown away.
type Activator interface {
	Activate(ctx context.Context, m Match) error
}

// ActivatorFunc implements Activator as a function.
type ActivatorFunc func(ctx context.Context, m Match) error

// Activate implements the Activator interface.
func (f ActivatorFunc) Activate(ctx context.Context, m Match) error { return f(ctx, m) }

// RouterOpt configures a Router.
type RouterOpt func(r *Router)

// WithNotFound sets the view shown for paths no route matches.
// Without it such paths show ViewNone.
func WithNotFound(view ViewID) RouterOpt {
	return func(r *Router) { r.notFound = view }
}

// WithLogger sets the logger, by default nothing is logged.
func WithLogger(l *log.Logger) RouterOpt {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithEventEnv sets the EventEnv locked around back/forward navigation,
// which arrives from the browser outside of any Vugu event handler.
func WithEventEnv(env EventEnv) RouterOpt {
	return func(r *Router) { r.eventEnv = env }
}

// WithActivator sets an Activator run on every navigation.
func WithActivator(a Activator) RouterOpt {
	return func(r *Router) { r.activator = a }
}

type navKind int

const (
	navPush navKind = iota
	navReplace
	navPop   // the platform already moved its history
	navStart // initial load from the address bar
)

func (k navKind) String() string {
	return [...]string{"push", "replace", "pop", "start"}[k]
}

// Router keeps the active view and the browser address in step.
// It owns its RouteTable and History; nothing else should call Push or
// Replace on that History.
type Router struct {
	table     *RouteTable
	history   History
	notFound  ViewID
	logger    *log.Logger
	eventEnv  EventEnv
	activator Activator

	generation atomic.Uint64

	mu        sync.Mutex
	state     NavigationState
	settled   bool // a navigation has been committed
	listeners []func(NavigationState)
}

// New returns a new Router.  A nil table is a *ConfigError and a nil
// history is ErrHistoryUnavailable; both should stop the application.
func New(table *RouteTable, history History, opts ...RouterOpt) (*Router, error) {

	if table == nil {
		return nil, &ConfigError{Err: ErrMissingTable}
	}
	if history == nil {
		return nil, ErrHistoryUnavailable
	}

	r := &Router{
		table:   table,
		history: history,
		logger:  discardLogger(),
	}
	for _, o := range opts {
		o(r)
	}

	return r, nil
}

// Start reads the current path from the History, resolves it, and begins
// listening for back/forward navigation.  The history is only touched if
// the path is a redirect, in which case the entry is replaced.
// It is generally called once at application startup.
func (r *Router) Start(ctx context.Context) error {
	r.history.OnPopNavigation(r.popNavigate)
	return r.navigate(ctx, r.history.CurrentPath(), navStart)
}

// Stop stops listening for back/forward navigation.
func (r *Router) Stop() {
	r.history.OnPopNavigation(nil)
}

// MustNavigate is like Navigate but panics upon error.
func (r *Router) MustNavigate(path string, opts ...NavigatorOpt) {
	err := r.Navigate(path, opts...)
	if err != nil {
		panic(err)
	}
}

// Navigate will go to the specified path.  A path that matches no route is
// not an error: it shows the not-found view.  An error is only possible
// when an Activator is set.
func (r *Router) Navigate(path string, opts ...NavigatorOpt) error {
	return r.NavigateContext(context.Background(), path, opts...)
}

// NavigateContext is like Navigate with a context passed to the Activator.
// It returns ErrStaleNavigation if another navigation started before this
// one finished, in which case neither the state nor the history changed.
func (r *Router) NavigateContext(ctx context.Context, path string, opts ...NavigatorOpt) error {
	kind := navPush
	if navOpts(opts).has(NavReplace) {
		kind = navReplace
	}
	return r.navigate(ctx, path, kind)
}

// popNavigate is the History's pop listener.
func (r *Router) popNavigate(path string) {
	if r.eventEnv != nil {
		r.eventEnv.Lock()
		defer r.eventEnv.UnlockRender()
	}
	if err := r.navigate(context.Background(), path, navPop); err != nil {
		r.logger.Error("back/forward navigation failed", "path", path, "err", err)
	}
}

func (r *Router) navigate(ctx context.Context, path string, kind navKind) error {

	gen := r.generation.Inc()

	r.mu.Lock()
	r.state.Phase = PhaseResolving
	r.state.Generation = gen
	r.mu.Unlock()

	m, ok, redirected, err := r.table.resolve(path)
	if err != nil {
		// NewRouteTable rejects tables where this can happen
		r.logger.Error("resolving path", "path", path, "err", err)
		ok = false
	}

	next := NavigationState{
		Phase:      PhaseSettled,
		Path:       path,
		Generation: gen,
	}
	if ok {
		next.Path = m.Path
		next.View = m.Entry.View
		next.Params = m.Params
	} else {
		next.View = r.notFound
		next.NotFound = true
		m = Match{Entry: RouteEntry{View: r.notFound}, Path: path}
		r.logger.Warn("no route", "path", path, "view", r.notFound)
	}

	if r.activator != nil {
		err := r.activator.Activate(ctx, m)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			r.mu.Lock()
			if r.generation.Load() == gen {
				r.state.Phase = PhaseIdle
				if r.settled {
					r.state.Phase = PhaseSettled
				}
			}
			r.mu.Unlock()
			return fmt.Errorf("activating view %q for %q: %w", next.View, path, err)
		}
	}

	r.mu.Lock()
	if r.generation.Load() != gen {
		r.mu.Unlock()
		r.logger.Warn("discarding stale navigation", "path", path, "generation", gen)
		return ErrStaleNavigation
	}

	r.state = next
	r.settled = true

	switch {
	case kind == navPush:
		r.history.Push(next.Path)
	case kind == navReplace:
		r.history.Replace(next.Path)
	case redirected:
		// the address bar shows the redirect source, correct it in place
		r.history.Replace(next.Path)
	}

	listeners := make([]func(NavigationState), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	r.logger.Debug("navigated", "kind", kind, "path", path, "resolved", next.Path, "view", next.View, "generation", gen)

	for _, f := range listeners {
		f(next)
	}

	return nil
}

// OnChange adds a function called with the new state after every committed
// navigation.  This is how the rendering layer learns which view to show.
func (r *Router) OnChange(f func(NavigationState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, f)
}

// State returns a snapshot of the current navigation state.
func (r *Router) State() NavigationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state
	st.Params = maps.Clone(st.Params)
	return st
}

// Current returns the active view.
func (r *Router) Current() ViewID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.View
}

// PathFor returns the path for view, filling ":param" segments from params.
func (r *Router) PathFor(view ViewID, params url.Values) (string, error) {
	return r.table.PathFor(view, params)
}
