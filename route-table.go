package vgnav

import (
	"fmt"
	"net/url"
	"strings"
)

// ViewID names the view that should be active for a path.
// What it refers to is up to the rendering layer.
type ViewID string

// ViewNone is the zero ViewID and means no view is selected.
const ViewNone ViewID = ""

// RouteEntry is a single row of a RouteTable.
type RouteEntry struct {
	Path     string `toml:"path"`               // exact path, or a pattern with ":param" segments
	View     ViewID `toml:"view"`               // view shown for Path
	Redirect string `toml:"redirect,omitempty"` // if set, Path resolves as this path instead (replacing history)
}

// Match is the outcome of a successful lookup.
type Match struct {
	Entry  RouteEntry // the entry that matched
	Path   string     // the path that was looked up
	Params url.Values // values captured by ":param" segments, nil for literal entries
}

type tableEntry struct {
	RouteEntry
	mpath mpath // nil for literal paths
}

// RouteTable is an ordered, immutable list of routes.
// Lookups walk the list in registration order and the first match wins.
type RouteTable struct {
	entries []tableEntry
}

// MustNewRouteTable is like NewRouteTable but panics upon error.
func MustNewRouteTable(entries ...RouteEntry) *RouteTable {
	t, err := NewRouteTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewRouteTable validates entries and returns a table holding a copy of them.
// Any problem is returned as a *ConfigError.
func NewRouteTable(entries ...RouteEntry) (*RouteTable, error) {

	t := &RouteTable{entries: make([]tableEntry, 0, len(entries))}
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {

		if e.Path == "" || !strings.HasPrefix(e.Path, "/") {
			return nil, &ConfigError{Path: e.Path, Err: ErrInvalidPath}
		}
		if (e.View == ViewNone) == (e.Redirect == "") {
			return nil, &ConfigError{Path: e.Path, Err: ErrInvalidEntry}
		}
		if seen[e.Path] {
			return nil, &ConfigError{Path: e.Path, Err: ErrDuplicatePath}
		}
		seen[e.Path] = true

		te := tableEntry{RouteEntry: e}
		if isPattern(e.Path) {
			mp, err := parseMpath(e.Path)
			if err != nil {
				return nil, &ConfigError{Path: e.Path, Err: err}
			}
			names := make(map[string]bool, 2)
			for _, n := range mp.paramNames() {
				if names[n] {
					return nil, &ConfigError{Path: e.Path, Err: fmt.Errorf("parameter %q used twice: %w", n, ErrInvalidPath)}
				}
				names[n] = true
			}
			te.mpath = mp
		}

		t.entries = append(t.entries, te)
	}

	// every redirect chain must end on a view
	for _, te := range t.entries {
		if te.Redirect == "" {
			continue
		}
		if _, _, _, err := t.resolve(te.Path); err != nil {
			return nil, &ConfigError{Path: te.Path, Err: err}
		}
	}

	return t, nil
}

// Len returns the number of entries.
func (t *RouteTable) Len() int { return len(t.entries) }

// Entries returns a copy of the entries in registration order.
func (t *RouteTable) Entries() []RouteEntry {
	ret := make([]RouteEntry, len(t.entries))
	for i := range t.entries {
		ret[i] = t.entries[i].RouteEntry
	}
	return ret
}

// Match returns the first entry matching p.  Literal entries match only the
// identical string.  A false return means not found, which is an ordinary
// outcome for mistyped or stale URLs.  Redirects are not followed.
func (t *RouteTable) Match(p string) (Match, bool) {
	for _, te := range t.entries {
		if te.mpath == nil {
			if te.Path == p {
				return Match{Entry: te.RouteEntry, Path: p}, true
			}
			continue
		}
		if params, ok := te.mpath.match(p); ok {
			return Match{Entry: te.RouteEntry, Path: p, Params: params}, true
		}
	}
	return Match{}, false
}

// resolve is like Match but follows redirects.  It returns the final match
// (whose Path is the redirect target if any were followed) and an error if a
// redirect points nowhere or loops.
func (t *RouteTable) resolve(p string) (m Match, ok, redirected bool, err error) {

	m, ok = t.Match(p)
	if !ok {
		return Match{}, false, false, nil
	}

	for hops := 0; m.Entry.Redirect != ""; hops++ {
		if hops >= len(t.entries) {
			return Match{}, false, false, fmt.Errorf("%w starting at %q", ErrRedirectLoop, p)
		}
		target := m.Entry.Redirect
		m, ok = t.Match(target)
		if !ok {
			return Match{}, false, false, fmt.Errorf("%w: %q", ErrUnknownRedirect, target)
		}
		redirected = true
	}

	return m, true, redirected, nil
}

// PathFor returns the path of the first entry showing view, with any
// ":param" segments filled in from params.
func (t *RouteTable) PathFor(view ViewID, params url.Values) (string, error) {
	for _, te := range t.entries {
		if te.View != view || te.Redirect != "" {
			continue
		}
		if te.mpath == nil {
			return te.Path, nil
		}
		p, _, err := te.mpath.merge(params)
		if err != nil {
			return p, fmt.Errorf("building path for view %q from %q: %w", view, te.Path, err)
		}
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownView, view)
}
