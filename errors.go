package vgnav

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicatePath means two entries in a route table share a path.
	ErrDuplicatePath = errors.New("duplicate route path")

	// ErrInvalidPath means a route path is empty, does not start with "/" or has an unnamed parameter.
	ErrInvalidPath = errors.New("invalid route path")

	// ErrInvalidEntry means an entry has neither a view nor a redirect, or has both.
	ErrInvalidEntry = errors.New("route entry needs exactly one of view or redirect")

	// ErrUnknownView is returned when reverse-resolving a view no entry shows.
	ErrUnknownView = errors.New("no route for view")

	// ErrUnknownRedirect means a redirect target is not registered in the table.
	ErrUnknownRedirect = errors.New("redirect target not registered")

	// ErrRedirectLoop means following redirects from an entry never reaches a view.
	ErrRedirectLoop = errors.New("redirect loop")

	// ErrMissingTable means a router was created without a route table.
	ErrMissingTable = errors.New("no route table")

	// ErrHistoryUnavailable means the platform history primitive is missing,
	// e.g. a BrowserHistory was requested outside of a browser.
	ErrHistoryUnavailable = errors.New("history unavailable")

	// ErrStaleNavigation is returned by NavigateContext when a newer navigation
	// started before this one completed.  Its result was discarded.
	ErrStaleNavigation = errors.New("navigation superseded")
)

// ConfigError is a route configuration problem detected at construction time.
// It is always fatal; the application should not start with a bad table.
type ConfigError struct {
	Path string // route path the problem was found on, may be empty
	Err  error  // one of the Err* sentinels, possibly wrapped
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("vgnav: config: %v", e.Err)
	}
	return fmt.Sprintf("vgnav: config: %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if err is (or wraps) a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
