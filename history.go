package vgnav

// History is the platform's location and history primitive.
// Only the Router that owns a History may call Push or Replace on it,
// otherwise the displayed view and the address bar can drift apart.
type History interface {
	// CurrentPath returns the path the platform is showing right now.
	CurrentPath() string

	// Push adds a new history entry for path, so "back" returns to the previous one.
	Push(path string)

	// Replace overwrites the current history entry with path without adding a back-stop.
	Replace(path string)

	// OnPopNavigation sets the function called when back/forward changes the
	// path outside of Push and Replace.  Setting it again replaces the previous
	// listener and nil removes it.
	OnPopNavigation(f func(path string))
}

// Location is where the platform currently is: a path plus
// an opaque token identifying the history entry.
type Location struct {
	Path  string
	Token string
}
