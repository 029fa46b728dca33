package vgnav

import (
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vugu/vugu/js"
)

// BrowserHistory implements History on top of window.history and window.location.
// It uses clean URLs: the path part of the address is manipulated directly, so the
// web server must answer every deep link with the application's entry page
// (see the devserver package for one way to do that).
type BrowserHistory struct {
	base string

	mu           sync.Mutex
	listener     func(path string)
	popStateFunc js.Func
}

// BrowserHistoryOpt configures a BrowserHistory.
type BrowserHistoryOpt func(h *BrowserHistory)

// WithBase sets a base path the application is mounted under, e.g. "/app".
// It is stripped from paths read from the browser and prepended to paths written.
func WithBase(base string) BrowserHistoryOpt {
	return func(h *BrowserHistory) {
		h.base = cleanBase(base)
	}
}

// NewBrowserHistory returns a BrowserHistory, or ErrHistoryUnavailable
// when not running in a browser (js) environment.
func NewBrowserHistory(opts ...BrowserHistoryOpt) (*BrowserHistory, error) {

	g := js.Global()
	if !g.Truthy() || !g.Get("window").Get("history").Truthy() {
		return nil, ErrHistoryUnavailable
	}

	h := &BrowserHistory{}
	for _, o := range opts {
		o(h)
	}
	return h, nil
}

// CurrentPath implements History.
func (h *BrowserHistory) CurrentPath() string {
	return stripBase(h.base, js.Global().Get("window").Get("location").Get("pathname").String())
}

// Location returns the current path and the token stored in history.state
// (empty if the entry was not created by this BrowserHistory).
func (h *BrowserHistory) Location() Location {
	loc := Location{Path: h.CurrentPath()}
	st := js.Global().Get("window").Get("history").Get("state")
	if st.Truthy() {
		if tok := st.Get("token"); tok.Truthy() {
			loc.Token = tok.String()
		}
	}
	return loc
}

// Push implements History using history.pushState().
func (h *BrowserHistory) Push(p string) {
	js.Global().Get("window").Get("history").Call("pushState", historyState(), "", joinBase(h.base, p))
}

// Replace implements History using history.replaceState().
func (h *BrowserHistory) Replace(p string) {
	js.Global().Get("window").Get("history").Call("replaceState", historyState(), "", joinBase(h.base, p))
}

func historyState() map[string]interface{} {
	return map[string]interface{}{"token": uuid.NewString()}
}

// OnPopNavigation implements History.  The popstate listener is added to
// window on the first non-nil f and removed again when f is nil.
func (h *BrowserHistory) OnPopNavigation(f func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listener = f
	if f == nil {
		_ = h.removePopStateListener()
		return
	}
	if h.popStateFunc.IsUndefined() {
		_ = h.addPopStateListener(func(this js.Value, args []js.Value) interface{} {
			h.mu.Lock()
			l := h.listener
			h.mu.Unlock()
			if l != nil {
				l(h.CurrentPath())
			}
			return nil
		})
	}
}

// Release removes the popstate listener from window.
func (h *BrowserHistory) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = nil
	return h.removePopStateListener()
}

func (h *BrowserHistory) removePopStateListener() error {

	if h.popStateFunc.IsUndefined() {
		return errors.New("popstate listener not set")
	}

	js.Global().Get("window").Call("removeEventListener", "popstate", h.popStateFunc)

	h.popStateFunc.Release()
	h.popStateFunc = js.Func{}

	return nil
}

func (h *BrowserHistory) addPopStateListener(f func(this js.Value, args []js.Value) interface{}) error {

	if !h.popStateFunc.IsUndefined() {
		return errors.New("popstate listener already set")
	}

	jf := js.FuncOf(f)

	js.Global().Get("window").Call("addEventListener", "popstate", jf)

	h.popStateFunc = jf

	return nil
}

// cleanBase makes base absolute with no trailing slash; "/" becomes "".
func cleanBase(base string) string {
	if base == "" {
		return ""
	}
	base = path.Clean("/" + base)
	if base == "/" {
		return ""
	}
	return base
}

func stripBase(base, p string) string {
	if base != "" && (p == base || strings.HasPrefix(p, base+"/")) {
		p = p[len(base):]
	}
	if p == "" {
		return "/"
	}
	return p
}

func joinBase(base, p string) string {
	if base == "" {
		return p
	}
	if p == "/" {
		return base + "/"
	}
	return base + p
}
