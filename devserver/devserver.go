// Package devserver serves a single-page application out of a directory with
// clean-URL fallback: any request that is not for an existing file gets the
// entry page, so deep links such as /login load the application, which then
// routes on the client.
package devserver

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultIndex is the entry page served for deep links.
const DefaultIndex = "index.html"

// Handler serves files from dir and falls back to index for everything else.
type Handler struct {
	dir    string
	index  string
	files  http.Handler
	logger *log.Logger
}

// New returns a Handler for dir.  An empty index means DefaultIndex.
// logger may be nil.
func New(dir, index string, logger *log.Logger) *Handler {
	if index == "" {
		index = DefaultIndex
	}
	return &Handler{
		dir:    dir,
		index:  index,
		files:  http.FileServer(http.Dir(dir)),
		logger: logger,
	}
}

// ServeHTTP implements [http.Handler].
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := path.Clean("/" + req.URL.Path)
	if p != "/" && h.isFile(p) {
		h.files.ServeHTTP(w, req)
		return
	}

	// a missing asset is a real 404, not a route
	if path.Ext(p) != "" && !strings.HasSuffix(p, ".html") {
		if h.logger != nil {
			h.logger.Warn("missing asset", "path", p)
		}
		http.NotFound(w, req)
		return
	}

	if h.logger != nil {
		h.logger.Debug("serving entry page", "path", p)
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, req, filepath.Join(h.dir, h.index))
}

func (h *Handler) isFile(p string) bool {
	fi, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(p)))
	return err == nil && !fi.IsDir()
}
