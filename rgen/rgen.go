// Package rgen generates Go source holding a route table from a TOML route file,
// so an application can compile its routes in rather than read them at startup.
package rgen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/vugu/vgnav"
)

// DefaultRoutesFile is the route file name looked for when none is set.
const DefaultRoutesFile = "routes.toml"

// DefaultOutFile is the name of the generated file.
const DefaultOutFile = "0_routes_vgen.go"

// New returns a new Generator instance.
func New() *Generator {
	return &Generator{}
}

// Generator performs route generation on a given directory.
type Generator struct {
	dir         string // directory to generate in
	packageName string // package clause for the output, detected if empty
	routesFile  string // route file, relative to dir unless absolute
	outFile     string // output file name within dir
}

// SetDir assigns the directory to generate in.
func (g *Generator) SetDir(dir string) *Generator {
	g.dir = dir
	return g
}

// SetPackageName sets the package name written to the generated file.
// If not set, it is taken from the other Go files in the directory,
// or from the directory name if there are none.
func (g *Generator) SetPackageName(packageName string) *Generator {
	g.packageName = packageName
	return g
}

// SetRoutesFile sets the TOML route file to read.
// If not set, DefaultRoutesFile in the directory is used.
func (g *Generator) SetRoutesFile(routesFile string) *Generator {
	g.routesFile = routesFile
	return g
}

// SetOutFile sets the output file name.  If not set, DefaultOutFile is used.
func (g *Generator) SetOutFile(outFile string) *Generator {
	g.outFile = outFile
	return g
}

// OutPath returns the full path of the file Generate writes.
func (g *Generator) OutPath() string {
	out := g.outFile
	if out == "" {
		out = DefaultOutFile
	}
	return filepath.Join(g.dir, out)
}

// Generate does the route generation.
func (g *Generator) Generate() error {

	// to keep our sanity we need to guarantee that g.dir is absolute
	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return err
	}
	g.dir = dir

	routesPath := g.routesFile
	if routesPath == "" {
		routesPath = DefaultRoutesFile
	}
	if !filepath.IsAbs(routesPath) {
		routesPath = filepath.Join(g.dir, routesPath)
	}

	rc, err := vgnav.LoadRoutes(routesPath)
	if err != nil {
		return err
	}

	// refuse to generate a table that would panic at startup
	if _, err := rc.Table(); err != nil {
		return fmt.Errorf("routes in %q: %w", routesPath, err)
	}

	if g.packageName == "" {
		g.packageName, err = guessPackageName(g.dir, filepath.Base(g.OutPath()))
		if err != nil {
			return err
		}
	}

	src, err := g.render(rc)
	if err != nil {
		return err
	}

	return os.WriteFile(g.OutPath(), src, 0644)
}

var routesTmpl = template.Must(template.New(DefaultOutFile).Funcs(template.FuncMap{
	"Quote": func(v interface{}) string { return fmt.Sprintf("%q", v) },
}).Parse(`package {{.PackageName}}

// WARNING: This file was generated by vgnav/rgen. Do not modify.

import "github.com/vugu/vgnav"

// vgRouteEntries is the generated route table for this package,
// in the order the routes are matched.
var vgRouteEntries = []vgnav.RouteEntry{
{{range .Routes}}	{Path: {{Quote .Path}}{{if .View}}, View: {{Quote .View}}{{end}}{{if .Redirect}}, Redirect: {{Quote .Redirect}}{{end}}},
{{end}}}

// vgNotFoundView is shown for paths no route matches.
const vgNotFoundView vgnav.ViewID = {{Quote .NotFound}}

// MakeRouteTable returns the generated route table.
func MakeRouteTable() *vgnav.RouteTable {
	return vgnav.MustNewRouteTable(vgRouteEntries...)
}

// MakeRouter returns a Router over h using the generated routes.
func MakeRouter(h vgnav.History, opts ...vgnav.RouterOpt) (*vgnav.Router, error) {
	return vgnav.New(MakeRouteTable(), h, append([]vgnav.RouterOpt{vgnav.WithNotFound(vgNotFoundView)}, opts...)...)
}
`))

func (g *Generator) render(rc *vgnav.RouteConfig) ([]byte, error) {

	var buf bytes.Buffer
	err := routesTmpl.Execute(&buf, map[string]interface{}{
		"PackageName": g.packageName,
		"Routes":      rc.Routes,
		"NotFound":    string(rc.NotFound),
	})
	if err != nil {
		return nil, err
	}

	b, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error formatting generated routes: %w; full output:\n%s", err, buf.Bytes())
	}

	return b, nil
}

// guessPackageName reads the package clause of the first Go file in dir
// (other than skip and tests), falling back to a name derived from dir.
func guessPackageName(dir, skip string) (string, error) {

	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return "", err
	}

	fset := token.NewFileSet()
	for _, m := range matches {
		base := filepath.Base(m)
		if base == skip || strings.HasSuffix(base, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, m, nil, parser.PackageClauseOnly)
		if err != nil {
			return "", fmt.Errorf("reading package clause of %q: %w", m, err)
		}
		return f.Name.Name, nil
	}

	return dirPackageName(filepath.Base(dir)), nil
}

func dirPackageName(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9' && b.Len() > 0) || c == '_' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "routes"
	}
	return b.String()
}
