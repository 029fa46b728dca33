package vgnav

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed routes.example.toml
var exampleRoutes []byte

// RouteConfig is a route table as written in a TOML file.
type RouteConfig struct {
	NotFound ViewID       `toml:"not_found"`
	Routes   []RouteEntry `toml:"route"`
}

// LoadRoutes reads and parses a TOML route file from the specified path.
func LoadRoutes(path string) (*RouteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route file: %w", err)
	}
	return ParseRoutes(data)
}

// ParseRoutes parses TOML route data.  Unknown keys are an error so that
// a misspelled "redirect" does not silently turn into a route with no view.
func ParseRoutes(data []byte) (*RouteConfig, error) {
	var c RouteConfig
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse routes: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in routes: %s", strings.Join(keys, ", "))
	}
	return &c, nil
}

// DefaultRoutes returns the route config embedded in the package:
// "/home" and "/login", with "/" redirecting to "/home".
func DefaultRoutes() *RouteConfig {
	c, err := ParseRoutes(exampleRoutes)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded routes: %v", err))
	}
	return c
}

// ExampleRoutes returns the raw embedded route file, for writing out as a starting point.
func ExampleRoutes() []byte {
	return append([]byte(nil), exampleRoutes...)
}

// Table builds the RouteTable.  Errors are *ConfigError.
func (c *RouteConfig) Table() (*RouteTable, error) {
	return NewRouteTable(c.Routes...)
}

// NewRouter builds the table and a Router over h using it, with the
// configured not-found view.  opts are applied after the config's own.
func (c *RouteConfig) NewRouter(h History, opts ...RouterOpt) (*Router, error) {
	t, err := c.Table()
	if err != nil {
		return nil, err
	}
	return New(t, h, append([]RouterOpt{WithNotFound(c.NotFound)}, opts...)...)
}
