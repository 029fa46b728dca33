package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/vugu/vgnav"
	"github.com/vugu/vgnav/devserver"
	"github.com/vugu/vgnav/rgen"
)

func routesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "routes",
		Aliases: []string{"r"},
		Usage:   "Path to the TOML route file",
		Value:   rgen.DefaultRoutesFile,
	}
}

func commands(logger *log.Logger) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "init",
			Usage:  "Write an example route file",
			Flags:  []cli.Flag{routesFlag()},
			Action: initAction,
		},
		{
			Name:      "check",
			Usage:     "Validate a route file and resolve paths against it",
			ArgsUsage: "[path...]",
			Flags:     []cli.Flag{routesFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return checkAction(ctx, cmd.String("routes"), cmd.Args().Slice(), os.Stdout, logger)
			},
		},
		{
			Name:      "gen",
			Usage:     "Generate a Go route table from a route file",
			ArgsUsage: "[dir]",
			Flags: []cli.Flag{
				routesFlag(),
				&cli.StringFlag{
					Name:    "package",
					Aliases: []string{"p"},
					Usage:   "Package name for the generated file, detected if unspecified",
				},
				&cli.StringFlag{
					Name:  "out",
					Usage: "Output file name",
					Value: rgen.DefaultOutFile,
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				dir := cmd.Args().First()
				if dir == "" {
					dir = "." // default to current dir
				}
				g := rgen.New().
					SetDir(dir).
					SetRoutesFile(cmd.String("routes")).
					SetPackageName(cmd.String("package")).
					SetOutFile(cmd.String("out"))
				if err := g.Generate(); err != nil {
					return err
				}
				logger.Info("generated routes", "file", g.OutPath())
				return nil
			},
		},
		{
			Name:  "serve",
			Usage: "Serve a built application with clean-URL fallback",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Directory to serve", Value: "."},
				&cli.StringFlag{Name: "addr", Usage: "Listen address", Value: "127.0.0.1:8844"},
				&cli.StringFlag{Name: "index", Usage: "Entry page served for deep links", Value: devserver.DefaultIndex},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				srv := &http.Server{
					Addr:    cmd.String("addr"),
					Handler: devserver.New(cmd.String("dir"), cmd.String("index"), logger),
				}
				go func() {
					<-ctx.Done()
					_ = srv.Close()
				}()
				logger.Info("serving", "dir", cmd.String("dir"), "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			},
		},
	}
}

func initAction(ctx context.Context, cmd *cli.Command) error {
	p := cmd.String("routes")
	if _, err := os.Stat(p); err == nil {
		return fmt.Errorf("route file already exists at %s", p)
	}
	if err := os.WriteFile(p, vgnav.ExampleRoutes(), 0644); err != nil {
		return fmt.Errorf("failed to write route file: %w", err)
	}
	return nil
}

// checkAction loads the routes and runs each path through a Router over an
// in-memory history, printing what it resolves to.
func checkAction(ctx context.Context, routesPath string, paths []string, w io.Writer, logger *log.Logger) error {

	rc, err := vgnav.LoadRoutes(routesPath)
	if err != nil {
		return err
	}

	r, err := rc.NewRouter(vgnav.NewMemoryHistory("/"), vgnav.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d routes ok\n", routesPath, len(rc.Routes))

	for _, p := range paths {
		if err := r.NavigateContext(ctx, p); err != nil {
			return err
		}
		st := r.State()
		switch {
		case st.NotFound:
			fmt.Fprintf(w, "%s -> %q (not found)\n", p, st.View)
		case st.Path != p:
			fmt.Fprintf(w, "%s -> %s -> %q\n", p, st.Path, st.View)
		default:
			fmt.Fprintf(w, "%s -> %q\n", p, st.View)
		}
	}

	return nil
}
