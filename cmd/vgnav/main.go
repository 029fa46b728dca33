package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/vugu/vgnav"
)

func main() {
	logger := vgnav.NewLogger(os.Stderr)

	app := &cli.Command{
		Name:  "vgnav",
		Usage: "Check, generate and serve client-side route tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			lvl, err := log.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return ctx, err
			}
			logger.SetLevel(lvl)
			return ctx, nil
		},
		Commands: commands(logger),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("vgnav failed", "err", err)
	}
}
