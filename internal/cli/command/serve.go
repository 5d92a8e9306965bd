package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/devhttps-go/internal/infra/buildinfo"
	"github.com/yndnr/devhttps-go/internal/infra/shutdown"
	"github.com/yndnr/devhttps-go/internal/server/launcher"
)

// ServeCommand returns the serve command.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Generate a certificate and serve the root directory over HTTPS (default)",
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	flags, cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	log.Info("starting devhttps",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", flags.ConfigFile,
	)

	l, err := launcher.New(launcher.Options{
		Config:     cfg,
		ConfigFile: flags.ConfigFile,
		Logger:     log,
		Stdout:     c.App.Writer,
	})
	if err != nil {
		return err
	}

	ctx, stop := shutdown.NotifyContext(c.Context)
	defer stop()

	return l.Run(ctx)
}
