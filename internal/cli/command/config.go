package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/devhttps-go/internal/cli/output"
	"github.com/yndnr/devhttps-go/internal/server/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration after file, environment and flags",
				Action: configShow,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	format := flags.Output
	if format == output.FormatText {
		format = output.FormatYAML
	}
	return render(c, format, config.Sanitize(cfg).Map())
}
