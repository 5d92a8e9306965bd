package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/devhttps-go/internal/cli/output"
	"github.com/yndnr/devhttps-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			format, err := output.ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			return render(c, format, versionReport{buildinfo.Get()})
		},
	}
}

type versionReport struct {
	buildinfo.Info `yaml:",inline"`
}

func (v versionReport) Table() *output.Table {
	return output.KeyValue(
		"Version", v.Version,
		"Commit", v.Commit,
		"Built", v.BuildTime,
		"Go", v.GoVersion,
	)
}
