package command

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devhttps-go/internal/cli/output"
	"github.com/yndnr/devhttps-go/internal/infra/buildinfo"
	"github.com/yndnr/devhttps-go/internal/infra/confloader"
	"github.com/yndnr/devhttps-go/internal/server/config"
	"github.com/yndnr/devhttps-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "devhttps",
		Usage:   "Serve a directory over HTTPS with a throwaway self-signed certificate",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ServeCommand(),
			CertCommand(),
			ProbeCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Action: serveAction,
	}
}

// globalFlags returns the global CLI flags. Flags only override the
// configuration when set explicitly.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
			EnvVars: []string{"DEVHTTPS_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address (default 0.0.0.0:4443)",
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Directory to serve (default .)",
		},
		&cli.StringFlag{
			Name:  "bundle",
			Usage: "Certificate bundle file to (re)generate (default server.pem)",
		},
		&cli.StringFlag{
			Name:  "generator",
			Usage: "Certificate generator: openssl, native",
		},
		&cli.StringFlag{
			Name:  "tool",
			Usage: "Path to the openssl binary",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			Value:   "text",
		},
	}
}

// flagKeys maps global flags onto configuration keys.
var flagKeys = map[string]string{
	"addr":       "server.addr",
	"root":       "server.root",
	"bundle":     "tls.bundle_file",
	"generator":  "tls.generator",
	"tool":       "tls.tool_path",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	ConfigFile string
	Output     output.Format

	// Overrides holds explicitly set flags keyed by configuration key.
	Overrides map[string]any
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}

	flags := &GlobalFlags{
		ConfigFile: c.String("config"),
		Output:     format,
		Overrides:  make(map[string]any),
	}
	for name, key := range flagKeys {
		if c.IsSet(name) {
			flags.Overrides[key] = c.String(name)
		}
	}
	return flags, nil
}

// loadConfig builds the effective configuration: defaults, then the
// config file, then DEVHTTPS_* environment variables, then flags.
func loadConfig(flags *GlobalFlags) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithFlags(flags.Overrides)}
	if flags.ConfigFile != "" {
		opts = append(opts, confloader.WithConfigFile(flags.ConfigFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger installs the process logger. Logs go to the app's error
// writer so console notices on stdout stay clean.
func initLogger(c *cli.Context, cfg *config.ServerConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	logger.SetDefault(log)
	return log, nil
}

// setup parses flags, loads configuration and installs the logger.
func setup(c *cli.Context) (*GlobalFlags, *config.ServerConfig, *slog.Logger, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := initLogger(c, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return flags, cfg, log, nil
}

// render writes data to the app's writer in the selected format.
func render(c *cli.Context, format output.Format, data any) error {
	return output.NewFormatter(format).Format(c.App.Writer, data)
}
