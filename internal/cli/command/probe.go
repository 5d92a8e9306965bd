package command

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devhttps-go/internal/cli/connection"
	"github.com/yndnr/devhttps-go/internal/infra/tlsroots"
)

// ProbeCommand returns the probe command.
func ProbeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Check a running server's TLS setup, trusting the local bundle",
		ArgsUsage: "[ADDR]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ca",
				Usage: "PEM file to trust (default: the configured bundle)",
			},
			&cli.StringFlag{
				Name:  "server-name",
				Usage: "Name to verify the certificate against (default: tls.common_name)",
			},
			&cli.BoolFlag{
				Name:  "system-roots",
				Usage: "Also trust the system root CAs; the bundle is then only trusted via --ca",
			},
			&cli.BoolFlag{
				Name:    "insecure",
				Aliases: []string{"k"},
				Usage:   "Skip certificate verification",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "Also GET this path and report the status",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall probe timeout",
				Value: 5 * time.Second,
			},
		},
		Action: probeAction,
	}
}

func probeAction(c *cli.Context) error {
	flags, cfg, _, err := setup(c)
	if err != nil {
		return err
	}

	addr := c.Args().First()
	if addr == "" {
		addr = dialAddr(cfg.Server.Addr)
	}

	serverName := c.String("server-name")
	if serverName == "" {
		serverName = cfg.TLS.CommonName
	}

	pool := tlsroots.NewEmptyPool()
	if c.Bool("system-roots") {
		pool = tlsroots.NewPool()
	}
	if ca := trustAnchor(c, cfg.TLS.BundleFile); ca != "" {
		if err := pool.AddCertFile(ca); err != nil {
			return fmt.Errorf("load trust anchor: %w", err)
		}
	}

	tlsConfig := pool.ClientTLSConfig(serverName)
	tlsConfig.NextProtos = []string{"h2", "http/1.1"}
	tlsConfig.InsecureSkipVerify = c.Bool("insecure")

	ctx, cancel := contextWithTimeout(c, c.Duration("timeout"))
	defer cancel()

	res, err := connection.Handshake(ctx, addr, tlsConfig)
	if err != nil {
		return err
	}

	if path := c.String("path"); path != "" {
		client := connection.NewHTTPClient(addr, tlsConfig)
		status, proto, err := client.Status(ctx, path)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}
		res.HTTPStatus = status
		res.HTTPProto = proto
	}

	return render(c, flags.Output, res)
}

// dialAddr turns a listen address into one a local client can dial.
func dialAddr(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

func contextWithTimeout(c *cli.Context, d time.Duration) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d)
}

// trustAnchor returns the PEM file to trust, or "" when none is needed.
func trustAnchor(c *cli.Context, bundle string) string {
	if c.Bool("insecure") {
		return ""
	}
	if ca := c.String("ca"); ca != "" {
		return ca
	}
	if c.Bool("system-roots") {
		return ""
	}
	return bundle
}
