// Package command provides the devhttps command-line interface.
//
// This package defines all commands using urfave/cli/v2:
//
//   - root.go: App, global flags, config and logger setup
//   - serve.go: serve (also the default action)
//   - cert.go: provision the certificate bundle only
//   - probe.go: TLS handshake against a running server
//   - config.go: show the effective configuration
//   - version.go: build information
//
// Running devhttps with no arguments serves the working directory on
// 0.0.0.0:4443 with a freshly generated server.pem.
package command
