// Package config provides the devhttps server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (address format, root directory, TLS settings)
//   - sanitize.go: Log sanitization (hide sensitive values)
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// DEVHTTPS_* environment variables and command-line flags. With no sources
// at all, Default reproduces the fixed behaviour: HTTPS on 0.0.0.0:4443
// serving the working directory with a fresh server.pem.
package config
