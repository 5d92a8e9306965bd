package config

import "time"

// ServerConfig is the root configuration for devhttps.
type ServerConfig struct {
	Server      ServerSection      `koanf:"server"`
	TLS         TLSSection         `koanf:"tls"`
	HTTP        HTTPSection        `koanf:"http"`
	Diagnostics DiagnosticsSection `koanf:"diagnostics"`
	Metrics     MetricsSection     `koanf:"metrics"`
	Log         LogSection         `koanf:"log"`
}

// ServerSection configures the listener and the served tree.
type ServerSection struct {
	// Addr is the TCP bind address.
	Addr string `koanf:"addr"`

	// Root is the directory served to clients.
	Root string `koanf:"root"`

	// ShutdownTimeout bounds how long in-flight requests may take to
	// finish after an interrupt.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// TLSSection configures certificate provisioning and the TLS context.
type TLSSection struct {
	// BundleFile is the combined certificate and key PEM file. It is
	// regenerated on every start.
	BundleFile string `koanf:"bundle_file"`

	// Generator selects the provisioner: "openssl" or "native".
	Generator string `koanf:"generator"`

	// ToolPath is the openssl command name or path.
	ToolPath string `koanf:"tool_path"`

	CommonName string `koanf:"common_name"`
	ValidDays  int    `koanf:"valid_days"`
	KeyBits    int    `koanf:"key_bits"`

	// MinVersion is the lowest accepted protocol version ("1.0" to "1.3").
	MinVersion string `koanf:"min_version"`
}

// HTTPSection configures request handling.
type HTTPSection struct {
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`

	// RateLimit is the per-client request rate in requests per second.
	// Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// NoCache adds headers that stop browsers caching served files. It also
	// drops conditional request headers, so no 304s are sent while it is on.
	NoCache bool `koanf:"no_cache"`
}

// DiagnosticsSection configures the startup access banner.
type DiagnosticsSection struct {
	// ResolveTimeout bounds host address resolution.
	ResolveTimeout time.Duration `koanf:"resolve_timeout"`

	// Placeholder is printed when no address can be determined.
	Placeholder string `koanf:"placeholder"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr is the plain HTTP bind address. Empty disables the endpoint.
	Addr string `koanf:"addr"`

	// Path is the scrape path.
	Path string `koanf:"path"`

	// Token, when set, is required as a bearer token on scrapes.
	Token string `koanf:"token"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Map returns the configuration as nested maps keyed like the config file.
// Durations are rendered as strings.
func (c *ServerConfig) Map() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"addr":             c.Server.Addr,
			"root":             c.Server.Root,
			"shutdown_timeout": c.Server.ShutdownTimeout.String(),
		},
		"tls": map[string]any{
			"bundle_file": c.TLS.BundleFile,
			"generator":   c.TLS.Generator,
			"tool_path":   c.TLS.ToolPath,
			"common_name": c.TLS.CommonName,
			"valid_days":  c.TLS.ValidDays,
			"key_bits":    c.TLS.KeyBits,
			"min_version": c.TLS.MinVersion,
		},
		"http": map[string]any{
			"read_header_timeout": c.HTTP.ReadHeaderTimeout.String(),
			"idle_timeout":        c.HTTP.IdleTimeout.String(),
			"rate_limit":          c.HTTP.RateLimit,
			"no_cache":            c.HTTP.NoCache,
		},
		"diagnostics": map[string]any{
			"resolve_timeout": c.Diagnostics.ResolveTimeout.String(),
			"placeholder":     c.Diagnostics.Placeholder,
		},
		"metrics": map[string]any{
			"addr":  c.Metrics.Addr,
			"path":  c.Metrics.Path,
			"token": c.Metrics.Token,
		},
		"log": map[string]any{
			"level":  c.Log.Level,
			"format": c.Log.Format,
		},
	}
}
