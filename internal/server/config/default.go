package config

import "time"

// Default configuration values.
const (
	DefaultAddr            = "0.0.0.0:4443"
	DefaultRoot            = "."
	DefaultShutdownTimeout = 5 * time.Second

	DefaultBundleFile = "server.pem"
	DefaultGenerator  = "openssl"
	DefaultToolPath   = "openssl"
	DefaultCommonName = "localhost"
	DefaultValidDays  = 365
	DefaultKeyBits    = 2048
	DefaultMinVersion = "1.0"

	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	DefaultResolveTimeout = 2 * time.Second
	DefaultPlaceholder    = "<your-ip>"

	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:            DefaultAddr,
			Root:            DefaultRoot,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		TLS: TLSSection{
			BundleFile: DefaultBundleFile,
			Generator:  DefaultGenerator,
			ToolPath:   DefaultToolPath,
			CommonName: DefaultCommonName,
			ValidDays:  DefaultValidDays,
			KeyBits:    DefaultKeyBits,
			MinVersion: DefaultMinVersion,
		},
		HTTP: HTTPSection{
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			IdleTimeout:       DefaultIdleTimeout,
		},
		Diagnostics: DiagnosticsSection{
			ResolveTimeout: DefaultResolveTimeout,
			Placeholder:    DefaultPlaceholder,
		},
		Metrics: MetricsSection{
			Path: DefaultMetricsPath,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
