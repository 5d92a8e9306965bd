package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yndnr/devhttps-go/internal/infra/tlsroots"
	"github.com/yndnr/devhttps-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyTLS(&cfg.TLS); err != nil {
		return err
	}
	if err := verifyHTTP(&cfg.HTTP); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics, cfg.Server.Addr); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.addr", cfg.Addr); err != nil {
		return err
	}

	if cfg.Root == "" {
		return errors.New("server.root is required")
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("server.root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("server.root: %s is not a directory", cfg.Root)
	}

	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	return nil
}

func verifyTLS(cfg *TLSSection) error {
	if cfg.BundleFile == "" {
		return errors.New("tls.bundle_file is required")
	}
	dir := filepath.Dir(cfg.BundleFile)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("tls.bundle_file: directory %s does not exist", dir)
	}

	switch cfg.Generator {
	case "openssl":
		if cfg.ToolPath == "" {
			return errors.New("tls.tool_path is required for the openssl generator")
		}
	case "native":
	default:
		return fmt.Errorf("tls.generator must be openssl or native, got %q", cfg.Generator)
	}

	if cfg.CommonName == "" {
		return errors.New("tls.common_name is required")
	}
	if strings.ContainsAny(cfg.CommonName, "/=") {
		return fmt.Errorf("tls.common_name %q must not contain '/' or '='", cfg.CommonName)
	}
	if cfg.ValidDays < 1 {
		return errors.New("tls.valid_days must be at least 1")
	}
	if cfg.KeyBits < 2048 {
		return errors.New("tls.key_bits must be at least 2048")
	}
	if _, err := tlsroots.ParseVersion(cfg.MinVersion); err != nil {
		return fmt.Errorf("tls.min_version: %w", err)
	}
	return nil
}

func verifyHTTP(cfg *HTTPSection) error {
	if cfg.ReadHeaderTimeout < 0 {
		return errors.New("http.read_header_timeout must not be negative")
	}
	if cfg.IdleTimeout < 0 {
		return errors.New("http.idle_timeout must not be negative")
	}
	if cfg.RateLimit < 0 {
		return errors.New("http.rate_limit must not be negative")
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection, serverAddr string) error {
	if cfg.Addr == "" {
		return nil
	}
	if err := verifyAddr("metrics.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.Addr == serverAddr {
		return errors.New("metrics.addr must differ from server.addr")
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("metrics.path %q must start with '/'", cfg.Path)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Format)
	}
	return nil
}

func verifyAddr(key, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("%s: invalid port %q", key, port)
	}
	return nil
}
