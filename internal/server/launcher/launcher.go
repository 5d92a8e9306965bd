package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/yndnr/devhttps-go/internal/certgen"
	"github.com/yndnr/devhttps-go/internal/infra/confloader"
	"github.com/yndnr/devhttps-go/internal/infra/shutdown"
	"github.com/yndnr/devhttps-go/internal/infra/tlsroots"
	"github.com/yndnr/devhttps-go/internal/server/config"
	"github.com/yndnr/devhttps-go/internal/server/diagnostics"
	"github.com/yndnr/devhttps-go/internal/server/httpserver"
	"github.com/yndnr/devhttps-go/internal/telemetry/logger"
	"github.com/yndnr/devhttps-go/internal/telemetry/metric"
)

// Options configures a Launcher.
type Options struct {
	// Config is the verified server configuration.
	Config *config.ServerConfig

	// ConfigFile, when set, is watched and log.level changes are applied
	// while running.
	ConfigFile string

	// Logger receives structured logs. Defaults to slog.Default.
	Logger *slog.Logger

	// Stdout receives the plain console notices. Defaults to os.Stdout.
	Stdout io.Writer

	// Provisioner overrides the one built from Config.TLS.
	Provisioner certgen.Provisioner

	// Prober overrides the default address prober.
	Prober *diagnostics.Prober
}

// Launcher runs one server lifetime.
type Launcher struct {
	cfg        *config.ServerConfig
	configFile string
	logger     *slog.Logger
	stdout     io.Writer
	prov       certgen.Provisioner
	prober     *diagnostics.Prober

	ready     chan struct{}
	readyOnce sync.Once

	mu   sync.Mutex
	addr net.Addr
}

// New creates a Launcher.
func New(opts Options) (*Launcher, error) {
	if opts.Config == nil {
		return nil, errors.New("launcher: config is required")
	}
	cfg := opts.Config

	l := &Launcher{
		cfg:        cfg,
		configFile: opts.ConfigFile,
		logger:     opts.Logger,
		stdout:     opts.Stdout,
		prov:       opts.Provisioner,
		prober:     opts.Prober,
		ready:      make(chan struct{}),
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}

	if l.prov == nil {
		prov, err := certgen.New(cfg.TLS.Generator, cfg.TLS.ToolPath, certgen.Options{
			Path:       cfg.TLS.BundleFile,
			CommonName: cfg.TLS.CommonName,
			ValidDays:  cfg.TLS.ValidDays,
			KeyBits:    cfg.TLS.KeyBits,
		}, l.logger)
		if err != nil {
			return nil, err
		}
		l.prov = prov
	}

	if l.prober == nil {
		l.prober = &diagnostics.Prober{
			Timeout:     cfg.Diagnostics.ResolveTimeout,
			Placeholder: cfg.Diagnostics.Placeholder,
			Logger:      l.logger,
		}
	}

	return l, nil
}

// Ready is closed once the listener is bound.
func (l *Launcher) Ready() <-chan struct{} {
	return l.ready
}

// Addr returns the bound listener address, or nil before Ready.
func (l *Launcher) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}

// Run provisions, binds and serves until ctx is cancelled. It returns nil
// after a clean shutdown.
func (l *Launcher) Run(ctx context.Context) error {
	cfg := l.cfg

	fmt.Fprintln(l.stdout, "Creating temporary SSL certificate...")
	res, err := l.prov.Provision(ctx)
	if err != nil {
		return fmt.Errorf("provision certificate: %w", err)
	}
	l.logger.Info("certificate provisioned",
		"path", res.Path,
		"generator", res.Generator,
		"not_after", res.NotAfter,
		"duration_ms", res.Duration.Milliseconds(),
	)

	cert, err := certgen.LoadBundle(res.Path)
	if err != nil {
		return &StageError{Stage: StageTLS, Err: err}
	}
	minVersion, err := tlsroots.ParseVersion(cfg.TLS.MinVersion)
	if err != nil {
		return &StageError{Stage: StageTLS, Err: err}
	}

	var registry *metric.Registry
	if cfg.Metrics.Addr != "" {
		registry = metric.NewRegistry()
		certs := metric.NewCertCollector()
		certs.Set(cert.Leaf, res.Generator)
		registry.MustRegister(certs)
	}

	srv := httpserver.New(httpserver.Config{
		Addr:              cfg.Server.Addr,
		TLSConfig:         tlsroots.ServerTLSConfig(cert, minVersion),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		Logger:            l.logger,
	}, httpserver.NewHandler(httpserver.HandlerConfig{
		Root:      cfg.Server.Root,
		Logger:    l.logger,
		Metrics:   registry,
		RateLimit: cfg.HTTP.RateLimit,
		NoCache:   cfg.HTTP.NoCache,
		Hidden:    []string{cfg.TLS.BundleFile},
	}))
	if err := srv.Listen(ctx); err != nil {
		return &StageError{Stage: StageListen, Err: err}
	}

	handler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, shutdown.WithSignals())
	handler.OnShutdown(func(ctx context.Context) error {
		l.logger.Info("shutting down HTTPS server")
		return srv.Shutdown(ctx)
	})

	var metricsSrv *httpserver.Server
	if registry != nil {
		metricsSrv = httpserver.New(httpserver.Config{
			Addr:              cfg.Metrics.Addr,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			Logger:            l.logger,
		}, httpserver.NewMetricsHandler(cfg.Metrics.Path, registry, cfg.Metrics.Token, l.logger))
		if err := metricsSrv.Listen(ctx); err != nil {
			if serr := srv.Shutdown(context.Background()); serr != nil {
				l.logger.Warn("shutdown after metrics listen failure", "error", serr)
			}
			return &StageError{Stage: StageMetrics, Err: err}
		}
		handler.OnShutdown(func(ctx context.Context) error {
			l.logger.Info("shutting down metrics server")
			return metricsSrv.Shutdown(ctx)
		})
		l.logger.Info("metrics listening", "addr", metricsSrv.Addr().String(), "path", cfg.Metrics.Path)
	}

	if l.configFile != "" {
		if stop := l.watchLogLevel(); stop != nil {
			handler.OnShutdown(func(context.Context) error { return stop() })
		}
	}

	// The banner is complete before anything is served or reported ready.
	info := l.prober.Resolve(ctx)
	port := 0
	if tcp, ok := srv.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	if err := diagnostics.PrintBanner(l.stdout, info, port); err != nil {
		l.logger.Warn("print banner failed", "error", err)
	}

	l.mu.Lock()
	l.addr = srv.Addr()
	l.mu.Unlock()
	l.readyOnce.Do(func() { close(l.ready) })

	l.logger.Info("HTTPS server listening",
		"addr", l.addr.String(),
		"root", cfg.Server.Root,
	)

	serveErr := make(chan error, 2)
	go func() { serveErr <- srv.Serve() }()
	if metricsSrv != nil {
		go func() { serveErr <- metricsSrv.Serve() }()
	}

	// A server that stops on its own ends the run early.
	failed := make(chan error, 1)
	go func() {
		if err := <-serveErr; err != nil {
			failed <- err
			handler.Trigger()
		}
	}()

	if err := handler.Wait(ctx); err != nil {
		l.logger.Error("shutdown error", "error", err)
	}
	fmt.Fprintln(l.stdout, "\nServer stopped.")

	select {
	case err := <-failed:
		return err
	default:
		return nil
	}
}

// watchLogLevel applies log.level from the config file whenever it
// changes. It returns the stop function, or nil if watching failed.
func (l *Launcher) watchLogLevel() func() error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(l.logger))
	if err != nil {
		l.logger.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(l.configFile); err != nil {
		l.logger.Warn("config watcher unavailable", "path", l.configFile, "error", err)
		w.Stop()
		return nil
	}

	w.OnChange(func(path string) {
		loader := confloader.NewLoader()
		if err := loader.LoadFile(path); err != nil {
			l.logger.Warn("config reload failed", "path", path, "error", err)
			return
		}
		level := loader.GetString("log.level")
		if level == "" || level == logger.GetLevel() {
			return
		}
		if !logger.ValidLevel(level) {
			l.logger.Warn("ignoring invalid log level", "level", level)
			return
		}
		logger.SetLevel(level)
		l.logger.Info("log level changed", "level", level)
	})
	w.StartAsync()

	return w.Stop
}
