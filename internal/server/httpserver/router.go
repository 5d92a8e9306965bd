package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/devhttps-go/internal/certgen"
	"github.com/yndnr/devhttps-go/internal/telemetry/metric"
)

// HandlerConfig configures the static file handler.
type HandlerConfig struct {
	// Root is the directory served to clients.
	Root string

	// Logger receives access log and panic lines.
	Logger *slog.Logger

	// Metrics enables request instrumentation when non-nil.
	Metrics *metric.Registry

	// RateLimit is the per-client request rate; zero disables it.
	RateLimit float64

	// NoCache disables browser caching of served files. Off by default so
	// conditional GETs get the file server's 304s.
	NoCache bool

	// Hidden lists files under Root that are never served, such as the
	// certificate bundle with its private key. Names starting with the
	// certificate scratch prefix are always hidden.
	Hidden []string
}

// NewHandler builds the static file handler with its middleware chain.
func NewHandler(cfg HandlerConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	middlewares := []Middleware{
		Recover(log),
		RequestID(),
		AccessLog(log),
	}
	if cfg.Metrics != nil {
		// Outside RateLimit so rejected requests are counted too.
		middlewares = append(middlewares, Metrics(cfg.Metrics))
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit))
	}
	middlewares = append(middlewares, HideFiles(cfg.Root, cfg.Hidden, certgen.ScratchPrefix))
	if cfg.NoCache {
		middlewares = append(middlewares, NoCache())
	}

	return Chain(http.FileServer(http.Dir(cfg.Root)), middlewares...)
}

// NewMetricsHandler serves the registry at path, optionally guarded by a
// bearer token. Every other path is 404.
func NewMetricsHandler(path string, reg *metric.Registry, token string, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+path, Chain(reg.Handler(), BearerToken(token)))

	return Chain(mux, Recover(log))
}
