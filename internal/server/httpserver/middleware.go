package httpserver

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/yndnr/devhttps-go/internal/telemetry/logger"
	"github.com/yndnr/devhttps-go/internal/telemetry/metric"
	"github.com/yndnr/devhttps-go/pkg/cmap"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is the
// outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID adds a unique request ID to each request. An incoming
// X-Request-ID header is honoured.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" || len(requestID) > 128 {
				requestID = ulid.Make().String()
			}

			w.Header().Set(HeaderRequestID, requestID)

			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog writes one structured line per request.
func AccessLog(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"bytes", wrapped.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", getClientIP(r),
			}

			ctx := r.Context()
			switch {
			case wrapped.statusCode >= 500:
				log.ErrorContext(ctx, "request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.WarnContext(ctx, "request completed with client error", attrs...)
			default:
				log.InfoContext(ctx, "request completed", attrs...)
			}
		})
	}
}

// Recover recovers from panics and returns a 500 error.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.ErrorContext(r.Context(), "panic recovered",
						"error", err,
						"path", r.URL.Path,
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// limiterIdle is how long an unused per-client limiter is kept.
const limiterIdle = 3 * time.Minute

// RateLimit applies per-client-IP token bucket limiting. Burst is the
// whole-second rate, at least one.
func RateLimit(requestsPerSecond float64) Middleware {
	type client struct {
		limiter  *rate.Limiter
		lastSeen atomic.Int64
	}

	clients := cmap.New[*client]()
	var lastSweep atomic.Int64
	lastSweep.Store(time.Now().UnixNano())

	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	newClient := func() *client {
		return &client{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
	}

	allow := func(ip string) bool {
		now := time.Now()

		// One caller per idle period sweeps forgotten clients.
		last := lastSweep.Load()
		if now.UnixNano()-last > int64(limiterIdle) && lastSweep.CompareAndSwap(last, now.UnixNano()) {
			cutoff := now.Add(-limiterIdle).UnixNano()
			clients.DeleteIf(func(_ string, c *client) bool {
				return c.lastSeen.Load() < cutoff
			})
		}

		c := clients.GetOrCreate(ip, newClient)
		c.lastSeen.Store(now.UnixNano())
		return c.limiter.AllowN(now, 1)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(getClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request count, latency, in-flight requests and response
// size in reg.
func Metrics(reg *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			reg.ResponseBytes.Add(float64(wrapped.bytes))
		})

		return promhttp.InstrumentHandlerInFlight(reg.RequestsActive,
			promhttp.InstrumentHandlerDuration(reg.RequestDuration,
				promhttp.InstrumentHandlerCounter(reg.RequestsTotal, counted),
			),
		)
	}
}

// HideFiles answers 404 for requests that resolve to one of files, or
// whose path has an element starting with prefix. Files are compared with
// os.SameFile, so case folding and links do not get around it.
func HideFiles(root string, files []string, prefix string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clean := path.Clean("/" + r.URL.Path)
			if isHidden(root, clean, files, prefix) {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isHidden(root, urlPath string, files []string, prefix string) bool {
	if prefix != "" {
		for _, elem := range strings.Split(urlPath, "/") {
			if strings.HasPrefix(elem, prefix) {
				return true
			}
		}
	}
	if len(files) == 0 {
		return false
	}
	if root == "" {
		root = "."
	}

	target, err := os.Stat(filepath.Join(root, filepath.FromSlash(urlPath)))
	if err != nil {
		return false
	}
	for _, f := range files {
		if fi, err := os.Stat(f); err == nil && os.SameFile(target, fi) {
			return true
		}
	}
	return false
}

// NoCache stops browsers from caching responses, so edits show up on the
// next reload.
func NoCache() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")

			// Conditional requests would still produce 304s.
			r.Header.Del("If-Modified-Since")
			r.Header.Del("If-None-Match")

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken rejects requests without the given Authorization bearer token.
// An empty token allows everything.
func BearerToken(token string) Middleware {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || !constantTimeEqual(got, token) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="metrics"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and
// body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int64
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// getClientIP extracts the client IP from the request. Forwarding headers
// are ignored: clients connect directly.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
