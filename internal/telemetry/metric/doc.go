// Package metric provides Prometheus metrics for devhttps.
//
//   - prometheus.go: registry, request metrics and HTTP handler
//   - collector.go: certificate collector evaluated at scrape time
//
// Metrics are only exposed when metrics.addr is configured, on a listener
// separate from the static file server.
package metric
