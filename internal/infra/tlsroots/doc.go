// Package tlsroots provides TLS configuration for devhttps.
//
//   - server.go: server-side config for the self-signed bundle
//   - roots.go: trust pools for clients that talk to the dev server
//
// The server authenticates itself only; client certificates are never
// requested.
package tlsroots
