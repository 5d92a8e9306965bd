// Package connection talks to a running devhttps server from the CLI.
//
//   - http.go: HTTPS client for fetching a path through the TLS listener
//   - tls.go: raw handshake probe reporting the negotiated parameters
//
// Both trust the locally provisioned bundle instead of the system roots.
package connection
