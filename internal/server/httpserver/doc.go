// Package httpserver provides the HTTPS static file server for devhttps.
//
// The listener is a plain TCP socket wrapped with tls.NewListener, so every
// connection negotiates TLS before any HTTP is read. Requests flow through
// a fixed middleware chain into http.FileServer:
//
//	Recover -> RequestID -> AccessLog -> Metrics -> RateLimit -> HideFiles -> NoCache -> FileServer
//
// Metrics, RateLimit and NoCache are optional. HideFiles always runs and
// keeps the certificate bundle and generator scratch files out of reach.
// There is no routing: every path maps onto the served directory.
//
// The same Server type also runs the optional plain-HTTP metrics endpoint
// when constructed without a TLS config.
package httpserver
