// Package launcher wires the devhttps startup sequence together:
// provision the certificate, load it, bind the TLS listener, print the
// access banner, serve until the context is cancelled, then shut down.
//
// Every step before serving is fatal on failure and nothing is retried.
// A failed provisioning step returns before any socket is bound.
package launcher
