// Package main provides the entry point for devhttps.
//
// devhttps serves a directory over HTTPS so that phones and other devices
// on the local network can reach browser features that only work in a
// secure context, such as voice input. Every start generates a fresh
// self-signed certificate.
//
// Usage:
//
//	devhttps                          serve . on https://0.0.0.0:4443
//	devhttps --root ./public serve
//	devhttps --generator native cert
//	devhttps probe localhost:4443
//	devhttps config show
//
// Configuration is read from --config, DEVHTTPS_* environment variables
// and flags, in increasing priority.
package main
