// Package logger builds the structured logger used across devhttps.
//
// Loggers are plain *slog.Logger values sharing one dynamic level, so a
// config file change can raise or lower verbosity at runtime. The handler
// adds the request ID carried by a record's context and masks private key
// material and secret-looking attributes.
//
// Console status lines (access URLs, shutdown notice) are not logs and are
// written directly to stdout by the launcher. Everything else goes through
// this package, to stderr by default.
package logger
