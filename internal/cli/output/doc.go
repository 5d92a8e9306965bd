// Package output provides output formatting for the devhttps CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned text rendering for Tabler values
//   - encode.go: JSON and YAML encoders
//   - spinner.go: progress animation for certificate generation
//
// Text is the default. JSON and YAML are meant for scripts.
package output
