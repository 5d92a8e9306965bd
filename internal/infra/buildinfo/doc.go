// Package buildinfo provides build information for devhttps.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/devhttps-go/internal/infra/buildinfo.Version=v1.0.0"
//
// GoVersion falls back to the toolchain recorded in the binary.
package buildinfo
