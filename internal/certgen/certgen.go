package certgen

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Generator names accepted by New.
const (
	GeneratorOpenSSL = "openssl"
	GeneratorNative  = "native"
)

// Defaults for a development certificate.
const (
	DefaultCommonName = "localhost"
	DefaultValidDays  = 365
	DefaultKeyBits    = 2048
	DefaultTool       = "openssl"
)

// ScratchPrefix starts the name of every temporary file or directory
// created next to the bundle.
const ScratchPrefix = ".devhttps-"

var (
	// ErrToolNotFound is returned when the external tool cannot be executed.
	ErrToolNotFound = errors.New("certgen: certificate tool not found")

	// ErrInvalidBundle is returned when the produced bundle does not hold a
	// usable certificate and key pair.
	ErrInvalidBundle = errors.New("certgen: invalid certificate bundle")

	// ErrUnknownGenerator is returned by New for an unsupported generator name.
	ErrUnknownGenerator = errors.New("certgen: unknown generator")
)

// ToolError reports an external tool that ran and exited non-zero.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("certgen: %s exited with status %d", e.Tool, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Options describes the certificate to produce.
type Options struct {
	// Path is where the bundle is written.
	Path string
	// CommonName is the subject CN.
	CommonName string
	// ValidDays is the validity period in days.
	ValidDays int
	// KeyBits is the RSA key size.
	KeyBits int
}

func (o Options) withDefaults() Options {
	if o.CommonName == "" {
		o.CommonName = DefaultCommonName
	}
	if o.ValidDays <= 0 {
		o.ValidDays = DefaultValidDays
	}
	if o.KeyBits <= 0 {
		o.KeyBits = DefaultKeyBits
	}
	return o
}

// Result describes a provisioned bundle.
type Result struct {
	Path        string
	Generator   string
	Certificate tls.Certificate
	NotAfter    time.Time
	Duration    time.Duration
}

// Leaf returns the parsed certificate.
func (r *Result) Leaf() *x509.Certificate {
	return r.Certificate.Leaf
}

// Provisioner produces a certificate bundle.
type Provisioner interface {
	Provision(ctx context.Context) (*Result, error)
}

// New returns the provisioner for generator. tool is only used by the
// openssl generator.
func New(generator, tool string, opts Options, logger *slog.Logger) (Provisioner, error) {
	switch generator {
	case GeneratorOpenSSL, "":
		return NewOpenSSL(tool, opts, logger), nil
	case GeneratorNative:
		return NewNative(opts, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, generator)
}

// LoadBundle reads a combined certificate and key PEM file.
func LoadBundle(path string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("certgen: read bundle %s: %w", path, err)
	}
	return parseBundle(data)
}

func parseBundle(data []byte) (tls.Certificate, error) {
	// X509KeyPair skips blocks of the wrong type on each side, so the same
	// bytes serve as both the certificate and the key input.
	cert, err := tls.X509KeyPair(data, data)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if cert.Leaf == nil {
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
		}
		cert.Leaf = leaf
	}
	return cert, nil
}

// writeBundle atomically replaces path with the certificate followed by
// the key, readable by the owner only.
func writeBundle(path string, certPEM, keyPEM []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ScratchPrefix+"bundle-*")
	if err != nil {
		return fmt.Errorf("certgen: create temp bundle: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("certgen: chmod bundle: %w", err)
	}
	for _, block := range [][]byte{certPEM, keyPEM} {
		if _, err := tmp.Write(block); err != nil {
			tmp.Close()
			return fmt.Errorf("certgen: write bundle: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("certgen: close bundle: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("certgen: install bundle %s: %w", path, err)
	}
	return nil
}
