package connection

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/devhttps-go/internal/cli/output"
)

// HandshakeResult describes a completed TLS handshake.
type HandshakeResult struct {
	Addr        string    `json:"addr" yaml:"addr"`
	Version     string    `json:"version" yaml:"version"`
	CipherSuite string    `json:"cipher_suite" yaml:"cipher_suite"`
	ALPN        string    `json:"alpn,omitempty" yaml:"alpn,omitempty"`
	Subject     string    `json:"subject" yaml:"subject"`
	NotAfter    time.Time `json:"not_after" yaml:"not_after"`
	Fingerprint string    `json:"sha256_fingerprint" yaml:"sha256_fingerprint"`
	Verified    bool      `json:"verified" yaml:"verified"`
	Duration    string    `json:"duration" yaml:"duration"`

	// HTTPStatus and HTTPProto are filled by callers that also issue a
	// request.
	HTTPStatus int    `json:"http_status,omitempty" yaml:"http_status,omitempty"`
	HTTPProto  string `json:"http_proto,omitempty" yaml:"http_proto,omitempty"`
}

// Handshake dials addr and completes a TLS handshake with cfg, without
// presenting a client certificate.
func Handshake(ctx context.Context, addr string, cfg *tls.Config) (*HandshakeResult, error) {
	start := time.Now()

	dialer := &tls.Dialer{Config: cfg}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tls handshake with %s: %w", addr, err)
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, fmt.Errorf("tls handshake with %s: no server certificate", addr)
	}
	leaf := state.PeerCertificates[0]

	return &HandshakeResult{
		Addr:        addr,
		Version:     tls.VersionName(state.Version),
		CipherSuite: tls.CipherSuiteName(state.CipherSuite),
		ALPN:        state.NegotiatedProtocol,
		Subject:     leaf.Subject.String(),
		NotAfter:    leaf.NotAfter.UTC(),
		Fingerprint: Fingerprint(leaf.Raw),
		Verified:    !cfg.InsecureSkipVerify,
		Duration:    time.Since(start).Round(time.Microsecond).String(),
	}, nil
}

// Fingerprint returns the SHA-256 digest of a DER certificate as
// colon-separated upper-case hex.
func Fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return formatFingerprint(sum[:])
}

func formatFingerprint(b []byte) string {
	h := strings.ToUpper(hex.EncodeToString(b))
	parts := make([]string, 0, len(b))
	for i := 0; i < len(h); i += 2 {
		parts = append(parts, h[i:i+2])
	}
	return strings.Join(parts, ":")
}

// Table renders the result for text output.
func (r *HandshakeResult) Table() *output.Table {
	verified := "no (verification skipped)"
	if r.Verified {
		verified = "yes"
	}
	t := output.KeyValue(
		"Address", r.Addr,
		"Protocol", r.Version,
		"Cipher", r.CipherSuite,
		"ALPN", r.ALPN,
		"Subject", r.Subject,
		"Expires", r.NotAfter.Format(time.RFC3339),
		"SHA-256", r.Fingerprint,
		"Verified", verified,
		"Handshake", r.Duration,
	)
	if r.HTTPStatus != 0 {
		t.AddRow("HTTP:", fmt.Sprintf("%d (%s)", r.HTTPStatus, r.HTTPProto))
	}
	return t
}
