package tlsroots

import (
	"crypto/tls"
	"fmt"
	"strings"
)

// ServerTLSConfig returns the server-side config for cert.
//
// The protocol range runs from minVersion up to TLS 1.3, which is the
// broadest Go supports when minVersion is TLS 1.0. No client certificate is
// requested.
func ServerTLSConfig(cert tls.Certificate, minVersion uint16) *tls.Config {
	if minVersion == 0 {
		minVersion = tls.VersionTLS10
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
		MaxVersion:   tls.VersionTLS13,
		ClientAuth:   tls.NoClientCert,
		NextProtos:   []string{"h2", "http/1.1"},
	}
}

// ParseVersion converts "1.0" through "1.3" (optionally prefixed with
// "tls") into a crypto/tls version constant.
func ParseVersion(s string) (uint16, error) {
	v := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "tls")
	switch strings.TrimSpace(v) {
	case "1.0", "10":
		return tls.VersionTLS10, nil
	case "1.1", "11":
		return tls.VersionTLS11, nil
	case "1.2", "12":
		return tls.VersionTLS12, nil
	case "1.3", "13":
		return tls.VersionTLS13, nil
	}
	return 0, fmt.Errorf("tlsroots: unsupported TLS version %q", s)
}
