package certgen

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"time"
)

// Native provisions the bundle in-process.
type Native struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewNative creates a Native provisioner.
func NewNative(opts Options, logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.Default()
	}
	return &Native{
		opts:   opts.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// Provision generates an RSA key and self-signed certificate and installs
// the bundle at the configured path.
func (n *Native) Provision(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	certPEM, keyPEM, err := n.generate()
	if err != nil {
		return nil, err
	}

	cert, err := parseBundle(append(append([]byte{}, certPEM...), keyPEM...))
	if err != nil {
		return nil, err
	}

	if err := writeBundle(n.opts.Path, certPEM, keyPEM); err != nil {
		return nil, err
	}

	n.logger.Debug("generated certificate in-process",
		"common_name", n.opts.CommonName,
		"key_bits", n.opts.KeyBits,
	)

	return &Result{
		Path:        n.opts.Path,
		Generator:   GeneratorNative,
		Certificate: cert,
		NotAfter:    cert.Leaf.NotAfter,
		Duration:    time.Since(start),
	}, nil
}

func (n *Native) generate() (certPEM, keyPEM []byte, err error) {
	priv, err := rsa.GenerateKey(rand.Reader, n.opts.KeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("certgen: generate key: %w", err)
	}

	// Serials must be unique per issuer+key; 128 random bits is plenty.
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("certgen: generate serial: %w", err)
	}

	// Backdate slightly so clocks that lag a little still accept it.
	notBefore := n.now().Add(-5 * time.Minute).UTC()
	notAfter := notBefore.AddDate(0, 0, n.opts.ValidDays)

	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: n.opts.CommonName},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	hosts := []string{n.opts.CommonName, "localhost", "127.0.0.1", "::1"}
	seen := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		if seen[h] {
			continue
		}
		seen[h] = true
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, fmt.Errorf("certgen: create certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("certgen: marshal key: %w", err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}
