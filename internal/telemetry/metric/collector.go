package metric

import (
	"crypto/x509"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// CertCollector reports the certificate currently served.
// The leaf is swapped in with Set after each provisioning run.
type CertCollector struct {
	mu        sync.RWMutex
	leaf      *x509.Certificate
	generator string

	notAfter *prometheus.Desc
	info     *prometheus.Desc
}

// NewCertCollector creates a collector with no certificate set.
func NewCertCollector() *CertCollector {
	return &CertCollector{
		notAfter: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "certificate", "not_after_timestamp_seconds"),
			"Expiry of the served certificate as a Unix timestamp.",
			nil, nil,
		),
		info: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "certificate", "info"),
			"Served certificate metadata; value is always 1.",
			[]string{"common_name", "generator"}, nil,
		),
	}
}

// Set records the certificate being served.
func (c *CertCollector) Set(leaf *x509.Certificate, generator string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaf = leaf
	c.generator = generator
}

// Describe implements prometheus.Collector.
func (c *CertCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.notAfter
	ch <- c.info
}

// Collect implements prometheus.Collector.
func (c *CertCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.leaf == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.notAfter, prometheus.GaugeValue,
		float64(c.leaf.NotAfter.Unix()))
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1,
		c.leaf.Subject.CommonName, c.generator)
}
