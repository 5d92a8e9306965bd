package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devhttps-go/internal/certgen"
	"github.com/yndnr/devhttps-go/internal/cli/connection"
	"github.com/yndnr/devhttps-go/internal/cli/output"
)

// CertCommand returns the cert command.
func CertCommand() *cli.Command {
	return &cli.Command{
		Name:   "cert",
		Usage:  "Generate the certificate bundle without serving",
		Action: certAction,
	}
}

// CertReport describes a provisioned bundle.
type CertReport struct {
	Path        string    `json:"path" yaml:"path"`
	Generator   string    `json:"generator" yaml:"generator"`
	Subject     string    `json:"subject" yaml:"subject"`
	DNSNames    []string  `json:"dns_names,omitempty" yaml:"dns_names,omitempty"`
	NotAfter    time.Time `json:"not_after" yaml:"not_after"`
	Fingerprint string    `json:"sha256_fingerprint" yaml:"sha256_fingerprint"`
	Duration    string    `json:"duration" yaml:"duration"`
}

// Table renders the report for text output.
func (r *CertReport) Table() *output.Table {
	return output.KeyValue(
		"Bundle", r.Path,
		"Generator", r.Generator,
		"Subject", r.Subject,
		"DNS names", strings.Join(r.DNSNames, ", "),
		"Expires", r.NotAfter.Format(time.RFC3339),
		"SHA-256", r.Fingerprint,
		"Took", r.Duration,
	)
}

func certAction(c *cli.Context) error {
	flags, cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	prov, err := certgen.New(cfg.TLS.Generator, cfg.TLS.ToolPath, certgen.Options{
		Path:       cfg.TLS.BundleFile,
		CommonName: cfg.TLS.CommonName,
		ValidDays:  cfg.TLS.ValidDays,
		KeyBits:    cfg.TLS.KeyBits,
	}, log)
	if err != nil {
		return err
	}

	spinner := output.NewSpinner(c.App.ErrWriter, "Creating temporary SSL certificate...")
	spinner.Start()
	res, err := prov.Provision(c.Context)
	if err != nil {
		spinner.Fail("Certificate generation failed")
		return fmt.Errorf("provision certificate: %w", err)
	}
	spinner.Success("Certificate created")

	leaf := res.Leaf()

	return render(c, flags.Output, &CertReport{
		Path:        res.Path,
		Generator:   res.Generator,
		Subject:     leaf.Subject.String(),
		DNSNames:    leaf.DNSNames,
		NotAfter:    leaf.NotAfter.UTC(),
		Fingerprint: connection.Fingerprint(leaf.Raw),
		Duration:    res.Duration.Round(time.Millisecond).String(),
	})
}
