package certgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// stderrLimit bounds how much tool output is kept in a ToolError.
const stderrLimit = 512

// OpenSSL provisions the bundle by running "openssl req -x509".
type OpenSSL struct {
	tool   string
	opts   Options
	logger *slog.Logger
}

// NewOpenSSL creates an OpenSSL provisioner. tool is a command name looked
// up in PATH or a path to the binary.
func NewOpenSSL(tool string, opts Options, logger *slog.Logger) *OpenSSL {
	if tool == "" {
		tool = DefaultTool
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenSSL{
		tool:   tool,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Provision runs the tool and installs the bundle at the configured path.
func (o *OpenSSL) Provision(ctx context.Context) (*Result, error) {
	start := time.Now()

	toolPath, err := exec.LookPath(o.tool)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolNotFound, o.tool, err)
	}

	// The tool writes key and certificate into a scratch directory next to
	// the bundle; they are joined into the bundle only after a clean exit.
	workDir, err := os.MkdirTemp(filepath.Dir(o.opts.Path), ScratchPrefix+"openssl-*")
	if err != nil {
		return nil, fmt.Errorf("certgen: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	keyFile := filepath.Join(workDir, "key.pem")
	certFile := filepath.Join(workDir, "cert.pem")

	args := o.args(keyFile, certFile)
	o.logger.Debug("running certificate tool",
		"tool", toolPath,
		"args", strings.Join(args, " "),
	)

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, toolPath, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("certgen: %s interrupted: %w", o.tool, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ToolError{
				Tool:     o.tool,
				ExitCode: exitErr.ExitCode(),
				Stderr:   tail(output.String(), stderrLimit),
				Err:      err,
			}
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrToolNotFound, o.tool, err)
	}

	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s produced no certificate: %v", ErrInvalidBundle, o.tool, err)
	}
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s produced no key: %v", ErrInvalidBundle, o.tool, err)
	}

	cert, err := parseBundle(append(append([]byte{}, certPEM...), keyPEM...))
	if err != nil {
		return nil, err
	}

	if err := writeBundle(o.opts.Path, certPEM, keyPEM); err != nil {
		return nil, err
	}

	return &Result{
		Path:        o.opts.Path,
		Generator:   GeneratorOpenSSL,
		Certificate: cert,
		NotAfter:    cert.Leaf.NotAfter,
		Duration:    time.Since(start),
	}, nil
}

func (o *OpenSSL) args(keyFile, certFile string) []string {
	return []string{
		"req", "-new", "-x509",
		"-newkey", "rsa:" + strconv.Itoa(o.opts.KeyBits),
		"-keyout", keyFile,
		"-out", certFile,
		"-days", strconv.Itoa(o.opts.ValidDays),
		"-nodes",
		"-subj", "/CN=" + o.opts.CommonName,
	}
}

// tail returns at most n trailing bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = "..." + s[len(s)-n:]
	}
	return s
}
