package diagnostics

import (
	"fmt"
	"io"
	"net"
	"strconv"
)

// PrintBanner writes the access URLs and the self-signed certificate
// instructions.
func PrintBanner(w io.Writer, info HostInfo, port int) error {
	p := strconv.Itoa(port)

	// Placeholders are printed as-is; real addresses get IPv6 brackets.
	mobile := info.IP + ":" + p
	if net.ParseIP(info.IP) != nil {
		mobile = net.JoinHostPort(info.IP, p)
	}

	_, err := fmt.Fprintf(w, `
HTTPS Server running securely!
  Local Access: https://localhost:%s
  Mobile Access: https://%s

IMPORTANT: Your browser will block the connection because the certificate is self-signed.
  - On Phone: tap 'Advanced' -> 'Proceed (Unsafe)'
  - Voice input will ONLY work via HTTPS
`, p, mobile)
	return err
}
