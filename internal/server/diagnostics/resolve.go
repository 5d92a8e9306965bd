package diagnostics

import (
	"context"
	"log/slog"
	"net"
	"os"
	"time"
)

// Defaults for Prober.
const (
	DefaultTimeout     = 2 * time.Second
	DefaultPlaceholder = "<your-ip>"
)

// routeProbeAddr is dialed over UDP to learn the outbound interface
// address. Connecting a UDP socket sends no packets.
const routeProbeAddr = "8.8.8.8:80"

// Source describes where a HostInfo address came from.
type Source string

const (
	SourceHostname    Source = "hostname"
	SourceRoute       Source = "route"
	SourcePlaceholder Source = "placeholder"
)

// HostInfo is the outcome of address resolution.
type HostInfo struct {
	Hostname string
	IP       string
	Source   Source
}

// Prober resolves the address other devices should use.
//
// The function fields default to the net and os package implementations
// and exist so tests can substitute them.
type Prober struct {
	Timeout     time.Duration
	Placeholder string
	Logger      *slog.Logger

	Hostname     func() (string, error)
	LookupIPAddr func(ctx context.Context, host string) ([]net.IPAddr, error)
	Dial         func(ctx context.Context, network, address string) (net.Conn, error)
}

// Resolve runs a default Prober with the given timeout.
func Resolve(ctx context.Context, timeout time.Duration) HostInfo {
	p := &Prober{Timeout: timeout}
	return p.Resolve(ctx)
}

// Resolve looks up the machine hostname, then falls back to the outbound
// route address, then to the placeholder. It returns within Timeout.
func (p *Prober) Resolve(ctx context.Context) HostInfo {
	p.init()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	info := HostInfo{Source: SourcePlaceholder, IP: p.Placeholder}

	host, err := p.Hostname()
	if err != nil {
		p.Logger.Warn("hostname lookup failed", "error", err)
	} else {
		info.Hostname = host
		addrs, err := p.LookupIPAddr(ctx, host)
		if err != nil {
			p.Logger.Warn("hostname resolution failed", "hostname", host, "error", err)
		} else if ip := pickAddr(addrs); ip != nil {
			info.IP = ip.String()
			info.Source = SourceHostname
			return info
		}
	}

	if ip := p.routeAddr(ctx); ip != nil {
		info.IP = ip.String()
		info.Source = SourceRoute
		return info
	}

	p.Logger.Warn("could not determine a network address", "placeholder", p.Placeholder)
	return info
}

func (p *Prober) init() {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.Placeholder == "" {
		p.Placeholder = DefaultPlaceholder
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Hostname == nil {
		p.Hostname = os.Hostname
	}
	if p.LookupIPAddr == nil {
		p.LookupIPAddr = net.DefaultResolver.LookupIPAddr
	}
	if p.Dial == nil {
		var d net.Dialer
		p.Dial = d.DialContext
	}
}

func (p *Prober) routeAddr(ctx context.Context) net.IP {
	conn, err := p.Dial(ctx, "udp", routeProbeAddr)
	if err != nil {
		p.Logger.Debug("route probe failed", "error", err)
		return nil
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || !usable(addr.IP) {
		return nil
	}
	return addr.IP
}

// pickAddr prefers a usable IPv4 address over IPv6.
func pickAddr(addrs []net.IPAddr) net.IP {
	var v6 net.IP
	for _, a := range addrs {
		if !usable(a.IP) {
			continue
		}
		if a.IP.To4() != nil {
			return a.IP
		}
		if v6 == nil {
			v6 = a.IP
		}
	}
	return v6
}

// usable reports whether another device could plausibly reach ip.
func usable(ip net.IP) bool {
	return ip != nil &&
		!ip.IsLoopback() &&
		!ip.IsUnspecified() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsMulticast()
}
