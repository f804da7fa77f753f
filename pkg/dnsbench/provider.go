package dnsbench

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	// UDPTransport represents plain DNS over UDP.
	UDPTransport = "udp"
	// TCPTransport represents plain DNS over TCP.
	TCPTransport = "tcp"
	// TLSTransport represents DNS over TLS.
	TLSTransport = "tcp-tls"
	// HTTPSTransport represents DNS over HTTPS.
	HTTPSTransport = "https"
	// QUICTransport represents DNS over QUIC.
	QUICTransport = "quic"
)

const (
	dnsPort   = "53"
	dotPort   = "853"
	httpsPort = "443"
	httpPort  = "80"

	defaultDoHPath = "/dns-query"
)

// Provider is a DNS resolver under test, identified by a display name and an address.
// The address is an IP address with optional port for plain DNS and DoT, https://host[:port][/path] URL for DoH
// or quic://host[:port] for DoQ.
type Provider struct {
	Name    string
	Address string
}

// ParseProvider parses provider in the name=address format.
func ParseProvider(s string) (Provider, error) {
	name, addr, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	addr = strings.TrimSpace(addr)
	if !ok || name == "" || addr == "" {
		return Provider{}, fmt.Errorf("invalid provider '%s', expected format is name=address", s)
	}
	return Provider{Name: name, Address: addr}, nil
}

func (p Provider) String() string {
	return p.Name + "=" + p.Address
}

// endpoint is a normalized provider address.
type endpoint struct {
	// transport is one of the *Transport constants.
	transport string
	// server is host:port for plain DNS, DoT and DoQ and full URL for DoH.
	server string
	// probeAddr is host:port dialed by the TCP reachability probe.
	probeAddr string
}

func resolveEndpoint(p Provider, tcp, dot bool) (endpoint, error) {
	if p.Name == "" {
		return endpoint{}, errors.New("provider name must not be empty")
	}
	switch {
	case strings.HasPrefix(p.Address, "https://"), strings.HasPrefix(p.Address, "http://"):
		return httpsEndpoint(p)
	case strings.HasPrefix(p.Address, "quic://"):
		return quicEndpoint(p)
	}

	transport := UDPTransport
	port := dnsPort
	if tcp {
		transport = TCPTransport
	}
	if dot {
		transport = TLSTransport
		port = dotPort
	}

	host := p.Address
	if h, prt, err := net.SplitHostPort(p.Address); err == nil {
		if err := validatePort(prt); err != nil {
			return endpoint{}, fmt.Errorf("provider %s: %w", p.Name, err)
		}
		host, port = h, prt
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return endpoint{}, fmt.Errorf("provider %s: '%s' is not a valid IP address", p.Name, p.Address)
	}
	server := net.JoinHostPort(ip.String(), port)
	return endpoint{transport: transport, server: server, probeAddr: server}, nil
}

func httpsEndpoint(p Provider) (endpoint, error) {
	u, err := url.Parse(p.Address)
	if err != nil {
		return endpoint{}, fmt.Errorf("provider %s: invalid DoH URL: %w", p.Name, err)
	}
	if u.Hostname() == "" {
		return endpoint{}, fmt.Errorf("provider %s: DoH URL '%s' has no host", p.Name, p.Address)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultDoHPath
	}
	port := u.Port()
	if port == "" {
		port = httpsPort
		if u.Scheme == "http" {
			port = httpPort
		}
	} else if err := validatePort(port); err != nil {
		return endpoint{}, fmt.Errorf("provider %s: %w", p.Name, err)
	}
	return endpoint{
		transport: HTTPSTransport,
		server:    u.String(),
		probeAddr: net.JoinHostPort(u.Hostname(), port),
	}, nil
}

func quicEndpoint(p Provider) (endpoint, error) {
	addr := strings.TrimPrefix(p.Address, "quic://")
	host, port := addr, dotPort
	if h, prt, err := net.SplitHostPort(addr); err == nil {
		if err := validatePort(prt); err != nil {
			return endpoint{}, fmt.Errorf("provider %s: %w", p.Name, err)
		}
		host, port = h, prt
	}
	if host == "" || strings.ContainsAny(host, "/?#") {
		return endpoint{}, fmt.Errorf("provider %s: invalid DoQ address '%s'", p.Name, p.Address)
	}
	server := net.JoinHostPort(host, port)
	return endpoint{transport: QUICTransport, server: server, probeAddr: server}, nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port '%s'", port)
	}
	return nil
}
