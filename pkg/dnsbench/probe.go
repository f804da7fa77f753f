package dnsbench

import (
	"context"
	"time"

	"github.com/miekg/dns"
)

// Prober measures network layer latency to the resolver, independently of the DNS protocol.
type Prober interface {
	// Probe returns time it took to establish connection to addr and true, or false when connection could not be
	// established within timeout.
	Probe(ctx context.Context, addr string, timeout time.Duration) (time.Duration, bool)
}

// TCPProber measures latency of the TCP handshake. The connection is closed right after it is established.
type TCPProber struct{}

// Probe implements Prober.
func (TCPProber) Probe(ctx context.Context, addr string, timeout time.Duration) (time.Duration, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := dns.Client{Net: TCPTransport, DialTimeout: timeout}
	start := time.Now()
	co, err := c.DialContext(ctx, addr)
	if err != nil {
		return 0, false
	}
	elapsed := time.Since(start)
	_ = co.Close()
	return elapsed, true
}
