package dnsbench

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

var (
	// ErrNoAddresses is returned when the resolver answered successfully but without any address.
	ErrNoAddresses = errors.New("no addresses in response")

	// ErrIDMismatch is returned when the response ID does not match the request ID.
	ErrIDMismatch = errors.New("response ID does not match request ID")
)

// RcodeError is returned when the resolver answered with other than NOERROR response code.
type RcodeError struct {
	Name  string
	Rcode int
}

func (e *RcodeError) Error() string {
	return fmt.Sprintf("%s %s", dns.RcodeToString[e.Rcode], e.Name)
}

// Resolver resolves domain names using exactly one DNS resolver. Implementations make a single attempt per
// call and do not cache answers.
type Resolver interface {
	Resolve(ctx context.Context, domain string) ([]net.IP, error)
}

type queryFunc func(context.Context, *dns.Msg) (*dns.Msg, error)

// dnsResolver looks up A records and falls back to AAAA records when there is no A record.
type dnsResolver struct {
	query queryFunc
	// zeroID sets ID of each query to 0, RFC 9250 requires it for DoQ.
	zeroID bool
	// checkID enables verification of response ID, not applicable to DoH and DoQ.
	checkID bool
}

func (r *dnsResolver) Resolve(ctx context.Context, domain string) ([]net.IP, error) {
	fqdn := dns.Fqdn(domain)
	ips, err := r.lookup(ctx, fqdn, dns.TypeA)
	if err != nil {
		return nil, err
	}
	if len(ips) > 0 {
		return ips, nil
	}
	ips, err = r.lookup(ctx, fqdn, dns.TypeAAAA)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%s: %w", domain, ErrNoAddresses)
	}
	return ips, nil
}

func (r *dnsResolver) lookup(ctx context.Context, fqdn string, qtype uint16) ([]net.IP, error) {
	m := dns.Msg{}
	m.SetQuestion(fqdn, qtype)
	if r.zeroID {
		m.Id = 0
	}

	resp, err := r.query(ctx, &m)
	if err != nil {
		return nil, err
	}
	if r.checkID && resp.Id != m.Id {
		return nil, ErrIDMismatch
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, &RcodeError{Name: fqdn, Rcode: resp.Rcode}
	}

	var ips []net.IP
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			ips = append(ips, v.A)
		case *dns.AAAA:
			ips = append(ips, v.AAAA)
		}
	}
	return ips, nil
}
