package dnsbench

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"github.com/miekg/dns"
	"github.com/quic-go/quic-go/http3"
	"github.com/tantalor93/doh-go/doh"
	"github.com/tantalor93/doq-go/doq"
	"golang.org/x/net/http2"
)

// newResolver creates DNS client targeting single provider endpoint.
func newResolver(b *Benchmark, ep endpoint) Resolver {
	switch ep.transport {
	case HTTPSTransport:
		return &dnsResolver{query: dohQuery(b, ep.server)}
	case QUICTransport:
		return &dnsResolver{query: doqQuery(b, ep.server), zeroID: true}
	default:
		return &dnsResolver{query: dnsQuery(b, ep), checkID: true}
	}
}

func dnsQuery(b *Benchmark, ep endpoint) queryFunc {
	dnsClient := getDNSClient(b, ep.transport)
	var co *dns.Conn
	// the connection is shared by all queries of a provider and recreated after a failure
	return func(ctx context.Context, msg *dns.Msg) (*dns.Msg, error) {
		if co == nil {
			var err error
			co, err = dnsClient.DialContext(ctx, ep.server)
			if err != nil {
				return nil, err
			}
		}
		r, _, err := dnsClient.ExchangeWithConnContext(ctx, msg, co)
		if err != nil {
			co.Close()
			co = nil
			return nil, err
		}
		return r, nil
	}
}

func dohQuery(b *Benchmark, server string) queryFunc {
	var tr http.RoundTripper
	switch b.DohProtocol {
	case HTTP3Proto:
		// nolint:gosec
		tr = &http3.RoundTripper{TLSClientConfig: &tls.Config{InsecureSkipVerify: b.Insecure}}
	case HTTP2Proto:
		// nolint:gosec
		tr = &http2.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: b.Insecure}}
	case HTTP1Proto:
		fallthrough
	default:
		// nolint:gosec
		tr = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: b.Insecure}}
	}
	c := http.Client{Transport: tr, Timeout: b.Plan.Timeout}
	dohClient := doh.NewClient(server, doh.WithHTTPClient(&c))

	switch b.DohMethod {
	case GetHTTPMethod:
		return dohClient.SendViaGet
	case PostHTTPMethod:
		fallthrough
	default:
		return dohClient.SendViaPost
	}
}

func doqQuery(b *Benchmark, server string) queryFunc {
	h, _, _ := net.SplitHostPort(server)
	quicClient := doq.NewClient(server,
		// nolint:gosec
		doq.WithTLSConfig(&tls.Config{ServerName: h, InsecureSkipVerify: b.Insecure}),
		doq.WithReadTimeout(b.Plan.Timeout),
		doq.WithWriteTimeout(b.Plan.Timeout),
		doq.WithConnectTimeout(b.Plan.Timeout),
	)
	return quicClient.Send
}

func getDNSClient(b *Benchmark, network string) *dns.Client {
	return &dns.Client{
		Net:          network,
		DialTimeout:  b.Plan.Timeout,
		WriteTimeout: b.Plan.Timeout,
		ReadTimeout:  b.Plan.Timeout,
		Timeout:      b.Plan.Timeout,
		// nolint:gosec
		TLSConfig: &tls.Config{InsecureSkipVerify: b.Insecure},
	}
}
