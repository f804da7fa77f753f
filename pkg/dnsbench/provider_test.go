package dnsbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Provider
		wantErr bool
	}{
		{name: "IPv4", in: "Google=8.8.8.8", want: Provider{Name: "Google", Address: "8.8.8.8"}},
		{name: "spaces are trimmed", in: " Quad9 = 9.9.9.9 ", want: Provider{Name: "Quad9", Address: "9.9.9.9"}},
		{
			name: "DoH URL with query",
			in:   "Cloudflare=https://1.1.1.1/dns-query?x=1",
			want: Provider{Name: "Cloudflare", Address: "https://1.1.1.1/dns-query?x=1"},
		},
		{name: "missing separator", in: "8.8.8.8", wantErr: true},
		{name: "missing name", in: "=8.8.8.8", wantErr: true},
		{name: "missing address", in: "Google=", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProvider(tt.in)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Name+"="+tt.want.Address, got.String())
		})
	}
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		address string
		tcp     bool
		dot     bool
		want    endpoint
		wantErr bool
	}{
		{
			name:    "IPv4 without port",
			address: "8.8.8.8",
			want:    endpoint{transport: UDPTransport, server: "8.8.8.8:53", probeAddr: "8.8.8.8:53"},
		},
		{
			name:    "IPv4 with port",
			address: "127.0.0.1:5353",
			want:    endpoint{transport: UDPTransport, server: "127.0.0.1:5353", probeAddr: "127.0.0.1:5353"},
		},
		{
			name:    "IPv6 without port",
			address: "2001:db8::1",
			want:    endpoint{transport: UDPTransport, server: "[2001:db8::1]:53", probeAddr: "[2001:db8::1]:53"},
		},
		{
			name:    "IPv6 with port",
			address: "[2001:db8::1]:5353",
			want:    endpoint{transport: UDPTransport, server: "[2001:db8::1]:5353", probeAddr: "[2001:db8::1]:5353"},
		},
		{
			name:    "TCP",
			address: "1.1.1.1",
			tcp:     true,
			want:    endpoint{transport: TCPTransport, server: "1.1.1.1:53", probeAddr: "1.1.1.1:53"},
		},
		{
			name:    "DoT uses port 853",
			address: "1.1.1.1",
			dot:     true,
			want:    endpoint{transport: TLSTransport, server: "1.1.1.1:853", probeAddr: "1.1.1.1:853"},
		},
		{
			name:    "DoH without path",
			address: "https://dns.google",
			want:    endpoint{transport: HTTPSTransport, server: "https://dns.google/dns-query", probeAddr: "dns.google:443"},
		},
		{
			name:    "DoH with path and port",
			address: "https://127.0.0.1:8443/resolve",
			want:    endpoint{transport: HTTPSTransport, server: "https://127.0.0.1:8443/resolve", probeAddr: "127.0.0.1:8443"},
		},
		{
			name:    "plain HTTP DoH",
			address: "http://127.0.0.1/",
			want:    endpoint{transport: HTTPSTransport, server: "http://127.0.0.1/dns-query", probeAddr: "127.0.0.1:80"},
		},
		{
			name:    "DoQ without port",
			address: "quic://dns.adguard-dns.com",
			want:    endpoint{transport: QUICTransport, server: "dns.adguard-dns.com:853", probeAddr: "dns.adguard-dns.com:853"},
		},
		{
			name:    "DoQ with port",
			address: "quic://127.0.0.1:8853",
			want:    endpoint{transport: QUICTransport, server: "127.0.0.1:8853", probeAddr: "127.0.0.1:8853"},
		},
		{name: "hostname is not supported for plain DNS", address: "dns.google", wantErr: true},
		{name: "invalid port", address: "8.8.8.8:99999", wantErr: true},
		{name: "non numeric port", address: "8.8.8.8:dns", wantErr: true},
		{name: "DoH without host", address: "https:///dns-query", wantErr: true},
		{name: "DoH invalid port", address: "https://dns.google:0", wantErr: true},
		{name: "DoQ without host", address: "quic://", wantErr: true},
		{name: "DoQ with path", address: "quic://dns.adguard-dns.com/dns-query", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveEndpoint(Provider{Name: "test", Address: tt.address}, tt.tcp, tt.dot)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEndpoint_emptyName(t *testing.T) {
	_, err := resolveEndpoint(Provider{Address: "8.8.8.8"}, false, false)

	assert.Error(t, err)
}
