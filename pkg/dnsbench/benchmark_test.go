package dnsbench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmark_init(t *testing.T) {
	plan := TestPlan{Domains: []string{"example.org"}, Rounds: 1, Timeout: time.Second}
	tests := []struct {
		name      string
		benchmark Benchmark
		want      func(t *testing.T, b *Benchmark)
		wantErr   bool
	}{
		{
			name:      "defaults",
			benchmark: Benchmark{Plan: plan},
			want: func(t *testing.T, b *Benchmark) {
				assert.Equal(t, 1, b.Plan.Rounds)
				assert.Equal(t, time.Second, b.Plan.Timeout)
				assert.Equal(t, DefaultWarmupDomain, b.Plan.WarmupDomain)
				assert.Equal(t, DefaultRankBy, b.RankBy)
				assert.Equal(t, PostHTTPMethod, b.DohMethod)
				assert.Equal(t, HTTP1Proto, b.DohProtocol)
				assert.Equal(t, DefaultRequestLogPath, b.RequestLogPath)
				assert.Equal(t, DefaultPlotFormat, b.PlotFormat)
				assert.NotNil(t, b.Writer)
				assert.Equal(t, TCPProber{}, b.Prober)
				assert.Empty(t, b.endpoints)
			},
		},
		{
			name: "endpoints of providers",
			benchmark: Benchmark{Plan: plan, Providers: []Provider{
				{Name: "Google", Address: "8.8.8.8"},
				{Name: "Local", Address: "[fddd:dddd::]:5353"},
				{Name: "Cloudflare", Address: "https://1.1.1.1"},
				{Name: "AdGuard", Address: "quic://dns.adguard-dns.com"},
			}},
			want: func(t *testing.T, b *Benchmark) {
				require.Len(t, b.endpoints, 4)
				assert.Equal(t, "8.8.8.8:53", b.endpoints[0].server)
				assert.Equal(t, "[fddd:dddd::]:5353", b.endpoints[1].server)
				assert.Equal(t, "https://1.1.1.1/dns-query", b.endpoints[2].server)
				assert.Equal(t, "1.1.1.1:443", b.endpoints[2].probeAddr)
				assert.Equal(t, "dns.adguard-dns.com:853", b.endpoints[3].server)
				assert.Len(t, b.resolvers, 4)
			},
		},
		{
			name:      "DoT providers",
			benchmark: Benchmark{Plan: plan, DOT: true, Providers: []Provider{{Name: "Google", Address: "8.8.8.8"}}},
			want: func(t *testing.T, b *Benchmark) {
				assert.Equal(t, endpoint{transport: TLSTransport, server: "8.8.8.8:853", probeAddr: "8.8.8.8:853"}, b.endpoints[0])
			},
		},
		{
			name:      "no domains",
			benchmark: Benchmark{},
			wantErr:   true,
		},
		{
			name:      "negative rounds",
			benchmark: Benchmark{Plan: TestPlan{Domains: []string{"example.org"}, Rounds: -1, Timeout: time.Second}},
			wantErr:   true,
		},
		{
			name:      "zero rounds",
			benchmark: Benchmark{Plan: TestPlan{Domains: []string{"example.org"}, Rounds: 0, Timeout: time.Second}},
			wantErr:   true,
		},
		{
			name:      "zero timeout",
			benchmark: Benchmark{Plan: TestPlan{Domains: []string{"example.org"}, Rounds: 1, Timeout: 0}},
			wantErr:   true,
		},
		{
			name:      "default plan",
			benchmark: Benchmark{Plan: DefaultTestPlan()},
			want: func(t *testing.T, b *Benchmark) {
				assert.Equal(t, DefaultRounds, b.Plan.Rounds)
				assert.Equal(t, DefaultTimeout, b.Plan.Timeout)
			},
		},
		{
			name:      "unknown rank key",
			benchmark: Benchmark{Plan: plan, RankBy: "p99"},
			wantErr:   true,
		},
		{
			name:      "TCP and DoT at once",
			benchmark: Benchmark{Plan: plan, TCP: true, DOT: true},
			wantErr:   true,
		},
		{
			name:      "negative rate limit",
			benchmark: Benchmark{Plan: plan, Rate: -1},
			wantErr:   true,
		},
		{
			name:      "unsupported DoH method",
			benchmark: Benchmark{Plan: plan, DohMethod: "put"},
			wantErr:   true,
		},
		{
			name:      "unsupported DoH protocol",
			benchmark: Benchmark{Plan: plan, DohProtocol: "4"},
			wantErr:   true,
		},
		{
			name: "one invalid provider fails the whole configuration",
			benchmark: Benchmark{Plan: plan, Providers: []Provider{
				{Name: "Google", Address: "8.8.8.8"},
				{Name: "Broken", Address: "not-an-ip"},
			}},
			wantErr: true,
		},
		{
			name: "resolver factory error",
			benchmark: Benchmark{
				Plan:        plan,
				Providers:   []Provider{{Name: "Google", Address: "8.8.8.8"}},
				NewResolver: func(Provider) (Resolver, error) { return nil, assert.AnError },
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.benchmark.init()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.want(t, &tt.benchmark)
		})
	}
}

func TestBenchmark_init_allInvalidProvidersReported(t *testing.T) {
	b := Benchmark{
		Plan: TestPlan{Domains: []string{"example.org"}, Rounds: 1, Timeout: time.Second},
		Providers: []Provider{
			{Name: "First", Address: "first"},
			{Name: "Second", Address: "quic://"},
		},
	}

	err := b.init()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "First")
	assert.Contains(t, err.Error(), "Second")
}
