package dnsbench

import (
	"time"
)

const (
	// DefaultRounds is a default number of passes over the tested domains.
	DefaultRounds = 3

	// DefaultTimeout is a default upper bound of a single probe or DNS query.
	DefaultTimeout = 5 * time.Second

	// DefaultQueryDelay is a default pause after each query.
	DefaultQueryDelay = 50 * time.Millisecond

	// DefaultRoundDelay is a default cooldown between two rounds.
	DefaultRoundDelay = 500 * time.Millisecond

	// DefaultWarmupDomain is a domain queried before the measured rounds, its result is never recorded.
	DefaultWarmupDomain = "example.com"

	// DefaultRankBy is a default ranking key.
	DefaultRankBy = RankByMedian

	// DefaultRequestLogPath is a default path to the file, where the requests will be logged.
	DefaultRequestLogPath = "requests.log"

	// DefaultPlotFormat is a default format for plots.
	DefaultPlotFormat = "png"
)

// DefaultProviders returns the public resolvers compared when no providers are configured.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "Google", Address: "8.8.8.8"},
		{Name: "Cloudflare", Address: "1.1.1.1"},
		{Name: "Quad9", Address: "9.9.9.9"},
		{Name: "OpenDNS", Address: "208.67.222.222"},
		{Name: "AdGuard", Address: "94.140.14.14"},
		{Name: "Mullvad", Address: "194.242.2.2"},
		{Name: "DNS0", Address: "193.110.81.0"},
		{Name: "NextDNS", Address: "45.90.28.0"},
		{Name: "ControlD", Address: "76.76.2.0"},
	}
}

// DefaultDomains returns the domains queried when no domains are configured.
func DefaultDomains() []string {
	return []string{
		"google.com",
		"gitlab.com",
		"cloudflare.com",
		"microsoft.com",
		"github.com",
		"netflix.com",
	}
}

// SystemProvider returns the resolver configured in the operating system, so public providers can be compared
// with the one currently in use.
func SystemProvider() Provider {
	return Provider{Name: "System", Address: DefaultNameServer()}
}
