package dnsbench

import (
	"errors"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// TestPlan describes what is queried against every provider. It is shared read-only by all provider tests.
type TestPlan struct {
	// Domains are queried in this order in every round.
	Domains []string
	// Rounds is the number of passes over Domains.
	Rounds int
	// Timeout bounds every probe and every DNS query. It is also the latency reported for providers without any successful query.
	Timeout time.Duration
	// QueryDelay is a pause after each query regardless of its outcome, to avoid resolver side rate limiting.
	QueryDelay time.Duration
	// RoundDelay is a cooldown between two consecutive rounds.
	RoundDelay time.Duration
	// WarmupDomain is queried once before the rounds start, its result is discarded.
	WarmupDomain string
}

// DefaultTestPlan returns the TestPlan with default domains, rounds, timeout and delays.
func DefaultTestPlan() TestPlan {
	return TestPlan{
		Domains:      DefaultDomains(),
		Rounds:       DefaultRounds,
		Timeout:      DefaultTimeout,
		QueryDelay:   DefaultQueryDelay,
		RoundDelay:   DefaultRoundDelay,
		WarmupDomain: DefaultWarmupDomain,
	}
}

// Queries returns the number of queries issued for each provider (warm-up not included).
func (p TestPlan) Queries() int {
	return p.Rounds * len(p.Domains)
}

func (p TestPlan) validate() error {
	if len(p.Domains) == 0 {
		return errors.New("at least one domain has to be specified")
	}
	for _, d := range p.Domains {
		if _, ok := dns.IsDomainName(d); !ok || d == "" {
			return fmt.Errorf("'%s' is not a valid domain name", d)
		}
	}
	if p.WarmupDomain != "" {
		if _, ok := dns.IsDomainName(p.WarmupDomain); !ok {
			return fmt.Errorf("'%s' is not a valid warm-up domain name", p.WarmupDomain)
		}
	}
	if p.Rounds < 1 {
		return fmt.Errorf("number of rounds has to be at least 1, got %d", p.Rounds)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("timeout has to be positive, got %s", p.Timeout)
	}
	if p.QueryDelay < 0 || p.RoundDelay < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}
