package dnsbench

import (
	"math"
	"slices"
	"time"

	"github.com/montanaflynn/stats"
)

// Failure classifies outcome of a single query.
type Failure int

const (
	// Success means the provider answered with at least one address.
	Success Failure = iota
	// TCPUnreachable means the reachability probe failed, DNS query was not attempted.
	TCPUnreachable
	// ResolutionError means the DNS query failed or timed out.
	ResolutionError
)

func (f Failure) String() string {
	switch f {
	case Success:
		return "success"
	case TCPUnreachable:
		return "tcp-unreachable"
	case ResolutionError:
		return "resolution-error"
	default:
		return "unknown"
	}
}

// tcpFailedSuffix annotates failed domains whose probe did not connect.
const tcpFailedSuffix = " (TCP Failed)"

// Sample is an outcome of one (round, domain) query against a provider.
type Sample struct {
	Round  int
	Domain string
	Start  time.Time
	// Latency is time from dispatch of the DNS query to the answer. Meaningful only for Success.
	Latency time.Duration
	// Connect is the TCP handshake latency measured by the probe. Zero for TCPUnreachable.
	Connect time.Duration
	Failure Failure
	Err     error
}

// Summary is aggregated result of a single provider.
type Summary struct {
	Provider string
	Address  string

	Avg    time.Duration
	Min    time.Duration
	Max    time.Duration
	Median time.Duration
	P95    time.Duration
	StdDev time.Duration

	// ConnectAvg is mean TCP handshake latency of successful probes.
	ConnectAvg time.Duration

	// SuccessRate is a percentage of successful queries from all planned queries.
	SuccessRate float64
	Successful  int
	Total       int

	TCPFailures        int
	ResolutionFailures int
	// FailedDomains are in the order of failures, domains whose probe failed are suffixed with " (TCP Failed)".
	FailedDomains []string

	// Latencies are latencies of successful queries sorted ascending.
	Latencies []time.Duration
}

// Summarize reduces samples of a single provider into Summary. The function has no side effects.
// Median of even number of latencies is the lower of the two middle values.
// When there is no successful sample, all latency statistics equal plan.Timeout.
func Summarize(p Provider, plan TestPlan, samples []Sample) Summary {
	s := Summary{
		Provider:      p.Name,
		Address:       p.Address,
		Total:         plan.Queries(),
		FailedDomains: []string{},
	}

	var connectSum time.Duration
	var connectCount int
	latencies := make([]time.Duration, 0, len(samples))
	for _, sample := range samples {
		switch sample.Failure {
		case Success:
			latencies = append(latencies, sample.Latency)
		case TCPUnreachable:
			s.TCPFailures++
			s.FailedDomains = append(s.FailedDomains, sample.Domain+tcpFailedSuffix)
		default:
			s.ResolutionFailures++
			s.FailedDomains = append(s.FailedDomains, sample.Domain)
		}
		if sample.Failure != TCPUnreachable {
			connectSum += sample.Connect
			connectCount++
		}
	}
	if connectCount > 0 {
		s.ConnectAvg = connectSum / time.Duration(connectCount)
	}

	slices.Sort(latencies)
	s.Latencies = latencies
	s.Successful = len(latencies)
	if s.Total > 0 {
		s.SuccessRate = 100 * float64(s.Successful) / float64(s.Total)
	}

	if len(latencies) == 0 {
		s.Avg, s.Min, s.Max, s.Median, s.P95 = plan.Timeout, plan.Timeout, plan.Timeout, plan.Timeout, plan.Timeout
		return s
	}

	s.Min = latencies[0]
	s.Max = latencies[len(latencies)-1]
	s.Median = latencies[(len(latencies)-1)/2]

	data := make(stats.Float64Data, len(latencies))
	for i, l := range latencies {
		data[i] = float64(l)
	}
	if mean, err := stats.Mean(data); err == nil {
		s.Avg = clamp(time.Duration(math.Round(mean)), s.Min, s.Max)
	}
	s.P95 = s.Max
	if p95, err := stats.Percentile(data, 95); err == nil {
		s.P95 = clamp(time.Duration(math.Round(p95)), s.Min, s.Max)
	}
	if sd, err := stats.StandardDeviation(data); err == nil {
		s.StdDev = time.Duration(math.Round(sd))
	}
	return s
}

// clamp keeps float rounding of a statistic within the observed range.
func clamp(d, lo, hi time.Duration) time.Duration {
	return max(lo, min(d, hi))
}
