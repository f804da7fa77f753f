package reporter

import (
	"encoding/json"
)

type jsonReporter struct{}

type providerResult struct {
	Provider           string   `json:"provider"`
	Address            string   `json:"address"`
	MedianMs           float64  `json:"medianMs"`
	AvgMs              float64  `json:"avgMs"`
	MinMs              float64  `json:"minMs"`
	MaxMs              float64  `json:"maxMs"`
	P95Ms              float64  `json:"p95Ms"`
	StdMs              float64  `json:"stdMs"`
	ConnectAvgMs       float64  `json:"connectAvgMs"`
	SuccessRate        float64  `json:"successRate"`
	SuccessfulQueries  int      `json:"successfulQueries"`
	TotalQueries       int      `json:"totalQueries"`
	TCPFailures        int      `json:"tcpFailures"`
	ResolutionFailures int      `json:"resolutionFailures"`
	FailedDomains      []string `json:"failedDomains"`
}

type jsonResult struct {
	RankBy                   string           `json:"rankBy"`
	Rounds                   int              `json:"rounds"`
	Domains                  []string         `json:"domains"`
	TimeoutMs                float64          `json:"timeoutMs"`
	BenchmarkDurationSeconds float64          `json:"benchmarkDurationSeconds"`
	Providers                []providerResult `json:"providers"`
	Fastest                  *string          `json:"fastest,omitempty"`
}

func (s *jsonReporter) print(params reportParameters) error {
	res := params.result

	providers := make([]providerResult, 0, len(res.Summaries))
	for _, sum := range res.Summaries {
		providers = append(providers, providerResult{
			Provider:           sum.Provider,
			Address:            sum.Address,
			MedianMs:           toMillis(sum.Median),
			AvgMs:              toMillis(sum.Avg),
			MinMs:              toMillis(sum.Min),
			MaxMs:              toMillis(sum.Max),
			P95Ms:              toMillis(sum.P95),
			StdMs:              toMillis(sum.StdDev),
			ConnectAvgMs:       toMillis(sum.ConnectAvg),
			SuccessRate:        sum.SuccessRate,
			SuccessfulQueries:  sum.Successful,
			TotalQueries:       sum.Total,
			TCPFailures:        sum.TCPFailures,
			ResolutionFailures: sum.ResolutionFailures,
			FailedDomains:      sum.FailedDomains,
		})
	}

	result := jsonResult{
		RankBy:                   string(res.RankBy),
		Rounds:                   res.Plan.Rounds,
		Domains:                  res.Plan.Domains,
		TimeoutMs:                toMillis(res.Plan.Timeout),
		BenchmarkDurationSeconds: roundDuration(res.Duration).Seconds(),
		Providers:                providers,
	}
	if fastest, ok := res.Fastest(); ok {
		result.Fastest = &fastest.Provider
	}

	return json.NewEncoder(params.outputWriter).Encode(result)
}
