package dnsbench

import (
	"fmt"
	"sort"
	"time"
)

// RankKey is a statistic used to order providers.
type RankKey string

const (
	// RankByMedian orders providers by median latency.
	RankByMedian RankKey = "median"
	// RankByAvg orders providers by average latency.
	RankByAvg RankKey = "avg"
)

// Value returns the ranking statistic of s.
func (k RankKey) Value(s Summary) time.Duration {
	if k == RankByAvg {
		return s.Avg
	}
	return s.Median
}

func (k RankKey) validate() error {
	switch k {
	case RankByMedian, RankByAvg:
		return nil
	default:
		return fmt.Errorf("unknown ranking key '%s', supported keys are %s and %s", k, RankByMedian, RankByAvg)
	}
}

// Rank sorts summaries ascending by key. Summaries with equal key keep their original order.
func Rank(summaries []Summary, key RankKey) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return key.Value(summaries[i]) < key.Value(summaries[j])
	})
}

// Result is a ranked outcome of Benchmark.Run.
type Result struct {
	// Summaries are sorted by RankBy, the fastest provider first.
	Summaries []Summary
	RankBy    RankKey
	Plan      TestPlan
	Start     time.Time
	Duration  time.Duration
}

// Fastest returns the first ranked provider, false is returned when no provider was tested.
func (r *Result) Fastest() (Summary, bool) {
	if r == nil || len(r.Summaries) == 0 {
		return Summary{}, false
	}
	return r.Summaries[0], true
}
