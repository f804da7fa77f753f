package reporter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/tantalor93/resolverbench/pkg/dnsbench"
)

var csvHeader = []string{
	"provider", "address", "median_ms", "avg_ms", "min_ms", "max_ms", "p95_ms", "success_rate", "failed_domains",
}

func writeCSV(w io.Writer, summaries []dnsbench.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		record := []string{
			s.Provider,
			s.Address,
			formatFloat(toMillis(s.Median)),
			formatFloat(toMillis(s.Avg)),
			formatFloat(toMillis(s.Min)),
			formatFloat(toMillis(s.Max)),
			formatFloat(toMillis(s.P95)),
			strconv.FormatFloat(s.SuccessRate, 'f', 1, 64),
			strings.Join(s.FailedDomains, ";"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
