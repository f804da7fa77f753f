package reporter

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olekukonko/tablewriter"
	"github.com/tantalor93/resolverbench/pkg/dnsbench"
	"github.com/tantalor93/resolverbench/pkg/printutils"
)

type standardReporter struct{}

func (s *standardReporter) print(params reportParameters) error {
	w := params.outputWriter
	res := params.result

	printutils.NeutralFprintf(w, "\nDetailed results (sorted by %s latency):\n", res.RankBy)
	printTable(w, res.Summaries)
	printFailures(w, res.Summaries)

	if params.benchmark.HistDisplay {
		for _, sum := range res.Summaries {
			if len(sum.Latencies) < 2 {
				continue
			}
			printutils.NeutralFprintf(w, "\n%s latency distribution, %s datapoints\n",
				sum.Provider, printutils.HighlightSprint(len(sum.Latencies)))
			printBars(w, distribution(sum, res.Plan.Timeout))
		}
	}

	fastest, ok := res.Fastest()
	if !ok {
		printutils.ErrFprintf(w, "\nNo provider was tested.\n")
	} else {
		printutils.NeutralFprintf(w, "\nFastest DNS provider: %s (%s %s, %s success rate)\n",
			printutils.HighlightSprint(fastest.Provider),
			printutils.Millis(res.RankBy.Value(fastest)), res.RankBy, printutils.RateSprint(fastest.SuccessRate))
	}

	printutils.NeutralFprintf(w, "Time taken for tests:\t%s\n", printutils.HighlightSprint(roundDuration(res.Duration)))
	return nil
}

func printTable(w io.Writer, summaries []dnsbench.Summary) {
	lines := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		lines = append(lines, []string{
			s.Provider,
			printutils.Millis(s.Median),
			printutils.Millis(s.Avg),
			printutils.Millis(s.Min),
			printutils.Millis(s.Max),
			printutils.Percent(s.SuccessRate),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Provider", "Median", "Avg", "Min", "Max", "Success Rate"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	table.SetBorder(false)
	table.AppendBulk(lines)
	table.Render()
}

func printFailures(w io.Writer, summaries []dnsbench.Summary) {
	header := false
	for _, s := range summaries {
		if len(s.FailedDomains) == 0 {
			continue
		}
		if !header {
			printutils.ErrFprintf(w, "\nFailed queries:\n")
			header = true
		}
		printutils.ErrFprintf(w, "\t%s:\t%s\n", s.Provider, strings.Join(s.FailedDomains, ", "))
	}
}

func distribution(s dnsbench.Summary, timeout time.Duration) []hdrhistogram.Bar {
	hist := hdrhistogram.New(time.Microsecond.Nanoseconds(), 2*timeout.Nanoseconds(), 1)
	for _, l := range s.Latencies {
		// values out of the histogram range are skipped
		_ = hist.RecordValue(l.Nanoseconds())
	}
	return hist.Distribution()
}

func printBars(w io.Writer, bars []hdrhistogram.Bar) {
	counts := make([]int64, 0, len(bars))
	lines := make([][]string, 0, len(bars))
	added := false
	var max int64

	for _, b := range bars {
		if b.Count == 0 && !added {
			// trim the start
			continue
		}
		if b.Count > max {
			max = b.Count
		}

		added = true

		line := make([]string, 3)
		lines = append(lines, line)
		counts = append(counts, b.Count)

		line[0] = roundDuration(time.Duration(b.To/2 + b.From/2)).String()
		line[2] = strconv.FormatInt(b.Count, 10)
	}

	// trim the end
	for len(counts) > 0 && counts[len(counts)-1] == 0 {
		counts = counts[:len(counts)-1]
		lines = lines[:len(lines)-1]
	}

	for i, l := range lines {
		l[1] = makeBar(counts[i], max)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Latency", "", "Count"})
	table.SetBorder(false)
	table.AppendBulk(lines)
	table.Render()
}

func makeBar(c int64, max int64) string {
	if c == 0 {
		return ""
	}
	t := int((43 * float64(c) / float64(max)) + 0.5)
	return strings.Repeat(printutils.HighlightSprint("▄"), t)
}
