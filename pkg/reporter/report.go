package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tantalor93/resolverbench/pkg/dnsbench"
)

type reportParameters struct {
	benchmark    *dnsbench.Benchmark
	outputWriter io.Writer
	result       *dnsbench.Result
}

type reportPrinter interface {
	print(params reportParameters) error
}

// PrintReport prints ranked results to the writer of the benchmark, exports graphs and generates CSV output if configured.
// If there is a fatal error while printing report, an error is returned.
func PrintReport(b *dnsbench.Benchmark, res *dnsbench.Result) error {
	if len(b.PlotDir) != 0 {
		if err := directoryExists(b.PlotDir); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}

		now := time.Now().Format(time.RFC3339)
		dir := fmt.Sprintf("%s/graphs-%s", b.PlotDir, now)
		if err := os.Mkdir(dir, os.ModePerm); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}
		plotBoxPlotLatency(fileName(b, dir, "latency-boxplot"), res.Summaries)
		plotHistogramLatency(fileName(b, dir, "latency-histogram"), res.Summaries)
		plotRanking(fileName(b, dir, "ranking-barchart"), res.Summaries)
		plotSuccessRate(fileName(b, dir, "successrate-barchart"), res.Summaries)
	}

	if b.Csv != "" {
		f, err := os.Create(b.Csv)
		if err != nil {
			return fmt.Errorf("failed to create file for CSV export due to '%v'", err)
		}
		defer f.Close()

		if err := writeCSV(f, res.Summaries); err != nil {
			return fmt.Errorf("failed to export CSV due to '%v'", err)
		}
	}

	if b.Silent {
		return nil
	}
	w := b.Writer
	if w == nil {
		w = os.Stdout
	}
	params := reportParameters{
		benchmark:    b,
		outputWriter: w,
		result:       res,
	}
	return printer(b).print(params)
}

func directoryExists(plotDir string) error {
	stat, err := os.Stat(plotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' path does not point to an existing directory", plotDir)
		}
		return err
	} else if !stat.IsDir() {
		return fmt.Errorf("'%s' is not a path to a directory", plotDir)
	}
	return nil
}

func printer(b *dnsbench.Benchmark) reportPrinter {
	switch {
	case b.JSON:
		return &jsonReporter{}
	default:
		return &standardReporter{}
	}
}

func fileName(b *dnsbench.Benchmark, dir, name string) string {
	format := b.PlotFormat
	if format == "" {
		format = dnsbench.DefaultPlotFormat
	}
	return dir + "/" + name + "." + format
}
