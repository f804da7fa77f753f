package reporter

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/tantalor93/resolverbench/pkg/dnsbench"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func plotHistogramLatency(file string, summaries []dnsbench.Summary) {
	var values plotter.Values
	for _, s := range summaries {
		for _, l := range s.Latencies {
			values = append(values, millis(l))
		}
	}
	if len(values) == 0 {
		// nothing to plot
		return
	}
	p := plot.New()
	p.Title.Text = "Latencies distribution of all providers"

	hist, err := plotter.NewHist(values, max(1, numBins(values)))
	if err != nil {
		panic(err)
	}
	p.X.Label.Text = "Latencies (ms)"
	p.X.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	p.Y.Label.Text = "Number of queries"
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	hist.FillColor = color.RGBA{R: 175, G: 238, B: 238, A: 255}
	p.Add(hist)

	save(p, file)
}

// numBins calculates number of bins for histogram.
func numBins(values plotter.Values) int {
	n := float64(len(values))

	// small dataset
	if n < 100 {
		sqrt := math.Sqrt(n)
		return int(math.Min(15, sqrt))
	}

	// medium dataset - use Rice's rule
	if n < 1000 {
		rice := 2 * math.Cbrt(n)
		return int(math.Min(30, rice))
	}

	// large dataset - use Doane's rule
	skewness := stat.Skew(values, nil)

	// standard error of skewness
	sigmaG := math.Sqrt(6 * (n - 2) / ((n + 1) * (n + 3)))
	doane := 1 + math.Log2(n) + math.Log2(1+math.Abs(skewness)/sigmaG)
	return int(math.Min(50, doane))
}

func plotBoxPlotLatency(file string, summaries []dnsbench.Summary) {
	if len(summaries) == 0 {
		// nothing to plot
		return
	}
	p := plot.New()
	p.Title.Text = "Latencies per provider"
	p.Y.Label.Text = "Latencies (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}

	names := make([]string, 0, len(summaries))
	for i, s := range summaries {
		names = append(names, s.Provider)
		if len(s.Latencies) == 0 {
			continue
		}
		values := make(plotter.Values, 0, len(s.Latencies))
		for _, l := range s.Latencies {
			values = append(values, millis(l))
		}
		boxplot, err := plotter.NewBoxPlot(vg.Points(20), float64(i), values)
		if err != nil {
			panic(err)
		}
		boxplot.FillColor = color.RGBA{R: 127, G: 188, B: 165, A: 255}
		p.Add(boxplot)
	}
	p.NominalX(names...)

	save(p, file)
}

func plotRanking(file string, summaries []dnsbench.Summary) {
	if len(summaries) == 0 {
		// nothing to plot
		return
	}
	medians := make(plotter.Values, 0, len(summaries))
	avgs := make(plotter.Values, 0, len(summaries))
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		medians = append(medians, millis(s.Median))
		avgs = append(avgs, millis(s.Avg))
		names = append(names, s.Provider)
	}

	p := plot.New()
	p.Title.Text = "Provider latencies"
	p.Y.Label.Text = "Latency (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}

	width := vg.Points(12)
	medianBars, err := plotter.NewBarChart(medians, width)
	if err != nil {
		panic(err)
	}
	medianBars.Color = plotutil.Color(0)
	medianBars.Offset = -width / 2

	avgBars, err := plotter.NewBarChart(avgs, width)
	if err != nil {
		panic(err)
	}
	avgBars.Color = plotutil.Color(1)
	avgBars.Offset = width / 2

	p.Add(medianBars, avgBars)
	p.Legend.Add("median", medianBars)
	p.Legend.Add("avg", avgBars)
	p.Legend.Top = true
	p.NominalX(names...)

	save(p, file)
}

func plotSuccessRate(file string, summaries []dnsbench.Summary) {
	if len(summaries) == 0 {
		// nothing to plot
		return
	}
	rates := make(plotter.Values, 0, len(summaries))
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		rates = append(rates, s.SuccessRate)
		names = append(names, s.Provider)
	}

	p := plot.New()
	p.Title.Text = "Success rate"
	p.Y.Label.Text = "Successful queries (%)"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}

	bars, err := plotter.NewBarChart(rates, vg.Points(20))
	if err != nil {
		panic(err)
	}
	bars.Color = color.RGBA{R: 122, G: 195, B: 106, A: 255}
	p.Add(bars)
	p.NominalX(names...)

	save(p, file)
}

func save(p *plot.Plot, file string) {
	if err := p.Save(8*vg.Inch, 6*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
