package dnsbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/tantalor93/resolverbench/pkg/printutils"
	"go.uber.org/ratelimit"
)

const (
	// GetHTTPMethod represents GET HTTP Method for DoH.
	GetHTTPMethod = "get"
	// PostHTTPMethod represents POST HTTP Method for DoH.
	PostHTTPMethod = "post"

	// HTTP1Proto represents HTTP/1.1 protocol for DoH.
	HTTP1Proto = "1.1"
	// HTTP2Proto represents HTTP/2 protocol for DoH.
	HTTP2Proto = "2"
	// HTTP3Proto represents HTTP/3 protocol for DoH.
	HTTP3Proto = "3"
)

// Benchmark is representation of a comparison of DNS providers.
type Benchmark struct {
	// Providers are tested sequentially in this order.
	Providers []Provider

	// Plan is shared by all providers. Rounds and Timeout have to be set, see DefaultTestPlan.
	Plan TestPlan

	// RankBy selects the statistic providers are ordered by, median latency is used by default.
	RankBy RankKey

	// TCP controls whether plain DNS queries are sent over TCP instead of UDP.
	TCP bool
	// DOT controls whether plain DNS providers are queried using DoT (DNS over TLS).
	DOT bool

	// DohMethod controls HTTP method used for sending DoH requests, either "get" or "post".
	DohMethod string
	// DohProtocol controls HTTP protocol version used for DoH, one of "1.1", "2", "3".
	DohProtocol string

	// Insecure disables server TLS certificate validation. Applicable for DoT, DoH and DoQ.
	Insecure bool

	// Rate applies a global limit of queries per second on top of the delays of the Plan, 0 means no limit.
	Rate int

	// RequestLogEnabled controls whether every query is logged into RequestLogPath.
	RequestLogEnabled bool
	// RequestLogPath is a path to the file, where the queries will be logged.
	RequestLogPath string

	// ProgressBar controls whether a progress bar is drawn while a provider is tested.
	ProgressBar bool

	// Silent disables all output of the Benchmark.Run.
	Silent bool
	// Color controls ANSI colors of the output.
	Color bool

	// JSON controls whether the report is printed as JSON.
	JSON bool
	// Csv is a path to the file, where the summaries will be exported.
	Csv string
	// HistDisplay controls whether latency distribution of each provider is printed.
	HistDisplay bool
	// PlotDir is a directory where plots are exported, no plots are exported when empty.
	PlotDir string
	// PlotFormat is a format of the exported plots.
	PlotFormat string

	// Writer is where the progress and the report is written, os.Stdout is used when nil.
	Writer io.Writer

	// Prober measures reachability of providers, TCPProber is used when nil.
	Prober Prober
	// NewResolver creates DNS client for a provider. When nil, the client is chosen by the provider address
	// and the TCP, DOT, DohMethod, DohProtocol options.
	NewResolver func(Provider) (Resolver, error)

	endpoints     []endpoint
	resolvers     []Resolver
	requestLogger *log.Logger
	sleep         func(context.Context, time.Duration) error
}

func (b *Benchmark) init() error {
	if b.Writer == nil {
		b.Writer = os.Stdout
	}
	if b.RankBy == "" {
		b.RankBy = DefaultRankBy
	}
	if err := b.RankBy.validate(); err != nil {
		return err
	}

	if b.Plan.WarmupDomain == "" {
		b.Plan.WarmupDomain = DefaultWarmupDomain
	}
	if err := b.Plan.validate(); err != nil {
		return err
	}

	if b.TCP && b.DOT {
		return errors.New("only one of TCP and DoT transports can be used for plain DNS providers")
	}
	if b.Rate < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", b.Rate)
	}

	if b.DohMethod == "" {
		b.DohMethod = PostHTTPMethod
	}
	if b.DohMethod != GetHTTPMethod && b.DohMethod != PostHTTPMethod {
		return fmt.Errorf("unsupported DoH method '%s'", b.DohMethod)
	}
	if b.DohProtocol == "" {
		b.DohProtocol = HTTP1Proto
	}
	if b.DohProtocol != HTTP1Proto && b.DohProtocol != HTTP2Proto && b.DohProtocol != HTTP3Proto {
		return fmt.Errorf("unsupported DoH protocol '%s'", b.DohProtocol)
	}

	if b.RequestLogPath == "" {
		b.RequestLogPath = DefaultRequestLogPath
	}
	if b.PlotFormat == "" {
		b.PlotFormat = DefaultPlotFormat
	}
	if b.Prober == nil {
		b.Prober = TCPProber{}
	}
	if b.sleep == nil {
		b.sleep = sleep
	}

	var errs []error
	b.endpoints = make([]endpoint, len(b.Providers))
	for i, p := range b.Providers {
		ep, err := resolveEndpoint(p, b.TCP, b.DOT)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.endpoints[i] = ep
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid providers: %w", errors.Join(errs...))
	}

	b.resolvers = make([]Resolver, len(b.Providers))
	for i, p := range b.Providers {
		if b.NewResolver == nil {
			b.resolvers[i] = newResolver(b, b.endpoints[i])
			continue
		}
		r, err := b.NewResolver(p)
		if err != nil {
			return fmt.Errorf("failed to create resolver for provider %s: %w", p.Name, err)
		}
		b.resolvers[i] = r
	}
	return nil
}

// Run validates configuration and tests all providers one by one. Configuration problems are reported as error
// before any query is sent, failed queries are part of the Result. When ctx is canceled, the provider under test
// is dropped and the providers finished so far are ranked and returned.
func (b *Benchmark) Run(ctx context.Context) (*Result, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	color.NoColor = !b.Color

	if b.RequestLogEnabled {
		file, err := os.OpenFile(b.RequestLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open request log file: %w", err)
		}
		defer file.Close()
		b.requestLogger = log.New(file, "", log.LstdFlags)
	}

	limits := ""
	var limit ratelimit.Limiter
	if b.Rate > 0 {
		limit = ratelimit.New(b.Rate)
		limits = fmt.Sprintf(" (limited to %s QPS)", printutils.HighlightSprint(b.Rate))
	}

	if !b.Silent {
		printutils.NeutralFprintf(b.Writer, "Testing %s providers using %s domains and %s rounds%s\n",
			printutils.HighlightSprint(len(b.Providers)), printutils.HighlightSprint(len(b.Plan.Domains)),
			printutils.HighlightSprint(b.Plan.Rounds), limits)
	}

	res := &Result{
		Summaries: make([]Summary, 0, len(b.Providers)),
		RankBy:    b.RankBy,
		Plan:      b.Plan,
		Start:     time.Now(),
	}
	for i, p := range b.Providers {
		if ctx.Err() != nil {
			break
		}
		s, err := b.testProvider(ctx, p, b.endpoints[i], b.resolvers[i], limit)
		if err != nil {
			// canceled while p was tested, its samples are incomplete
			break
		}
		res.Summaries = append(res.Summaries, s)
		b.printProgress(s, b.endpoints[i])
	}
	res.Duration = time.Since(res.Start)

	Rank(res.Summaries, b.RankBy)
	return res, nil
}

func (b *Benchmark) testProvider(ctx context.Context, p Provider, ep endpoint, r Resolver, limit ratelimit.Limiter) (Summary, error) {
	bar := b.progressBar(p)
	t := tester{
		plan:    b.Plan,
		prober:  b.Prober,
		limiter: limit,
		sleep:   b.sleep,
		onSample: func(s Sample) {
			observeSample(p.Name, s)
			if b.requestLogger != nil {
				logSample(b.requestLogger, p.Name, s)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		},
	}

	samples, err := t.run(ctx, ep, r)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return Summary{}, err
	}
	return Summarize(p, b.Plan, samples), nil
}

func (b *Benchmark) progressBar(p Provider) *progressbar.ProgressBar {
	if !b.ProgressBar || b.Silent {
		return nil
	}
	return progressbar.NewOptions(b.Plan.Queries(),
		progressbar.OptionSetWriter(b.Writer),
		progressbar.OptionSetDescription(p.Name),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (b *Benchmark) printProgress(s Summary, ep endpoint) {
	if b.Silent {
		return
	}
	printutils.NeutralFprintf(b.Writer, "Testing %s (%s via %s)... %s %s (success rate %s)\n",
		s.Provider, ep.server, ep.transport,
		printutils.HighlightSprint(printutils.Millis(b.RankBy.Value(s))), b.RankBy, printutils.RateSprint(s.SuccessRate))
}
