package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tantalor93/resolverbench/internal/sysutil"
	"github.com/tantalor93/resolverbench/pkg/dnsbench"
	"github.com/tantalor93/resolverbench/pkg/printutils"
	"github.com/tantalor93/resolverbench/pkg/reporter"
)

var (
	// Version is set during release of project during build process.
	Version = "development"
)

var client = http.Client{
	Timeout: 120 * time.Second,
}

var (
	pApp = kingpin.New("resolverbench", "Compares latency and reliability of public DNS resolvers.")

	benchmark dnsbench.Benchmark

	providers      []string
	domains        []string
	rankBy         string
	prometheusAddr string
	wait           bool
	system         bool
)

func init() {
	pApp.Flag("provider", "DNS provider to test in the name=address format. Repeatable flag, providers are tested in the given order. "+
		"The address is an IP address with optional port, for example 'Google=8.8.8.8' or 'Local=[fddd:dddd::]:5353'. "+
		"DoH (DNS over HTTPS) providers are supported such as 'Cloudflare=https://1.1.1.1/dns-query', DoQ (DNS over QUIC) providers "+
		"are supported such as 'AdGuard=quic://dns.adguard-dns.com'. When no provider is specified, a built-in list of public resolvers is tested.").
		Short('p').PlaceHolder("name=address").StringsVar(&providers)

	pApp.Flag("system", "Test also the name server configured in the operating system, it is appended to the tested providers.").
		Default("false").BoolVar(&system)

	pApp.Flag("rounds", "How many times all the domains are queried against each provider.").
		Short('n').Default(strconv.Itoa(dnsbench.DefaultRounds)).IntVar(&benchmark.Plan.Rounds)

	pApp.Flag("timeout", "Upper bound of each TCP probe and each DNS query. Providers without any successful query report this value as their latency.").
		Default(dnsbench.DefaultTimeout.String()).DurationVar(&benchmark.Plan.Timeout)

	pApp.Flag("query-delay", "Pause after each query, to avoid rate limiting by the provider.").
		Default(dnsbench.DefaultQueryDelay.String()).DurationVar(&benchmark.Plan.QueryDelay)

	pApp.Flag("round-delay", "Cooldown between two rounds.").
		Default(dnsbench.DefaultRoundDelay.String()).DurationVar(&benchmark.Plan.RoundDelay)

	pApp.Flag("warmup-domain", "Domain queried before the measured rounds of each provider, its result is not recorded.").
		Default(dnsbench.DefaultWarmupDomain).StringVar(&benchmark.Plan.WarmupDomain)

	pApp.Flag("rank-by", "Statistic used to rank the providers. Supported values: median, avg.").
		Default(string(dnsbench.DefaultRankBy)).EnumVar(&rankBy, string(dnsbench.RankByMedian), string(dnsbench.RankByAvg))

	pApp.Flag("rate-limit", "Apply a global questions / second rate limit on top of the query delay.").
		Short('l').Default("0").IntVar(&benchmark.Rate)

	pApp.Flag("tcp", "Use TCP for plain DNS requests.").Default("false").BoolVar(&benchmark.TCP)

	pApp.Flag("dot", "Use DoT (DNS over TLS) for plain DNS providers.").Default("false").BoolVar(&benchmark.DOT)

	pApp.Flag("doh-method", "HTTP method to use for DoH requests. Supported values: get, post.").
		Default(dnsbench.PostHTTPMethod).EnumVar(&benchmark.DohMethod, dnsbench.GetHTTPMethod, dnsbench.PostHTTPMethod)

	pApp.Flag("doh-protocol", "HTTP protocol to use for DoH requests. Supported values: 1.1, 2 and 3.").
		Default(dnsbench.HTTP1Proto).EnumVar(&benchmark.DohProtocol, dnsbench.HTTP1Proto, dnsbench.HTTP2Proto, dnsbench.HTTP3Proto)

	pApp.Flag("insecure", "Disables server TLS certificate validation. Applicable for DoT, DoH and DoQ.").
		Default("false").BoolVar(&benchmark.Insecure)

	pApp.Flag("distribution", "Display latency distribution of each provider.").
		Default("false").BoolVar(&benchmark.HistDisplay)

	pApp.Flag("csv", "Export provider summaries to CSV.").
		Default("").PlaceHolder("/path/to/file.csv").StringVar(&benchmark.Csv)

	pApp.Flag("json", "Report results as JSON.").BoolVar(&benchmark.JSON)

	pApp.Flag("silent", "Disable stdout.").Default("false").BoolVar(&benchmark.Silent)

	pApp.Flag("color", "ANSI Color output. Enabled by default.").
		Default("true").BoolVar(&benchmark.Color)

	pApp.Flag("progress", "Show progress bar while a provider is tested. Enabled by default when stdout is a terminal.").
		Default(strconv.FormatBool(sysutil.IsTerminal(os.Stdout))).BoolVar(&benchmark.ProgressBar)

	pApp.Flag("plot", "Plot results and export them to the directory.").
		Default("").PlaceHolder("/path/to/folder").StringVar(&benchmark.PlotDir)

	pApp.Flag("plotf", "Format of graphs. Supported formats: png, jpg, svg, pdf.").
		Default(dnsbench.DefaultPlotFormat).EnumVar(&benchmark.PlotFormat, "png", "jpg", "svg", "pdf")

	pApp.Flag("log-requests", "Log every query into file.").
		Default("false").BoolVar(&benchmark.RequestLogEnabled)

	pApp.Flag("log-requests-path", "Path to the file, where the queries are logged.").
		Default(dnsbench.DefaultRequestLogPath).StringVar(&benchmark.RequestLogPath)

	pApp.Flag("prometheus", "Enables Prometheus metrics endpoint on the specified address. For example :8080 or localhost:8080.").
		Default("").StringVar(&prometheusAddr)

	pApp.Flag("wait", "Wait for Enter before exiting.").Default("false").BoolVar(&wait)

	pApp.Arg("domains", "Domains to query. It can be a local file referenced using @<file-path>, with one domain per line. "+
		"It can also be resource accessible using HTTP, like https://raw.githubusercontent.com/Tantalor93/dnspyre/master/data/2-domains, in that "+
		"case, the file will be downloaded and saved in-memory. When no domain is specified, a built-in list of popular domains is used.").
		StringsVar(&domains)
}

// Execute starts main logic of command.
func Execute() {
	pApp.Version(Version)
	pApp.DefaultEnvars()
	kingpin.MustParse(pApp.Parse(os.Args[1:]))

	if err := configure(); err != nil {
		printutils.ErrFprintf(os.Stderr, "Invalid configuration: %s\n", err.Error())
		os.Exit(1)
	}

	if prometheusAddr != "" {
		server := servePrometheus(prometheusAddr)
		defer server.Close()
	}

	sigsInt := make(chan os.Signal, 8)
	signal.Notify(sigsInt, syscall.SIGINT)

	defer close(sigsInt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_, ok := <-sigsInt
		if !ok {
			// standard exit based on channel close
			return
		}
		fmt.Fprintf(os.Stderr, "\nCancelling benchmark ^C, again to terminate now.\n")
		cancel()
		<-sigsInt
		os.Exit(1)
	}()

	res, err := benchmark.Run(ctx)
	if err != nil {
		printutils.ErrFprintf(os.Stderr, "There was an error while starting benchmark: %s\n", err.Error())
		os.Exit(1)
	}
	if err := reporter.PrintReport(&benchmark, res); err != nil {
		printutils.ErrFprintf(os.Stderr, "There was an error while printing report: %s\n", err.Error())
	}

	if wait {
		fmt.Fprint(os.Stderr, "\nPress Enter to exit...")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	}
}

func configure() error {
	benchmark.RankBy = dnsbench.RankKey(rankBy)

	if len(providers) == 0 {
		benchmark.Providers = dnsbench.DefaultProviders()
	} else {
		benchmark.Providers = make([]dnsbench.Provider, 0, len(providers))
		for _, p := range providers {
			provider, err := dnsbench.ParseProvider(p)
			if err != nil {
				return err
			}
			benchmark.Providers = append(benchmark.Providers, provider)
		}
	}
	if system {
		benchmark.Providers = append(benchmark.Providers, dnsbench.SystemProvider())
	}

	d, err := loadDomains(domains)
	if err != nil {
		return err
	}
	benchmark.Plan.Domains = d
	return nil
}

func loadDomains(sources []string) ([]string, error) {
	if len(sources) == 0 {
		return dnsbench.DefaultDomains(), nil
	}
	var res []string
	for _, s := range sources {
		if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
			res = append(res, s)
			continue
		}
		downloaded, err := download(s)
		if err != nil {
			return nil, err
		}
		res = append(res, downloaded...)
	}
	return res, nil
}

func download(url string) ([]string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file '%s' with error '%v'", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download file '%s' with status '%s'", url, resp.Status)
	}
	var res []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		res = append(res, line)
	}
	return res, scanner.Err()
}

func servePrometheus(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 3 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			printutils.ErrFprintf(os.Stderr, "Failed to start Prometheus metrics endpoint: %s\n", err.Error())
		}
	}()
	return server
}
