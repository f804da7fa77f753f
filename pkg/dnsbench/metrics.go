package dnsbench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dnsQueryDurationMetrics = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resolverbench",
		Name:      "dns_query_duration_seconds",
		Help:      "Duration of successful DNS queries in seconds",
	}, []string{"provider"})

	tcpProbeDurationMetrics = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resolverbench",
		Name:      "tcp_probe_duration_seconds",
		Help:      "Duration of successful TCP reachability probes in seconds",
	}, []string{"provider"})

	queriesTotalMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resolverbench",
		Name:      "queries_total",
		Help:      "The total number of queries by outcome",
	}, []string{"provider", "outcome"})
)

func observeSample(provider string, s Sample) {
	queriesTotalMetrics.WithLabelValues(provider, s.Failure.String()).Inc()
	if s.Failure != TCPUnreachable {
		tcpProbeDurationMetrics.WithLabelValues(provider).Observe(s.Connect.Seconds())
	}
	if s.Failure == Success {
		dnsQueryDurationMetrics.WithLabelValues(provider).Observe(s.Latency.Seconds())
	}
}
