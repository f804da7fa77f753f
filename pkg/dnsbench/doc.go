/*
Package dnsbench contains functionality for comparing latency and reliability of DNS resolvers.
Each comparison is represented by Benchmark struct that is used to set up the list of providers and the
TestPlan and then execute the comparison using Benchmark.Run. Providers are tested strictly one after another,
each one goes through a warm-up query followed by TestPlan.Rounds passes over TestPlan.Domains.
Every query is preceded by a TCP reachability probe. Collected samples of each provider are reduced by Summarize
and the summaries are ranked in the returned Result.
*/
package dnsbench
