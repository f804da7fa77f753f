package dnsbench

import (
	"context"
	"errors"
	"time"

	"go.uber.org/ratelimit"
)

var errUnreachable = errors.New("resolver is not reachable over TCP")

// tester drives a single provider through the TestPlan.
type tester struct {
	plan    TestPlan
	prober  Prober
	limiter ratelimit.Limiter
	sleep   func(context.Context, time.Duration) error
	// onSample is called with each sample right after it is recorded.
	onSample func(Sample)
}

// run executes warm-up query and all rounds sequentially. Failed queries are recorded and never stop the run,
// only cancellation of ctx does, in that case samples collected so far are returned together with the ctx error.
func (t *tester) run(ctx context.Context, ep endpoint, r Resolver) ([]Sample, error) {
	// warm-up, its result is never recorded
	_ = t.resolve(ctx, r, t.plan.WarmupDomain)
	if err := t.sleep(ctx, t.plan.QueryDelay); err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, t.plan.Queries())
	for round := 1; round <= t.plan.Rounds; round++ {
		for _, domain := range t.plan.Domains {
			if err := ctx.Err(); err != nil {
				return samples, err
			}
			if t.limiter != nil {
				t.limiter.Take()
			}

			s := t.query(ctx, ep, r, round, domain)
			samples = append(samples, s)
			if t.onSample != nil {
				t.onSample(s)
			}

			if err := t.sleep(ctx, t.plan.QueryDelay); err != nil {
				return samples, err
			}
		}
		if round < t.plan.Rounds {
			if err := t.sleep(ctx, t.plan.RoundDelay); err != nil {
				return samples, err
			}
		}
	}
	return samples, nil
}

func (t *tester) query(ctx context.Context, ep endpoint, r Resolver, round int, domain string) Sample {
	s := Sample{Round: round, Domain: domain, Start: time.Now()}

	connect, ok := t.prober.Probe(ctx, ep.probeAddr, t.plan.Timeout)
	if !ok {
		s.Failure = TCPUnreachable
		s.Err = errUnreachable
		return s
	}
	s.Connect = connect

	start := time.Now()
	err := t.resolve(ctx, r, domain)
	s.Latency = time.Since(start)
	if err != nil {
		s.Failure = ResolutionError
		s.Err = err
	}
	return s
}

func (t *tester) resolve(ctx context.Context, r Resolver, domain string) error {
	ctx, cancel := context.WithTimeout(ctx, t.plan.Timeout)
	defer cancel()
	_, err := r.Resolve(ctx, domain)
	return err
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
