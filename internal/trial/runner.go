// Package trial executes one algorithm once against one prepared input and
// turns the execution into a single sample.
package trial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/programme-lv/algobench/internal/adapter"
	"github.com/programme-lv/algobench/internal/workload"
)

//go:generate mockgen -destination=mocks/observer.go -package=mocks . Observer

// Observer watches resource usage from outside the measured call.
type Observer interface {
	// Start takes a first reading and begins sampling in the background.
	Start() error
	// Stop ends sampling and returns the highest reading in MiB together with
	// the number of readings taken.
	Stop() (peakMiB float64, samples int, err error)
}

// ErrFault wraps a panic raised by the algorithm under measurement.
var ErrFault = errors.New("algorithm fault")

type Runner struct {
	metric Metric
	limits Limits
	obs    Observer
	logger *slog.Logger
}

// NewRunner panics when the memory metric is requested without an observer.
func NewRunner(metric Metric, limits Limits, obs Observer, logger *slog.Logger) *Runner {
	if metric == MetricMemory && obs == nil {
		panic("memory metric requires an observer")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		metric: metric,
		limits: limits,
		obs:    obs,
		logger: logger,
	}
}

type invocation struct {
	elapsed time.Duration
	err     error
}

// Run measures d against in. Inputs of mutating algorithms are copied first,
// so in is left untouched. Timeouts and faults produce a zero sample.
func (r *Runner) Run(ctx context.Context, d adapter.Descriptor, in *workload.Input) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Status: StatusCanceled, Err: err}
	}

	if d.Mutates {
		in = in.Clone()
	}
	if r.metric == MetricMemory {
		// leftovers of earlier trials must not count towards this peak
		runtime.GC()
	}

	tctx, cancel := context.WithTimeout(ctx, r.limits.Timeout)
	defer cancel()

	if r.metric == MetricMemory {
		if err := r.obs.Start(); err != nil {
			return r.fault(d, in, fmt.Errorf("failed to start observer: %w", err))
		}
	}

	done := make(chan invocation, 1)
	go invoke(tctx, d, in, done)

	var res invocation
	timedOut := false
	select {
	case res = <-done:
	case <-tctx.Done():
		timedOut = true
	}

	var (
		peak    float64
		samples int
		obsErr  error
	)
	if r.metric == MetricMemory {
		peak, samples, obsErr = r.obs.Stop()
	}
	if timedOut {
		r.await(done, d, in)
	}

	switch {
	case ctx.Err() != nil:
		return Outcome{Status: StatusCanceled, Err: ctx.Err()}
	case timedOut || errors.Is(res.err, context.DeadlineExceeded):
		r.logger.Warn("trial timed out",
			"algorithm", d.Key, "n", in.N, "timeout", r.limits.Timeout)
		return Outcome{
			Status: StatusTimeout,
			Err:    fmt.Errorf("%s exceeded %s: %w", d.Key, r.limits.Timeout, context.DeadlineExceeded),
		}
	case res.err != nil:
		return r.fault(d, in, res.err)
	case obsErr != nil:
		return r.fault(d, in, fmt.Errorf("failed to stop observer: %w", obsErr))
	}

	if r.metric == MetricMemory {
		if samples == 0 {
			return Outcome{Status: StatusOK}
		}
		return Outcome{Value: peak, Status: StatusOK}
	}
	return Outcome{Value: res.elapsed.Seconds(), Status: StatusOK}
}

func (r *Runner) fault(d adapter.Descriptor, in *workload.Input, err error) Outcome {
	r.logger.Warn("trial failed", "algorithm", d.Key, "n", in.N, "error", err)
	return Outcome{Status: StatusFault, Err: err}
}

// await gives a timed-out invocation the grace period to return.
func (r *Runner) await(done <-chan invocation, d adapter.Descriptor, in *workload.Input) {
	grace := time.NewTimer(r.limits.Grace)
	defer grace.Stop()
	select {
	case <-done:
	case <-grace.C:
		r.logger.Error("abandoning invocation that ignores cancellation",
			"algorithm", d.Key, "n", in.N, "grace", r.limits.Grace)
	}
}

func invoke(ctx context.Context, d adapter.Descriptor, in *workload.Input, done chan<- invocation) {
	defer func() {
		if p := recover(); p != nil {
			done <- invocation{err: fmt.Errorf("%w: %v", ErrFault, p)}
		}
	}()

	start := time.Now()
	_, err := d.Invoke(ctx, in)
	elapsed := time.Since(start)

	done <- invocation{elapsed: elapsed, err: err}
}
