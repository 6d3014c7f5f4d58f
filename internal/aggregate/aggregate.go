// Package aggregate repeats trials and reduces them to one statistic.
package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/programme-lv/algobench/internal/adapter"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
	"gonum.org/v1/gonum/stat"
)

var ErrNoTrials = errors.New("trial count must be positive")

// Preparer builds a fresh input per trial.
type Preparer interface {
	Prepare(kind workload.Kind, n int) (*workload.Input, error)
}

// TrialRunner measures one invocation.
type TrialRunner interface {
	Run(ctx context.Context, d adapter.Descriptor, in *workload.Input) trial.Outcome
}

// Result is the aggregate of exactly Trials samples for one
// (algorithm, parameter) pair. Timed-out and faulted trials are included in
// Samples and in Mean as zeros.
type Result struct {
	// Key is the registry key of the algorithm, Algorithm its display name.
	Key       string
	Algorithm string
	Param     int
	Mean      float64
	StdDev    float64
	Samples   []float64
	Timeouts  int
	Faults    int
}

// Trials is the number of samples behind the result.
func (r Result) Trials() int { return len(r.Samples) }

// Valid is the number of samples that did not fail.
func (r Result) Valid() int { return len(r.Samples) - r.Timeouts - r.Faults }

type Aggregator struct {
	gen    Preparer
	runner TrialRunner
	trials int
}

func New(gen Preparer, runner TrialRunner, trials int) (*Aggregator, error) {
	if trials < 1 {
		return nil, fmt.Errorf("%w: %d", ErrNoTrials, trials)
	}
	return &Aggregator{gen: gen, runner: runner, trials: trials}, nil
}

// Aggregate runs d against n a fixed number of times. Generation errors and
// cancellation abort the batch; every other failure becomes a zero sample.
func (a *Aggregator) Aggregate(ctx context.Context, d adapter.Descriptor, n int) (Result, error) {
	res := Result{
		Key:       d.Key,
		Algorithm: d.Name,
		Param:     n,
		Samples:   make([]float64, 0, a.trials),
	}

	for i := 0; i < a.trials; i++ {
		in, err := a.gen.Prepare(d.Kind, n)
		if err != nil {
			return Result{}, fmt.Errorf("failed to prepare %s input of size %d: %w", d.Kind, n, err)
		}

		out := a.runner.Run(ctx, d, in)
		switch out.Status {
		case trial.StatusCanceled:
			return Result{}, fmt.Errorf("%s n=%d canceled after %d trials: %w", d.Key, n, i, out.Err)
		case trial.StatusTimeout:
			res.Timeouts++
			out.Value = 0
		case trial.StatusFault:
			res.Faults++
			out.Value = 0
		}
		res.Samples = append(res.Samples, out.Value)
	}

	res.Mean, res.StdDev = stat.MeanStdDev(res.Samples, nil)
	if len(res.Samples) < 2 {
		res.StdDev = 0
	}
	return res, nil
}
