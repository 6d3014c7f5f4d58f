// Package experiment drives whole families of algorithms across their
// configured sizes and assembles one result series per algorithm.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/trial"
)

// Series holds one result per parameter for one algorithm, aligned with
// Outcome.Params.
type Series struct {
	Key       string
	Algorithm string
	Results   []aggregate.Result
}

// Values returns the mean of every result in parameter order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Results))
	for i, r := range s.Results {
		values[i] = r.Mean
	}
	return values
}

// Outcome is everything one family run produced.
type Outcome struct {
	Family   Family
	Metric   trial.Metric
	Trials   int
	Params   []int
	Series   []Series
	Started  time.Time
	Finished time.Time
}

// Lookup finds the series of the algorithm with the given key.
func (o *Outcome) Lookup(key string) (Series, bool) {
	for _, s := range o.Series {
		if s.Key == key {
			return s, true
		}
	}
	return Series{}, false
}

// Driver runs families one at a time. It never runs two trials at once.
type Driver struct {
	gen    aggregate.Preparer
	obs    trial.Observer
	gath   Gatherer
	logger *slog.Logger
}

// NewDriver wires a driver. obs is only needed for the memory metric and
// gath may be nil.
func NewDriver(gen aggregate.Preparer, obs trial.Observer, gath Gatherer, logger *slog.Logger) *Driver {
	if gath == nil {
		gath = Gatherers(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{gen: gen, obs: obs, gath: gath, logger: logger}
}

func (d *Driver) Run(ctx context.Context, fam Family, cfg Config) (*Outcome, error) {
	if err := errors.Join(fam.Validate(), cfg.Validate()); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	if cfg.Metric == trial.MetricMemory && d.obs == nil {
		return nil, errors.New("memory metric requires an observer")
	}

	runner := trial.NewRunner(cfg.Metric, cfg.Limits, d.obs, d.logger)
	agg, err := aggregate.New(d.gen, runner, cfg.Trials)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Family:  fam,
		Metric:  cfg.Metric,
		Trials:  cfg.Trials,
		Params:  cfg.Params(),
		Series:  make([]Series, len(fam.Algorithms)),
		Started: time.Now(),
	}
	for i, alg := range fam.Algorithms {
		out.Series[i] = Series{
			Key:       alg.Key,
			Algorithm: alg.Name,
			Results:   make([]aggregate.Result, 0, len(out.Params)),
		}
	}

	d.logger.Info("starting family",
		"family", fam.Name, "metric", cfg.Metric, "trials", cfg.Trials, "sizes", out.Params)
	d.gath.StartFamily(fam, cfg)

	for _, n := range out.Params {
		d.gath.ReachParam(fam, n)
		for i, alg := range fam.Algorithms {
			res, err := agg.Aggregate(ctx, alg, n)
			if err != nil {
				return nil, fmt.Errorf("family %s: %w", fam.Name, err)
			}
			d.logger.Debug("aggregated",
				"algorithm", alg.Key, "n", n, "mean", res.Mean,
				"timeouts", res.Timeouts, "faults", res.Faults)
			out.Series[i].Results = append(out.Series[i].Results, res)
			d.gath.FinishResult(fam, res)
		}
	}

	out.Finished = time.Now()
	d.gath.FinishFamily(out)
	d.logger.Info("finished family",
		"family", fam.Name, "metric", cfg.Metric, "took", out.Finished.Sub(out.Started).Round(time.Millisecond))
	return out, nil
}
