// Package promgath records trial statistics in a private prometheus
// registry that can be dumped in the node_exporter textfile format.
package promgath

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/trial"
)

type Gatherer struct {
	reg    *prometheus.Registry
	metric trial.Metric

	trialsTotal *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	peakMemory  *prometheus.HistogramVec
	resultMean  *prometheus.GaugeVec
	familyRuns  *prometheus.CounterVec
}

func New() *Gatherer {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Gatherer{
		reg: reg,
		// trialsTotal counts trials by outcome
		trialsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algobench_trials_total",
			Help: "Total trials by family, algorithm, metric and status",
		}, []string{"family", "algorithm", "metric", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "algobench_trial_duration_seconds",
			Help:    "Wall-clock time of successful trials",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14), // 1µs to ~67s
		}, []string{"family", "algorithm"}),
		peakMemory: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "algobench_trial_peak_memory_mebibytes",
			Help:    "Peak memory of successful trials",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
		}, []string{"family", "algorithm"}),
		resultMean: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "algobench_result_mean",
			Help: "Mean of all trials for one parameter, sentinels included",
		}, []string{"family", "algorithm", "metric", "param"}),
		familyRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algobench_family_runs_total",
			Help: "Completed family runs by metric",
		}, []string{"family", "metric"}),
	}
}

// Registry exposes the underlying registry.
func (g *Gatherer) Registry() *prometheus.Registry { return g.reg }

func (g *Gatherer) StartFamily(_ experiment.Family, cfg experiment.Config) {
	g.metric = cfg.Metric
}

func (g *Gatherer) ReachParam(experiment.Family, int) {}

func (g *Gatherer) FinishResult(fam experiment.Family, res aggregate.Result) {
	metric := string(g.metric)
	g.trialsTotal.WithLabelValues(fam.Name, res.Key, metric, trial.StatusOK.String()).Add(float64(res.Valid()))
	g.trialsTotal.WithLabelValues(fam.Name, res.Key, metric, trial.StatusTimeout.String()).Add(float64(res.Timeouts))
	g.trialsTotal.WithLabelValues(fam.Name, res.Key, metric, trial.StatusFault.String()).Add(float64(res.Faults))
	g.resultMean.WithLabelValues(fam.Name, res.Key, metric, strconv.Itoa(res.Param)).Set(res.Mean)

	hist := g.duration
	if g.metric == trial.MetricMemory {
		hist = g.peakMemory
	}
	obs := hist.WithLabelValues(fam.Name, res.Key)
	for _, v := range ObservedSamples(res) {
		obs.Observe(v)
	}
}

func (g *Gatherer) FinishFamily(out *experiment.Outcome) {
	g.familyRuns.WithLabelValues(out.Family.Name, string(out.Metric)).Inc()
}

// WriteTextfile writes every collected metric to path.
func (g *Gatherer) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, g.reg)
}

// ObservedSamples drops one zero per timed-out or faulted trial. Zeros of
// successful trials are kept.
func ObservedSamples(res aggregate.Result) []float64 {
	sentinels := res.Timeouts + res.Faults
	out := make([]float64, 0, len(res.Samples))
	for _, v := range res.Samples {
		if v == 0 && sentinels > 0 {
			sentinels--
			continue
		}
		out = append(out, v)
	}
	return out
}
