package respbuilder

import (
	"fmt"
	"runtime"
	"time"

	"github.com/programme-lv/algobench/api"
	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
)

// Builder gathers finished families and builds a complete api.Report.
type Builder struct {
	runID      string
	systemInfo string

	started  time.Time
	finished *time.Time

	families []api.FamilyReport
}

func New(runID string) *Builder {
	return &Builder{
		runID:      runID,
		systemInfo: SystemInfo(),
		started:    time.Now(),
	}
}

// StartFamily implements experiment.Gatherer.
func (b *Builder) StartFamily(experiment.Family, experiment.Config) {}

// ReachParam implements experiment.Gatherer.
func (b *Builder) ReachParam(experiment.Family, int) {}

// FinishResult implements experiment.Gatherer.
func (b *Builder) FinishResult(experiment.Family, aggregate.Result) {}

// FinishFamily implements experiment.Gatherer.
func (b *Builder) FinishFamily(out *experiment.Outcome) {
	b.families = append(b.families, FamilyReport(out))
	now := time.Now()
	b.finished = &now
}

// Report builds the api.Report from gathered families.
func (b *Builder) Report() *api.Report {
	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}
	info := b.systemInfo
	return &api.Report{
		RunID:       b.runID,
		Families:    b.families,
		StartTime:   start,
		FinishTime:  finish,
		TotalTimeMs: total,
		SystemInfo:  &info,
	}
}

// FamilyReport converts one driver outcome into its presentation form.
func FamilyReport(out *experiment.Outcome) api.FamilyReport {
	rep := api.FamilyReport{
		Family:     out.Family.Name,
		Metric:     string(out.Metric),
		Unit:       out.Metric.Unit(),
		Trials:     out.Trials,
		Title:      Title(out.Family.Title, out.Metric, out.Trials),
		XLabel:     XLabel(out.Family.Kind),
		YLabel:     YLabel(out.Metric),
		LogScale:   out.Family.LogScale,
		Params:     out.Params,
		Series:     make([]api.Series, len(out.Series)),
		StartTime:  out.Started.Format(time.RFC3339),
		FinishTime: out.Finished.Format(time.RFC3339),
	}
	for i, s := range out.Series {
		series := api.Series{
			Algorithm: s.Algorithm,
			Values:    s.Values(),
			StdDevs:   make([]float64, len(s.Results)),
			Timeouts:  make([]int, len(s.Results)),
			Faults:    make([]int, len(s.Results)),
		}
		for j, r := range s.Results {
			series.StdDevs[j] = r.StdDev
			series.Timeouts[j] = r.Timeouts
			series.Faults[j] = r.Faults
		}
		rep.Series[i] = series
	}
	return rep
}

func Title(family string, m trial.Metric, trials int) string {
	what := "Execution time"
	if m == trial.MetricMemory {
		what = "Peak memory usage"
	}
	return fmt.Sprintf("%s: %s (mean of %d runs)", family, what, trials)
}

func XLabel(kind workload.Kind) string {
	if kind == workload.KindSequence {
		return "Fibonacci term (n)"
	}
	return "Input size (n)"
}

func YLabel(m trial.Metric) string {
	if m == trial.MetricMemory {
		return "Mean peak memory (MiB)"
	}
	return "Mean time (s)"
}

// SystemInfo describes the host the measurements were taken on.
func SystemInfo() string {
	return fmt.Sprintf("%s/%s, %d CPUs, %s", runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), runtime.Version())
}
