// Package environment loads the benchmark plan: which families run, on
// which sizes, with which limits.
package environment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/programme-lv/algobench/internal/adapter"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/memsample"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
)

// Duration is a time.Duration written as "60s" or "10ms" in plan files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// FamilyPlan maps to [[families]] entries.
type FamilyPlan struct {
	Name        string   `toml:"name"`
	Title       string   `toml:"title"`
	Algorithms  []string `toml:"algorithms"`
	TimeSizes   []int    `toml:"time_sizes"`
	MemorySizes []int    `toml:"memory_sizes"`
	// LogScale lists the metrics whose charts use a logarithmic value axis.
	LogScale []string `toml:"log_scale"`
}

// Plan is the whole benchmark configuration.
type Plan struct {
	Trials         int      `toml:"trials"`
	Timeout        Duration `toml:"timeout"`
	Grace          Duration `toml:"grace"`
	SampleInterval Duration `toml:"sample_interval"`
	ValueSpread    int      `toml:"value_spread"`
	MemorySource   string   `toml:"memory_source"`
	Metrics        []string `toml:"metrics"`

	Families []FamilyPlan `toml:"families"`
}

func steps(from, to, step int) []int {
	var res []int
	for n := from; n <= to; n += step {
		res = append(res, n)
	}
	return res
}

// DefaultPlan reproduces the classic comparison of sorts, searches and
// Fibonacci implementations.
func DefaultPlan() Plan {
	limits := trial.DefaultLimits()
	return Plan{
		Trials:         20,
		Timeout:        Duration(limits.Timeout),
		Grace:          Duration(limits.Grace),
		SampleInterval: Duration(limits.SampleInterval),
		ValueSpread:    workload.DefaultSpread,
		MemorySource:   string(memsample.SourceHeap),
		Metrics:        []string{string(trial.MetricTime), string(trial.MetricMemory)},
		Families: []FamilyPlan{
			{
				Name:        "sorting",
				Title:       "Sorting",
				Algorithms:  []string{"insertion", "quick", "selection"},
				TimeSizes:   []int{500, 1000, 1500},
				MemorySizes: []int{500, 1000, 1500},
				LogScale:    []string{string(trial.MetricMemory)},
			},
			{
				Name:        "search",
				Title:       "Linear vs Binary Search",
				Algorithms:  []string{"linear", "binary"},
				TimeSizes:   steps(1000, 5000, 1000),
				MemorySizes: []int{1000, 2000, 3000},
				LogScale:    []string{string(trial.MetricMemory)},
			},
			{
				Name:        "fibonacci",
				Title:       "Iterative vs Recursive Fibonacci",
				Algorithms:  []string{"fib-iterative", "fib-recursive"},
				TimeSizes:   steps(5, 25, 5),
				MemorySizes: steps(10, 30, 5),
				LogScale:    []string{string(trial.MetricTime), string(trial.MetricMemory)},
			},
		},
	}
}

// LoadPlan reads a TOML plan. Keys missing from the file keep their
// DefaultPlan values; a file with families replaces the default families.
func LoadPlan(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()

	plan := DefaultPlan()
	plan.Families = nil
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&plan); err != nil {
		return Plan{}, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	if plan.Families == nil {
		plan.Families = DefaultPlan().Families
	}
	return plan, nil
}

// Encode writes the plan as TOML.
func (p Plan) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(p)
}

func (p Plan) Limits() trial.Limits {
	return trial.Limits{
		Timeout:        time.Duration(p.Timeout),
		Grace:          time.Duration(p.Grace),
		SampleInterval: time.Duration(p.SampleInterval),
	}
}

// RunMetrics returns the configured metrics in order.
func (p Plan) RunMetrics() ([]trial.Metric, error) {
	res := make([]trial.Metric, 0, len(p.Metrics))
	for _, s := range p.Metrics {
		m, err := trial.ParseMetric(s)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

// Family finds a family plan by name.
func (p Plan) Family(name string) (FamilyPlan, bool) {
	for _, f := range p.Families {
		if f.Name == name {
			return f, true
		}
	}
	return FamilyPlan{}, false
}

// Experiment resolves the family's algorithms and returns everything the
// driver needs to measure it under m.
func (p Plan) Experiment(fp FamilyPlan, m trial.Metric) (experiment.Family, experiment.Config, error) {
	algs, err := adapter.LookupAll(fp.Algorithms)
	if err != nil {
		return experiment.Family{}, experiment.Config{}, fmt.Errorf("family %s: %w", fp.Name, err)
	}
	var kind workload.Kind
	if len(algs) > 0 {
		kind = algs[0].Kind
	}
	title := fp.Title
	if title == "" {
		title = fp.Name
	}
	fam := experiment.Family{
		Name:       fp.Name,
		Title:      title,
		Kind:       kind,
		Algorithms: algs,
		LogScale:   slices.Contains(fp.LogScale, string(m)),
	}
	sizes := fp.TimeSizes
	if m == trial.MetricMemory {
		sizes = fp.MemorySizes
	}
	cfg := experiment.Config{
		Sizes:  sizes,
		Trials: p.Trials,
		Metric: m,
		Limits: p.Limits(),
	}
	return fam, cfg, nil
}

// Validate checks the plan as a whole, including every family under every
// configured metric.
func (p Plan) Validate() error {
	var errs []error
	if p.ValueSpread < 1 {
		errs = append(errs, fmt.Errorf("value spread must be at least 1, got %d", p.ValueSpread))
	}
	if _, err := memsample.ParseSource(p.MemorySource); err != nil {
		errs = append(errs, err)
	}
	var metrics []trial.Metric
	for _, s := range p.Metrics {
		m, err := trial.ParseMetric(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		metrics = append(metrics, m)
	}
	if len(p.Metrics) == 0 {
		errs = append(errs, errors.New("no metrics configured"))
	}
	if len(p.Families) == 0 {
		errs = append(errs, errors.New("no families configured"))
	}

	seen := make(map[string]bool, len(p.Families))
	for _, fp := range p.Families {
		if seen[fp.Name] {
			errs = append(errs, fmt.Errorf("family %s is listed twice", fp.Name))
		}
		seen[fp.Name] = true
		for _, s := range fp.LogScale {
			if _, err := trial.ParseMetric(s); err != nil {
				errs = append(errs, fmt.Errorf("family %s: log_scale: %w", fp.Name, err))
			}
		}
		for _, m := range metrics {
			fam, cfg, err := p.Experiment(fp, m)
			if err == nil {
				err = errors.Join(fam.Validate(), cfg.Validate())
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", fp.Name, m, err))
			}
		}
	}
	return errors.Join(errs...)
}
