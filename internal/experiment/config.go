package experiment

import (
	"errors"
	"fmt"
	"slices"

	"github.com/programme-lv/algobench/internal/adapter"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
)

// Config fixes everything one family run needs besides the algorithms.
type Config struct {
	// Sizes are the parameters N. The driver runs them in ascending order.
	Sizes  []int
	Trials int
	Metric trial.Metric
	Limits trial.Limits
}

func (c Config) Validate() error {
	var errs []error
	if len(c.Sizes) == 0 {
		errs = append(errs, errors.New("no sizes configured"))
	}
	sorted := slices.Sorted(slices.Values(c.Sizes))
	for i, n := range sorted {
		if n < 0 {
			errs = append(errs, fmt.Errorf("size %d is negative", n))
		}
		if i > 0 && sorted[i-1] == n {
			errs = append(errs, fmt.Errorf("size %d is listed twice", n))
		}
	}
	if c.Trials < 1 {
		errs = append(errs, fmt.Errorf("trial count must be positive, got %d", c.Trials))
	}
	if _, err := trial.ParseMetric(string(c.Metric)); err != nil {
		errs = append(errs, err)
	}
	if err := c.Limits.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Params returns the sizes in the order they are measured.
func (c Config) Params() []int {
	return slices.Sorted(slices.Values(c.Sizes))
}

// Family is a group of algorithms compared on the same kind of input.
type Family struct {
	Name       string
	Title      string
	Kind       workload.Kind
	Algorithms []adapter.Descriptor
	// LogScale asks the presentation layer for a logarithmic value axis.
	LogScale bool
}

func (f Family) Validate() error {
	if f.Name == "" {
		return errors.New("family has no name")
	}
	if len(f.Algorithms) == 0 {
		return fmt.Errorf("family %s has no algorithms", f.Name)
	}
	if _, err := workload.ParseKind(string(f.Kind)); err != nil {
		return fmt.Errorf("family %s: %w", f.Name, err)
	}
	seen := make(map[string]bool, len(f.Algorithms))
	for _, d := range f.Algorithms {
		if d.Kind != f.Kind {
			return fmt.Errorf("family %s takes %s inputs but %s takes %s inputs", f.Name, f.Kind, d.Key, d.Kind)
		}
		if seen[d.Key] {
			return fmt.Errorf("family %s lists %s twice", f.Name, d.Key)
		}
		seen[d.Key] = true
	}
	return nil
}
