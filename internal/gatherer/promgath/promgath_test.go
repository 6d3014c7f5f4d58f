package promgath_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/gatherer/promgath"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
)

func TestGathererCountsTrialsByStatus(t *testing.T) {
	g := promgath.New()
	fam := experiment.Family{Name: "fibonacci", Kind: workload.KindSequence}

	g.StartFamily(fam, experiment.Config{Metric: trial.MetricTime})
	g.FinishResult(fam, aggregate.Result{
		Key:       "fib-recursive",
		Algorithm: "Recursive Fibonacci",
		Param:     40,
		Mean:      0.4,
		Samples:   []float64{0.7, 0.5, 0, 0},
		Timeouts:  1,
		Faults:    1,
	})
	now := time.Now()
	g.FinishFamily(&experiment.Outcome{Family: fam, Metric: trial.MetricTime, Started: now, Finished: now})

	reg := g.Registry()
	n, err := testutil.GatherAndCount(reg, "algobench_trials_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = testutil.GatherAndCount(reg, "algobench_trial_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(reg, "algobench_trial_peak_memory_mebibytes")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = testutil.GatherAndCount(reg, "algobench_family_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWriteTextfile(t *testing.T) {
	g := promgath.New()
	fam := experiment.Family{Name: "sorting", Kind: workload.KindSort}
	g.StartFamily(fam, experiment.Config{Metric: trial.MetricMemory})
	g.FinishResult(fam, aggregate.Result{Key: "quick", Algorithm: "Quick Sort", Param: 500, Mean: 1.5, Samples: []float64{1.5}})

	path := filepath.Join(t.TempDir(), "algobench.prom")
	require.NoError(t, g.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `algobench_result_mean{algorithm="quick",family="sorting",metric="memory",param="500"} 1.5`)
	assert.Contains(t, out, `algobench_trials_total{algorithm="quick",family="sorting",metric="memory",status="ok"} 1`)
	assert.Contains(t, out, "algobench_trial_peak_memory_mebibytes_count")
}

func TestObservedSamplesKeepsSuccessfulZeros(t *testing.T) {
	res := aggregate.Result{
		Key:      "quick",
		Samples:  []float64{0, 1.25, 0, 0},
		Timeouts: 1,
		Faults:   1,
	}
	assert.Equal(t, []float64{1.25, 0}, promgath.ObservedSamples(res))

	assert.Equal(t, []float64{0, 0}, promgath.ObservedSamples(aggregate.Result{Samples: []float64{0, 0}}))
}

func TestZeroMemorySampleIsObserved(t *testing.T) {
	g := promgath.New()
	fam := experiment.Family{Name: "search", Kind: workload.KindSearch}
	g.StartFamily(fam, experiment.Config{Metric: trial.MetricMemory})
	g.FinishResult(fam, aggregate.Result{Key: "binary", Param: 1000, Samples: []float64{0, 0.5}})

	path := filepath.Join(t.TempDir(), "algobench.prom")
	require.NoError(t, g.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `algobench_trial_peak_memory_mebibytes_count{algorithm="binary",family="search"} 2`)
}
