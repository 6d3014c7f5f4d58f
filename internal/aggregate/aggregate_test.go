package aggregate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/programme-lv/algobench/internal/adapter"
	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner replays outcomes in order and records the inputs it saw.
type scriptedRunner struct {
	outcomes []trial.Outcome
	inputs   []*workload.Input
}

func (s *scriptedRunner) Run(_ context.Context, _ adapter.Descriptor, in *workload.Input) trial.Outcome {
	s.inputs = append(s.inputs, in)
	out := s.outcomes[0]
	if len(s.outcomes) > 1 {
		s.outcomes = s.outcomes[1:]
	}
	return out
}

type failingPreparer struct{ err error }

func (f failingPreparer) Prepare(workload.Kind, int) (*workload.Input, error) { return nil, f.err }

func selection(t *testing.T) adapter.Descriptor {
	t.Helper()
	d, err := adapter.Lookup("selection")
	require.NoError(t, err)
	return d
}

func TestAggregateCollectsExactlyKSamples(t *testing.T) {
	for _, k := range []int{1, 2, 20} {
		runner := &scriptedRunner{outcomes: []trial.Outcome{{Value: 2}}}
		agg, err := aggregate.New(workload.NewGenerator(workload.DefaultSpread), runner, k)
		require.NoError(t, err)

		res, err := agg.Aggregate(context.Background(), selection(t), 100)
		require.NoError(t, err)
		assert.Equal(t, k, res.Trials())
		assert.Equal(t, k, res.Valid())
		assert.Equal(t, 2.0, res.Mean)
		assert.Zero(t, res.StdDev)
		assert.Equal(t, "Selection Sort", res.Algorithm)
		assert.Equal(t, "selection", res.Key)
		assert.Equal(t, 100, res.Param)
	}
}

func TestAggregateMeanIncludesSentinels(t *testing.T) {
	runner := &scriptedRunner{outcomes: []trial.Outcome{
		{Value: 3},
		{Status: trial.StatusTimeout, Value: 123},
		{Value: 5},
		{Status: trial.StatusFault},
	}}
	agg, err := aggregate.New(workload.NewGenerator(workload.DefaultSpread), runner, 4)
	require.NoError(t, err)

	res, err := agg.Aggregate(context.Background(), selection(t), 10)
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 0, 5, 0}, res.Samples)
	assert.Equal(t, 1, res.Timeouts)
	assert.Equal(t, 1, res.Faults)
	assert.Equal(t, 2, res.Valid())
	assert.InDelta(t, (3.0+5.0)/4.0, res.Mean, 1e-12)
}

func TestAggregatePreparesFreshInputPerTrial(t *testing.T) {
	runner := &scriptedRunner{outcomes: []trial.Outcome{{Value: 1}}}
	agg, err := aggregate.New(workload.NewGenerator(workload.DefaultSpread), runner, 5)
	require.NoError(t, err)

	_, err = agg.Aggregate(context.Background(), selection(t), 50)
	require.NoError(t, err)
	require.Len(t, runner.inputs, 5)
	for i := range runner.inputs {
		require.Len(t, runner.inputs[i].Values, 50)
		for j := i + 1; j < len(runner.inputs); j++ {
			require.NotSame(t, &runner.inputs[i].Values[0], &runner.inputs[j].Values[0])
		}
	}
}

func TestAggregateStopsOnGenerationError(t *testing.T) {
	boom := errors.New("population too small")
	runner := &scriptedRunner{outcomes: []trial.Outcome{{Value: 1}}}
	agg, err := aggregate.New(failingPreparer{err: boom}, runner, 3)
	require.NoError(t, err)

	_, err = agg.Aggregate(context.Background(), selection(t), 10)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, runner.inputs)
}

func TestAggregateStopsOnCancellation(t *testing.T) {
	runner := &scriptedRunner{outcomes: []trial.Outcome{
		{Value: 1},
		{Status: trial.StatusCanceled, Err: context.Canceled},
	}}
	agg, err := aggregate.New(workload.NewGenerator(workload.DefaultSpread), runner, 5)
	require.NoError(t, err)

	_, err = agg.Aggregate(context.Background(), selection(t), 10)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAggregateWithRealRunnerAndTimeout(t *testing.T) {
	d, err := adapter.Lookup("fib-recursive")
	require.NoError(t, err)

	limits := trial.Limits{Timeout: 20 * time.Millisecond, Grace: time.Second, SampleInterval: time.Millisecond}
	runner := trial.NewRunner(trial.MetricTime, limits, nil, nil)
	agg, err := aggregate.New(workload.NewGenerator(workload.DefaultSpread), runner, 3)
	require.NoError(t, err)

	res, err := agg.Aggregate(context.Background(), d, 80)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Timeouts)
	assert.Equal(t, []float64{0, 0, 0}, res.Samples)
	assert.Zero(t, res.Mean)
}

func TestNewRejectsNonPositiveTrials(t *testing.T) {
	_, err := aggregate.New(workload.NewGenerator(1), &scriptedRunner{}, 0)
	require.ErrorIs(t, err, aggregate.ErrNoTrials)
}
