package termgath_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/gatherer/termgath"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
	"github.com/stretchr/testify/assert"
)

func TestTerminalGathererProgress(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	g := termgath.New(&buf)
	fam := experiment.Family{Name: "fibonacci", Title: "Fibonacci", Kind: workload.KindSequence}

	g.StartFamily(fam, experiment.Config{Metric: trial.MetricTime, Trials: 3})
	g.ReachParam(fam, 25)
	g.FinishResult(fam, aggregate.Result{
		Algorithm: "Recursive Fibonacci",
		Param:     25,
		Mean:      0.002,
		Samples:   []float64{0.003, 0.003, 0},
		Timeouts:  1,
	})
	start := time.Now()
	g.FinishFamily(&experiment.Outcome{Family: fam, Started: start, Finished: start.Add(1500 * time.Millisecond)})

	out := buf.String()
	assert.Contains(t, out, "== Fibonacci: time, 3 runs per case ==")
	assert.Contains(t, out, "-> Processing term 25")
	assert.Contains(t, out, "Recursive Fibonacci")
	assert.Contains(t, out, "2ms")
	assert.Contains(t, out, "(1/3 timed out)")
	assert.Contains(t, out, "finished in 1.5s")
}
