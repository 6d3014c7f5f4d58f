package termgath

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/render"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
)

var (
	bold   = color.New(color.Bold)
	faint  = color.New(color.Faint)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// TerminalGatherer prints human readable progress lines.
type TerminalGatherer struct {
	w       io.Writer
	metric  trial.Metric
	started time.Time
}

func New(w io.Writer) *TerminalGatherer { return &TerminalGatherer{w: w} }

func (t *TerminalGatherer) StartFamily(fam experiment.Family, cfg experiment.Config) {
	t.metric = cfg.Metric
	t.started = time.Now()
	bold.Fprintf(t.w, "== %s: %s, %d runs per case ==\n", fam.Title, cfg.Metric, cfg.Trials)
}

func (t *TerminalGatherer) ReachParam(fam experiment.Family, n int) {
	what := "size"
	if fam.Kind == workload.KindSequence {
		what = "term"
	}
	fmt.Fprintf(t.w, "-> Processing %s %d\n", what, n)
}

func (t *TerminalGatherer) FinishResult(_ experiment.Family, res aggregate.Result) {
	fmt.Fprintf(t.w, "   %-20s %s", res.Algorithm, green.Sprint(t.format(res.Mean)))
	if res.Trials() > 1 {
		faint.Fprintf(t.w, " ± %s", t.format(res.StdDev))
	}
	if res.Timeouts > 0 {
		yellow.Fprintf(t.w, " (%d/%d timed out)", res.Timeouts, res.Trials())
	}
	if res.Faults > 0 {
		red.Fprintf(t.w, " (%d/%d failed)", res.Faults, res.Trials())
	}
	fmt.Fprintln(t.w)
}

func (t *TerminalGatherer) FinishFamily(out *experiment.Outcome) {
	dur := out.Finished.Sub(out.Started).Round(time.Millisecond)
	bold.Fprintf(t.w, "== %s finished in %s ==\n", out.Family.Title, dur)
}

func (t *TerminalGatherer) format(v float64) string {
	return render.FormatValue(t.metric.Unit(), v)
}
