// Package jsonlgath streams driver progress as newline delimited JSON
// messages from the api package.
package jsonlgath

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/programme-lv/algobench/api"
	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/gatherer/respbuilder"
)

type jsonlGatherer struct {
	mu     sync.Mutex
	enc    *json.Encoder
	runID  string
	logger *slog.Logger
}

// New creates a gatherer that writes one message per line to w.
func New(w io.Writer, runID string, logger *slog.Logger) *jsonlGatherer {
	if logger == nil {
		logger = slog.Default()
	}
	return &jsonlGatherer{
		enc:    json.NewEncoder(w),
		runID:  runID,
		logger: logger,
	}
}

func (g *jsonlGatherer) StartFamily(fam experiment.Family, cfg experiment.Config) {
	keys := make([]string, len(fam.Algorithms))
	for i, d := range fam.Algorithms {
		keys[i] = d.Key
	}
	g.send(api.NewStartFamily(g.runID, fam.Name, string(cfg.Metric), cfg.Trials,
		cfg.Params(), keys, cfg.Limits.Timeout))
}

func (g *jsonlGatherer) ReachParam(fam experiment.Family, n int) {
	g.send(api.NewReachParam(g.runID, fam.Name, n))
}

func (g *jsonlGatherer) FinishResult(fam experiment.Family, res aggregate.Result) {
	g.send(api.NewFinishResult(g.runID, fam.Name, res.Key,
		res.Param, res.Mean, res.StdDev, res.Samples, res.Timeouts, res.Faults))
}

func (g *jsonlGatherer) FinishFamily(out *experiment.Outcome) {
	g.send(api.NewFinishFamily(g.runID, respbuilder.FamilyReport(out)))
}

func (g *jsonlGatherer) send(msg any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enc.Encode(msg); err != nil {
		g.logger.Error("failed to write event", "error", err)
	}
}
