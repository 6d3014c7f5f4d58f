package jsonlgath_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/programme-lv/algobench/api"
	"github.com/programme-lv/algobench/internal/adapter"
	"github.com/programme-lv/algobench/internal/aggregate"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/gatherer/jsonlgath"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGathererWritesOneMessagePerLine(t *testing.T) {
	algs, err := adapter.LookupAll([]string{"linear", "binary"})
	require.NoError(t, err)
	fam := experiment.Family{Name: "search", Title: "Search", Kind: workload.KindSearch, Algorithms: algs}
	cfg := experiment.Config{Sizes: []int{2000, 1000}, Trials: 2, Metric: trial.MetricTime, Limits: trial.DefaultLimits()}

	var buf bytes.Buffer
	g := jsonlgath.New(&buf, "run-7", nil)
	g.StartFamily(fam, cfg)
	g.ReachParam(fam, 1000)
	g.FinishResult(fam, aggregate.Result{Key: "binary", Algorithm: "Binary Search", Param: 1000, Mean: 1e-6, Samples: []float64{1e-6, 1e-6}})
	now := time.Now()
	g.FinishFamily(&experiment.Outcome{Family: fam, Metric: trial.MetricTime, Trials: 2, Started: now, Finished: now})

	var lines [][]byte
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		lines = append(lines, append([]byte(nil), sc.Bytes()...))
	}
	require.Len(t, lines, 4)

	var start api.StartFamily
	require.NoError(t, json.Unmarshal(lines[0], &start))
	assert.Equal(t, api.StartFamilyMsg, start.MsgType)
	assert.Equal(t, "run-7", start.RunID)
	assert.Equal(t, []int{1000, 2000}, start.Params)
	assert.Equal(t, []string{"linear", "binary"}, start.Algorithms)
	assert.Equal(t, int64(60000), start.TimeoutMs)

	var reach api.ReachParam
	require.NoError(t, json.Unmarshal(lines[1], &reach))
	assert.Equal(t, api.ReachParamMsg, reach.MsgType)
	assert.Equal(t, 1000, reach.Param)

	var res api.FinishResult
	require.NoError(t, json.Unmarshal(lines[2], &res))
	assert.Equal(t, api.FinishResultMsg, res.MsgType)
	assert.Equal(t, "binary", res.Algorithm)
	assert.Len(t, res.Samples, 2)

	var fin api.FinishFamily
	require.NoError(t, json.Unmarshal(lines[3], &fin))
	assert.Equal(t, api.FinishFamilyMsg, fin.MsgType)
	assert.Equal(t, "search", fin.Report.Family)
	assert.Equal(t, "Input size (n)", fin.Report.XLabel)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestGathererSurvivesWriteErrors(t *testing.T) {
	g := jsonlgath.New(failingWriter{}, "run", nil)
	assert.NotPanics(t, func() {
		g.ReachParam(experiment.Family{Name: "sorting"}, 10)
	})
}
