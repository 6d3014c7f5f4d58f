package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/algobench/api"
)

const tinyPlan = `
trials = 2
timeout = "5s"
metrics = ["time"]

[[families]]
name = "fibonacci"
title = "Fibonacci"
algorithms = ["fib-iterative", "fib-recursive"]
time_sizes = [5, 10]
memory_sizes = [5]
log_scale = ["time"]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunWritesChartsEventsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.toml", tinyPlan)
	out := filepath.Join(dir, "out")
	events := filepath.Join(dir, "events.jsonl")
	prom := filepath.Join(dir, "algobench.prom")

	err := newApp(nil).Run(context.Background(), []string{
		"algobench", "--log-level", "warn", "--config", plan,
		"run", "--out", out, "--events", events, "--metrics-textfile", prom,
	})
	require.NoError(t, err)

	charts, err := filepath.Glob(filepath.Join(out, "algobench-*.html"))
	require.NoError(t, err)
	require.Len(t, charts, 1)

	f, err := os.Open(events)
	require.NoError(t, err)
	defer f.Close()
	var types []api.MsgType
	sc := bufio.NewScanner(f)
	sc.Buffer(nil, 1<<20)
	for sc.Scan() {
		var h api.Header
		require.NoError(t, json.Unmarshal(sc.Bytes(), &h))
		types = append(types, h.MsgType)
	}
	require.NotEmpty(t, types)
	assert.Equal(t, api.StartFamilyMsg, types[0])
	assert.Equal(t, api.FinishFamilyMsg, types[len(types)-1])
	// start, 2 params, 2 results each, finish
	assert.Len(t, types, 1+2*(1+2)+1)

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(b), "algobench_trials_total")
}

func TestRunFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.toml", tinyPlan)

	err := newApp(nil).Run(context.Background(), []string{
		"algobench", "--config", plan, "run", "--no-chart", "--family", "sorting",
	})
	require.ErrorContains(t, err, "sorting")

	err = newApp(nil).Run(context.Background(), []string{
		"algobench", "--config", plan, "run", "--no-chart", "--metric", "speed",
	})
	require.ErrorContains(t, err, "speed")

	err = newApp(nil).Run(context.Background(), []string{
		"algobench", "--config", plan, "run", "--no-chart", "--trials", "0",
	})
	require.Error(t, err)
}

func TestPlanAndListCommands(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.toml", tinyPlan)

	require.NoError(t, newApp(nil).Run(context.Background(), []string{"algobench", "--config", plan, "plan"}))
	require.NoError(t, newApp(nil).Run(context.Background(), []string{"algobench", "--config", plan, "list"}))
}

func TestInvalidLogLevel(t *testing.T) {
	err := newApp(nil).Run(context.Background(), []string{"algobench", "--log-level", "loud", "list"})
	require.Error(t, err)
}
