package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/programme-lv/algobench/api"
	"github.com/programme-lv/algobench/internal/environment"
	"github.com/programme-lv/algobench/internal/experiment"
	"github.com/programme-lv/algobench/internal/gatherer/jsonlgath"
	"github.com/programme-lv/algobench/internal/gatherer/promgath"
	"github.com/programme-lv/algobench/internal/gatherer/respbuilder"
	"github.com/programme-lv/algobench/internal/gatherer/termgath"
	"github.com/programme-lv/algobench/internal/memsample"
	"github.com/programme-lv/algobench/internal/render"
	"github.com/programme-lv/algobench/internal/trial"
	"github.com/programme-lv/algobench/internal/workload"
	"github.com/programme-lv/algobench/internal/xdg"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the plan, print result tables and write the chart page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "metric",
				Usage:   "time, memory or both (default: the plan's metrics)",
				Sources: cli.EnvVars("ALGOBENCH_METRIC"),
			},
			&cli.IntFlag{
				Name:    "trials",
				Aliases: []string{"k"},
				Usage:   "runs per (algorithm, size) pair",
				Sources: cli.EnvVars("ALGOBENCH_TRIALS"),
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "limit for a single run",
				Sources: cli.EnvVars("ALGOBENCH_TIMEOUT"),
			},
			&cli.StringSliceFlag{
				Name:  "family",
				Usage: "only run the named families",
			},
			&cli.StringFlag{
				Name:    "memory-source",
				Usage:   "heap or rss",
				Sources: cli.EnvVars("ALGOBENCH_MEMORY_SOURCE"),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "directory for the chart page (default: $XDG_DATA_HOME/algobench)",
				Sources: cli.EnvVars("ALGOBENCH_OUT"),
			},
			&cli.BoolFlag{
				Name:  "no-chart",
				Usage: "skip the HTML chart page",
			},
			&cli.StringFlag{
				Name:  "events",
				Usage: "write JSON-lines progress events to this file, - for stdout",
			},
			&cli.StringFlag{
				Name:    "metrics-textfile",
				Usage:   "write prometheus metrics to this file when done",
				Sources: cli.EnvVars("ALGOBENCH_METRICS_TEXTFILE"),
			},
		},
		Action: run,
	}
}

// applyFlags overrides plan values with the flags that were set.
func applyFlags(cmd *cli.Command, plan *environment.Plan) error {
	if cmd.IsSet("trials") {
		plan.Trials = int(cmd.Int("trials"))
	}
	if cmd.IsSet("timeout") {
		plan.Timeout = environment.Duration(cmd.Duration("timeout"))
	}
	if cmd.IsSet("memory-source") {
		plan.MemorySource = cmd.String("memory-source")
	}
	if cmd.IsSet("metric") {
		switch m := cmd.String("metric"); m {
		case "both":
			plan.Metrics = []string{string(trial.MetricTime), string(trial.MetricMemory)}
		default:
			plan.Metrics = []string{m}
		}
	}
	if names := cmd.StringSlice("family"); len(names) > 0 {
		var fams []environment.FamilyPlan
		for _, name := range names {
			f, ok := plan.Family(name)
			if !ok {
				return fmt.Errorf("family %q is not in the plan", name)
			}
			fams = append(fams, f)
		}
		plan.Families = fams
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	plan, err := loadPlan(cmd)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &plan); err != nil {
		return err
	}
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	metrics, err := plan.RunMetrics()
	if err != nil {
		return err
	}
	source, err := memsample.ParseSource(plan.MemorySource)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := slog.Default().With("run", runID)

	var progress io.Writer = os.Stdout
	builder := respbuilder.New(runID)
	gath := experiment.Gatherers{builder}

	if path := cmd.String("events"); path != "" {
		var w io.Writer = os.Stdout
		if path == "-" {
			progress = os.Stderr
		} else {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create event file: %w", err)
			}
			defer f.Close()
			w = f
		}
		gath = append(gath, jsonlgath.New(w, runID, logger))
	}
	gath = append(gath, termgath.New(progress))

	var prom *promgath.Gatherer
	if cmd.String("metrics-textfile") != "" {
		prom = promgath.New()
		gath = append(gath, prom)
	}

	gen := workload.NewGenerator(plan.ValueSpread)
	sampler := memsample.New(time.Duration(plan.SampleInterval), source.Reader())
	drv := experiment.NewDriver(gen, sampler, gath, logger)

	logger.Info("starting run",
		"families", len(plan.Families), "metrics", metrics, "trials", plan.Trials, "timeout", time.Duration(plan.Timeout))

	var runErr error
	for _, m := range metrics {
		for _, fp := range plan.Families {
			fam, cfg, err := plan.Experiment(fp, m)
			if err != nil {
				return err
			}
			if _, err := drv.Run(ctx, fam, cfg); err != nil {
				runErr = err
				break
			}
		}
		if runErr != nil {
			break
		}
	}

	rep := builder.Report()
	for _, fam := range rep.Families {
		render.Table(progress, fam, !color.NoColor)
	}

	if prom != nil {
		path := cmd.String("metrics-textfile")
		if err := prom.WriteTextfile(path); err != nil {
			logger.Error("failed to write metrics textfile", "path", path, "error", err)
		} else {
			logger.Info("wrote metrics", "path", path)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			logger.Warn("run interrupted, partial results shown", "families", len(rep.Families))
		}
		return runErr
	}

	if cmd.Bool("no-chart") || len(rep.Families) == 0 {
		return nil
	}
	return writeChart(cmd.String("out"), runID, rep, logger)
}

// writeChart renders every family of rep onto one HTML page inside dir.
func writeChart(dir, runID string, rep *api.Report, logger *slog.Logger) error {
	if dir == "" {
		dir = xdg.New().OutputDir()
	}
	if err := xdg.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("algobench-%s.html", runID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render.HTML(f, rep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}
	logger.Info("wrote charts", "path", path)
	return nil
}
