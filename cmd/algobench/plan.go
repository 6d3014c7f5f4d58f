package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/programme-lv/algobench/internal/adapter"
	"github.com/programme-lv/algobench/internal/environment"
	"github.com/programme-lv/algobench/internal/xdg"
)

// loadPlan reads --config, falls back to the XDG plan file and finally to
// the built-in plan.
func loadPlan(cmd *cli.Command) (environment.Plan, error) {
	path := cmd.String("config")
	if path == "" {
		dirs := xdg.New()
		ok, err := dirs.HasPlanFile()
		if err != nil {
			return environment.Plan{}, fmt.Errorf("failed to check for plan file: %w", err)
		}
		if !ok {
			slog.Debug("using built-in plan")
			return environment.DefaultPlan(), nil
		}
		path = dirs.PlanFile()
	}
	slog.Debug("loading plan", "path", path)
	return environment.LoadPlan(path)
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "print the effective plan as TOML",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			plan, err := loadPlan(cmd)
			if err != nil {
				return err
			}
			if err := plan.Validate(); err != nil {
				slog.Warn("plan is not valid", "error", err)
			}
			return plan.Encode(os.Stdout)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list registered algorithms and the families of the plan",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			plan, err := loadPlan(cmd)
			if err != nil {
				return err
			}

			style := table.StyleLight
			if !color.NoColor {
				style = table.StyleColoredDark
			}

			algs := table.NewWriter()
			algs.SetOutputMirror(os.Stdout)
			algs.SetTitle("Algorithms")
			algs.AppendHeader(table.Row{"Key", "Name", "Input", "In place"})
			for _, d := range adapter.All() {
				algs.AppendRow(table.Row{d.Key, d.Name, d.Kind, d.Mutates})
			}
			algs.SetStyle(style)
			algs.Render()

			fams := table.NewWriter()
			fams.SetOutputMirror(os.Stdout)
			fams.SetTitle("Families")
			fams.AppendHeader(table.Row{"Name", "Algorithms", "Time sizes", "Memory sizes"})
			for _, f := range plan.Families {
				fams.AppendRow(table.Row{
					f.Name,
					strings.Join(f.Algorithms, ", "),
					fmt.Sprint(f.TimeSizes),
					fmt.Sprint(f.MemorySizes),
				})
			}
			fams.SetStyle(style)
			fams.Render()
			return nil
		},
	}
}
