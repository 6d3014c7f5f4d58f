package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := newApp(godotenv.Load())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("algobench failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// newApp builds the command tree. dotenvErr is reported once logging is set up.
func newApp(dotenvErr error) *cli.Command {
	return &cli.Command{
		Name:  "algobench",
		Usage: "measure and compare the time and memory use of classic algorithms",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				Sources: cli.EnvVars("ALGOBENCH_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "plan file (default: $XDG_CONFIG_HOME/algobench/plan.toml when present)",
				Sources: cli.EnvVars("ALGOBENCH_CONFIG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := setupLogging(cmd.String("log-level")); err != nil {
				return ctx, err
			}
			if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
				slog.Warn("failed to load .env", "error", dotenvErr)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{runCommand(), listCommand(), planCommand()},
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
	return nil
}
