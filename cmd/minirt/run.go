package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/b97tsk/minirt"
	"github.com/b97tsk/minirt/internal/config"
	"github.com/b97tsk/minirt/internal/logging"
)

var (
	runConfigPath string
	runCapacity   uint64
	runLogLevel   string
	runLogFormat  string
	runTimers     []string
)

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "workload file (.toml, .yaml or .yml)")
	runCmd.Flags().Uint64Var(&runCapacity, "capacity", 0, "run queue capacity (overrides the config file)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "log level: debug, info, warn, error")
	runCmd.Flags().StringVar(&runLogFormat, "log-format", "", "log format: text or json")
	runCmd.Flags().StringArrayVar(&runTimers, "timer", nil, "timer as name=ms; repeatable, replaces configured timers")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Spawn timer tasks and report their completion order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}

		if err := applyColorMode(cmd); err != nil {
			return err
		}

		logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

		report, err := runWorkload(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		renderReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("capacity") {
		cfg.Capacity = runCapacity
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = runLogFormat
	}
	if len(runTimers) != 0 {
		cfg.Timers = cfg.Timers[:0:0]
		for _, s := range runTimers {
			t, err := config.ParseTimer(s)
			if err != nil {
				return config.Config{}, err
			}
			cfg.Timers = append(cfg.Timers, t)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch strings.ToLower(mode) {
	case "auto":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
	return nil
}

type completion struct {
	Name    string
	Delay   time.Duration
	Elapsed time.Duration
}

type report struct {
	Completions []completion
	Stats       minirt.Stats
}

// runWorkload spawns one task per timer from a producer goroutine while the
// executor runs, and collects completions in the order they happen.
func runWorkload(ctx context.Context, cfg config.Config, logger *slog.Logger) (report, error) {
	capacity, err := cfg.QueueCapacity()
	if err != nil {
		return report{}, err
	}

	executor, spawner := minirt.NewExecutorAndSpawner(
		minirt.WithCapacity(capacity),
		minirt.WithLogger(logger),
	)

	start := time.Now()

	// Appended only by futures, that is, on the executor goroutine.
	var completions []completion

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer spawner.Close()
		for _, t := range cfg.Timers {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := t.Delay()
			if err != nil {
				return err
			}
			spawner.Spawn(minirt.Then(
				minirt.NewTimerFuture(d),
				minirt.Do(func() {
					completions = append(completions, completion{Name: t.Name, Delay: d, Elapsed: time.Since(start)})
				}),
			))
			logger.Debug("timer spawned", "name", t.Name, "delay", d)
		}
		return nil
	})

	g.Go(func() error {
		executor.Run()
		return nil
	})

	if err := g.Wait(); err != nil {
		return report{}, fmt.Errorf("run workload: %w", err)
	}

	stats := executor.Stats()
	logger.Info("workload finished",
		"tasks", stats.Spawned,
		"polls", stats.Polls,
		"stale_wakes", stats.StaleWakes,
		"elapsed", time.Since(start),
	)

	return report{Completions: completions, Stats: stats}, nil
}

var (
	rankColor  = color.New(color.FgCyan, color.Bold)
	nameColor  = color.New(color.FgGreen)
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	faintColor = color.New(color.Faint)
)

func renderReport(w io.Writer, r report) {
	for i, c := range r.Completions {
		rankColor.Fprintf(w, "%2d. ", i+1)
		nameColor.Fprintf(w, "%-12s", c.Name)
		fmt.Fprintf(w, " delay %-8v", c.Delay)
		faintColor.Fprintf(w, " elapsed %v\n", c.Elapsed.Round(100*time.Microsecond))
	}

	if inDelayOrder(r.Completions) {
		okColor.Fprintln(w, "completion order matches delays")
	} else {
		warnColor.Fprintln(w, "completion order differs from delays")
	}

	faintColor.Fprintf(w, "tasks %d, polls %d, stale wakes %d\n", r.Stats.Spawned, r.Stats.Polls, r.Stats.StaleWakes)
}

func inDelayOrder(cs []completion) bool {
	return slices.IsSortedFunc(cs, func(a, b completion) int {
		return cmp.Compare(a.Delay, b.Delay)
	})
}
