package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"dprisk/config"
	"dprisk/game"
	"dprisk/logging"
	"dprisk/outcome"
	"dprisk/report"
	"dprisk/simulator"
	"dprisk/solver"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const usage = `usage: dprisk [flags] attackers defenders [samples]

Writes the (attackers+1) x (defenders+1) table of attacker win
probabilities to standard output, one row per attacker count. With
samples, also simulates that many battles and reports the estimate.

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("dprisk", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	configPath := flags.String("config", "", "Path to a YAML config file")
	flags.Int("goroutines", 0, "Number of goroutines for parallel simulation")
	flags.Uint64("seed", 0, "Base seed of the simulation (0 = time based)")
	flags.Int("precision", 0, "Significant digits per table value")
	flags.Bool("table", true, "Write the win probability table")
	flags.Bool("verbose", false, "Log the per-round outcome distributions")
	flags.Bool("check", false, "Verify table invariants before writing it")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if flags.NArg() < 2 && *configPath == "" {
		fmt.Fprintln(stderr, "dprisk: attackers and defenders are required without -config")
		flags.Usage()
		return 1
	}

	v, err := config.New(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "dprisk: %v\n", err)
		return 1
	}
	if err := applyArgs(v, flags); err != nil {
		fmt.Fprintf(stderr, "dprisk: %v\n", err)
		flags.Usage()
		return 2
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		fmt.Fprintf(stderr, "dprisk: %v\n", err)
		return 1
	}

	logger := logging.Setup(cfg.Logging, stderr)
	if err := execute(ctx, cfg, stdout, stderr); err != nil {
		logger.Error().Err(err).Msg("dprisk failed")
		return 1
	}
	return 0
}

// applyArgs copies explicitly set flags and the positional battle
// arguments over the configured values.
func applyArgs(v *viper.Viper, flags *flag.FlagSet) error {
	keys := map[string]string{
		"goroutines": "simulation.goroutines",
		"seed":       "simulation.seed",
		"precision":  "report.precision",
		"table":      "report.table",
		"verbose":    "report.verbose",
		"check":      "report.check",
		"log-level":  "logging.level",
	}
	flags.Visit(func(f *flag.Flag) {
		if key, ok := keys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	positional := flags.Args()
	if len(positional) > 3 {
		return fmt.Errorf("expected at most 3 arguments, got %d", len(positional))
	}
	names := []string{"battle.attackers", "battle.defenders", "battle.samples"}
	for i, arg := range positional {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", names[i], arg)
		}
		if i == 2 && n < 1 {
			return fmt.Errorf("%w: samples must be >= 1 when given, got %d", game.ErrInvalidInput, n)
		}
		v.Set(names[i], n)
	}
	return nil
}

func execute(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	battle := cfg.Battle
	rules := game.NewStandardRules()

	model, err := outcome.NewModel(rules)
	if err != nil {
		return fmt.Errorf("failed to build outcome model: %w", err)
	}
	if cfg.Report.Verbose {
		if err := report.WriteDistributions(stderr, model); err != nil {
			return err
		}
	}

	s := solver.New(model, rules, solver.WithMaxCells(cfg.Solver.MaxCells))
	if cfg.Report.Table {
		table, err := s.Solve(battle.Attackers, battle.Defenders)
		if err != nil {
			return fmt.Errorf("failed to solve %d vs %d: %w", battle.Attackers, battle.Defenders, err)
		}
		if cfg.Report.Check {
			if err := table.Check(1e-12); err != nil {
				return err
			}
		}
		if err := report.WriteTable(stdout, table, cfg.Report.Precision); err != nil {
			return err
		}
		if err := report.WriteSummary(stderr, table); err != nil {
			return err
		}
	} else {
		p, err := s.WinProbability(battle.Attackers, battle.Defenders)
		if err != nil {
			return fmt.Errorf("failed to solve %d vs %d: %w", battle.Attackers, battle.Defenders, err)
		}
		if err := report.WriteAnswer(stderr, battle.Attackers, battle.Defenders, p); err != nil {
			return err
		}
	}

	if battle.Samples > 0 {
		sim := simulator.New(rules,
			simulator.WithGoroutines(cfg.Simulation.Goroutines),
			simulator.WithSeed(cfg.Simulation.Seed),
			simulator.WithMetrics(),
		)
		log.Info().Msgf("sampling (%d simulations)", battle.Samples)
		result, err := sim.Simulate(ctx, battle.Attackers, battle.Defenders, battle.Samples)
		if err != nil {
			return fmt.Errorf("failed to simulate %d vs %d: %w", battle.Attackers, battle.Defenders, err)
		}
		log.Info().
			Uint64("seed", result.Seed).
			Dur("duration", result.Metric.Duration).
			Float64("rounds_per_trial", result.Metric.RoundsPerTrial()).
			Float64("trials_per_second", result.Metric.TrialsPerSecond()).
			Msg("simulation complete")
		if err := report.WriteSimulation(stdout, result); err != nil {
			return err
		}
	}
	return nil
}
