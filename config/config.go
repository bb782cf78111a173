// Package config provides Viper-based configuration loading for dprisk.
package config

import (
	"errors"
	"fmt"
	"strings"

	"dprisk/meta"

	"github.com/spf13/viper"
)

// BattleConfig holds the battle to solve and simulate.
type BattleConfig struct {
	Attackers int `mapstructure:"attackers"`
	Defenders int `mapstructure:"defenders"`
	// Samples is the number of simulated battles; 0 skips the simulation.
	Samples int `mapstructure:"samples"`
}

// SimulationConfig holds Monte Carlo settings.
type SimulationConfig struct {
	Goroutines int `mapstructure:"goroutines"`
	// Seed fixes the random streams; 0 picks a time-based seed.
	Seed uint64 `mapstructure:"seed"`
}

type SolverConfig struct {
	MaxCells int `mapstructure:"max_cells"`
}

// ReportConfig controls what is written to standard output.
type ReportConfig struct {
	// Table writes the full win probability table.
	Table bool `mapstructure:"table"`
	// Precision is the number of significant digits per table value.
	Precision int `mapstructure:"precision"`
	// Verbose also writes the per-round outcome distributions.
	Verbose bool `mapstructure:"verbose"`
	// Check verifies the table invariants before writing it.
	Check bool `mapstructure:"check"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Battle     BattleConfig     `mapstructure:"battle"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Solver     SolverConfig     `mapstructure:"solver"`
	Report     ReportConfig     `mapstructure:"report"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants and reports every
// violation at once.
func (c Config) Validate() error {
	var errs []string

	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Simulation.Goroutines < 1 {
		errs = append(errs, fmt.Sprintf("simulation.goroutines must be >= 1, got %d", c.Simulation.Goroutines))
	}
	if c.Solver.MaxCells < 1 {
		errs = append(errs, fmt.Sprintf("solver.max_cells must be >= 1, got %d", c.Solver.MaxCells))
	}
	if c.Report.Precision < 1 || c.Report.Precision > 17 {
		errs = append(errs, fmt.Sprintf("report.precision must be 1-17, got %d", c.Report.Precision))
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.Attackers < 0 {
		errs = append(errs, fmt.Sprintf("battle.attackers must be >= 0, got %d", b.Attackers))
	}
	if b.Defenders < 0 {
		errs = append(errs, fmt.Sprintf("battle.defenders must be >= 0, got %d", b.Defenders))
	}
	if b.Samples < 0 {
		errs = append(errs, fmt.Sprintf("battle.samples must be >= 0, got %d", b.Samples))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// New returns a Viper instance with defaults and DPRISK_ environment
// overrides applied. A non-empty path is read as a configuration file.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix("DPRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("battle.attackers", meta.ATTACKERS)
	v.SetDefault("battle.defenders", meta.DEFENDERS)
	v.SetDefault("battle.samples", 0)

	v.SetDefault("simulation.goroutines", meta.GO_ROUTINES)
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("solver.max_cells", meta.MAX_TABLE_CELLS)

	v.SetDefault("report.table", true)
	v.SetDefault("report.precision", meta.TEXT_DIGITS)
	v.SetDefault("report.verbose", false)
	v.SetDefault("report.check", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
