package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/lazyshuffle/internal/bench"
	"github.com/lox/lazyshuffle/internal/bench/config"
	"github.com/lox/lazyshuffle/rng"
)

// version is set by ldflags during build
var version = "dev"

// CLI is the shuffle-bench command line.
type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"shuffle-bench.hcl" help:"Path to HCL scenario file (built-in scenarios when missing)"`
	Scenario []string         `short:"s" help:"Only run the named scenarios"`
	Source   string           `help:"Random source (${sources})"`
	Seed     *int64           `help:"Seed for the random source (default: reference xorshf96 state)"`
	Parallel int              `short:"p" help:"Independent generators per scenario, each on its own goroutine"`
	Repeat   int              `short:"r" help:"Timed repetitions per scenario (overrides config)"`
	JSON     bool             `help:"Emit JSON instead of text"`
	NoColor  bool             `help:"Disable colored output"`
	Debug    bool             `help:"Show debug logs"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("shuffle-bench"),
		kong.Description("Time incremental random permutations of large integer ranges"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
			"sources": strings.Join(rng.Names(), ", "),
		},
	)
	ctx.FatalIfErrorf(cli.Run())
}

// Run loads the configuration, applies flag overrides and runs the scenarios.
func (c *CLI) Run() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "shuffle-bench",
	})
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	scenarios, err := cfg.Select(c.Scenario)
	if err != nil {
		return err
	}

	opts := []bench.RunnerOption{
		bench.WithSourceName(cfg.Source),
		bench.WithParallel(cfg.Parallel),
	}
	if cfg.Seed != nil {
		opts = append(opts, bench.WithSeed(*cfg.Seed))
	}

	logger.Debug("Starting",
		"config", c.Config,
		"scenarios", len(scenarios),
		"source", cfg.Source,
		"parallel", cfg.Parallel)

	runCtx := SetupSignalHandler(logger)
	runner := bench.NewRunner(logger, quartz.NewReal(), opts...)
	results, err := runner.RunAll(runCtx, scenarios)

	// Report whatever finished, even when a later scenario failed.
	if len(results) > 0 {
		var werr error
		if c.JSON {
			werr = bench.WriteJSON(os.Stdout, results)
		} else {
			werr = bench.RenderText(os.Stdout, results)
		}
		if werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func (c *CLI) applyOverrides(cfg *config.Config) {
	if c.Source != "" {
		cfg.Source = c.Source
	}
	if c.Seed != nil {
		cfg.Seed = c.Seed
	}
	if c.Parallel > 0 {
		cfg.Parallel = c.Parallel
	}
	if c.Repeat > 0 {
		cfg.SetRepeat(c.Repeat, true)
	}
}
