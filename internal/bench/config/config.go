// Package config loads benchmark scenarios from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/lazyshuffle/internal/bench"
	"github.com/lox/lazyshuffle/rng"
)

// File is the HCL layout of a scenario file
type File struct {
	Defaults  *DefaultsBlock  `hcl:"defaults,block"`
	Scenarios []ScenarioBlock `hcl:"scenario,block"`
}

// DefaultsBlock holds settings shared by every scenario
type DefaultsBlock struct {
	Source   string `hcl:"source,optional"`
	Seed     *int64 `hcl:"seed,optional"`
	Parallel int    `hcl:"parallel,optional"`
	Repeat   int    `hcl:"repeat,optional"`
}

// ScenarioBlock defines one scenario
type ScenarioBlock struct {
	Name     string `hcl:"name,label"`
	Size     int    `hcl:"size"`
	Singles  int    `hcl:"singles,optional"`
	Batch    int    `hcl:"batch,optional"`
	Overdraw int    `hcl:"overdraw,optional"`
	Print    int    `hcl:"print,optional"`
	Repeat   int    `hcl:"repeat,optional"`
	Verify   bool   `hcl:"verify,optional"`
	Output   string `hcl:"output,optional"`
}

// Config is the resolved benchmark configuration
type Config struct {
	Source    string
	Seed      *int64
	Parallel  int
	Scenarios []bench.Scenario
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Source:    rng.NameXorshf96,
		Parallel:  1,
		Scenarios: bench.DefaultScenarios(),
	}
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var f File
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	return f.resolve(), nil
}

// resolve applies defaults for missing values
func (f *File) resolve() *Config {
	cfg := Default()
	repeat := 0

	if d := f.Defaults; d != nil {
		if d.Source != "" {
			cfg.Source = d.Source
		}
		if d.Parallel != 0 {
			cfg.Parallel = d.Parallel
		}
		cfg.Seed = d.Seed
		repeat = d.Repeat
	}

	// A file without scenarios only overrides the defaults.
	if len(f.Scenarios) > 0 {
		cfg.Scenarios = make([]bench.Scenario, 0, len(f.Scenarios))
		for _, s := range f.Scenarios {
			cfg.Scenarios = append(cfg.Scenarios, bench.Scenario{
				Name:     s.Name,
				Size:     s.Size,
				Singles:  s.Singles,
				Batch:    s.Batch,
				Overdraw: s.Overdraw,
				Print:    s.Print,
				Repeat:   s.Repeat,
				Verify:   s.Verify,
				Output:   s.Output,
			})
		}
	}

	if repeat > 0 {
		cfg.SetRepeat(repeat, false)
	}
	return cfg
}

// SetRepeat sets the repeat count on scenarios. Unless force is set,
// scenarios with their own repeat count keep it.
func (c *Config) SetRepeat(repeat int, force bool) {
	for i := range c.Scenarios {
		if force || c.Scenarios[i].Repeat == 0 {
			c.Scenarios[i].Repeat = repeat
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !slices.Contains(rng.Names(), c.Source) {
		return fmt.Errorf("%w: %q", rng.ErrUnknownSource, c.Source)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario must be configured")
	}

	seen := make(map[string]bool, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		if err := sc.Validate(); err != nil {
			return err
		}
		if seen[sc.Name] {
			return fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true
	}
	return nil
}

// Select returns the named scenarios in configuration order. No names
// selects everything.
func (c *Config) Select(names []string) ([]bench.Scenario, error) {
	if len(names) == 0 {
		return c.Scenarios, nil
	}

	for _, name := range names {
		if c.GetScenario(name) == nil {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
	}

	var selected []bench.Scenario
	for _, sc := range c.Scenarios {
		if slices.Contains(names, sc.Name) {
			selected = append(selected, sc)
		}
	}
	return selected, nil
}

// GetScenario returns a scenario by name
func (c *Config) GetScenario(name string) *bench.Scenario {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i]
		}
	}
	return nil
}
