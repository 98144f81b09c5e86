// Package config loads optional project-local settings from
// .exprjit.yaml, generalizing the teacher CLI's persistent command-line
// flags (cmd/dwscript/cmd/root.go) into a file a user can check in
// alongside the expressions they're iterating on.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the settings the CLI loads from .exprjit.yaml. Load
// starts from Default(), so a Config loaded from a missing or empty file
// carries the built-in defaults.
type Config struct {
	// Optimizer names codegen passes to disable. The fields are loaded
	// but nothing reads them: the Pipeline always runs codegen with every
	// pass enabled.
	Optimizer struct {
		DisableConstFold  bool `yaml:"disable_const_fold"`
		DisablePowCombine bool `yaml:"disable_pow_combine"`
	} `yaml:"optimizer"`

	// REPL configures the interactive shell (cmd/repl.go).
	REPL struct {
		Prompt      string `yaml:"prompt"`
		HistoryFile string `yaml:"history_file"`
		Color       bool   `yaml:"color"`
	} `yaml:"repl"`

	// Sample configures the "sample" CLI subcommand's default grid.
	Sample struct {
		From  float64 `yaml:"from"`
		To    float64 `yaml:"to"`
		Count int     `yaml:"count"`
	} `yaml:"sample"`
}

// Default returns a Config with every field set to the pipeline's
// built-in defaults, for callers that found no config file to load.
func Default() *Config {
	cfg := &Config{}
	cfg.REPL.Prompt = "exprjit> "
	cfg.REPL.HistoryFile = ".exprjit_history"
	cfg.REPL.Color = true
	cfg.Sample.From = -10
	cfg.Sample.To = 10
	cfg.Sample.Count = 41
	return cfg
}

// Load reads and parses path. A missing file is not an error: Load
// returns Default() instead, so callers can unconditionally call Load
// without checking os.Stat first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
