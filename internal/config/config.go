// Package config handles reckon.toml interpreter configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/xirelogy/go-reckon/internal/compiler"
	"github.com/xirelogy/go-reckon/internal/vm"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "reckon.toml"

// Config tunes the compiler, the VM and the REPL.
type Config struct {
	// Trace dumps each compiled chunk and traces every VM instruction.
	Trace bool `toml:"trace"`
	// StackMax is the VM value stack capacity.
	StackMax int `toml:"stack-max"`
	// MaxDepth limits expression nesting. Must be below StackMax.
	MaxDepth int    `toml:"max-depth"`
	LogLevel string `toml:"log-level"`

	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history-file"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StackMax:    vm.DefaultStackMax,
		MaxDepth:    compiler.DefaultMaxDepth,
		LogLevel:    "warn",
		Prompt:      "> ",
		HistoryFile: ".reckon_history",
	}
}

// Load parses the TOML file at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad walks up from startDir looking for reckon.toml. When none
// is found the defaults are returned.
func FindAndLoad(startDir string) (Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Default(), fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// ApplyEnv overrides settings from the environment. RECKON_TRACE accepts
// any value understood by strconv.ParseBool.
func (c *Config) ApplyEnv() error {
	v, ok := os.LookupEnv("RECKON_TRACE")
	if !ok || v == "" {
		return nil
	}
	trace, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("RECKON_TRACE: %w", err)
	}
	c.Trace = trace
	return nil
}

// Validate checks that the limits are consistent.
func (c Config) Validate() error {
	var errs []error
	if c.StackMax <= 0 {
		errs = append(errs, fmt.Errorf("stack-max must be positive, got %d", c.StackMax))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max-depth must be positive, got %d", c.MaxDepth))
	} else if c.StackMax > 0 && c.MaxDepth >= c.StackMax {
		errs = append(errs, fmt.Errorf("max-depth (%d) must be below stack-max (%d)", c.MaxDepth, c.StackMax))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel. An empty level means warn.
func (c Config) Level() (logrus.Level, error) {
	if c.LogLevel == "" {
		return logrus.WarnLevel, nil
	}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel, fmt.Errorf("log-level: %w", err)
	}
	return lvl, nil
}
