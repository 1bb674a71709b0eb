// Package config loads the deploy-time configuration: the borrow
// scheduling mode and the diagnostics options. The mode is a property of
// the deployment, not of individual instances, so it is read once at
// process start.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/hostcell/cell"
	"github.com/wippyai/hostcell/fault"
	"github.com/wippyai/hostcell/storage"
)

// FileName is the optional configuration file looked up by LoadOptional.
const FileName = "hostcell.yaml"

// Config represents the optional hostcell.yaml configuration.
type Config struct {
	// Mode selects how borrow conflicts are handled: "single" fails fast on
	// the owning thread, "shared" blocks across threads.
	Mode string `yaml:"mode,omitempty" validate:"omitempty,oneof=single shared"`

	Diagnostics Diagnostics `yaml:"diagnostics"`
}

// Diagnostics contains borrow diagnostics settings.
type Diagnostics struct {
	// CaptureSites toggles call-site snapshots on acquisition. Defaults to
	// true; disabling trades conflict debuggability for speed.
	CaptureSites *bool `yaml:"capture_sites,omitempty"`

	// Trace is a path for a JSONL borrow-event capture, empty to disable.
	Trace string `yaml:"trace,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Mode         cell.Mode
	CaptureSites bool
	TracePath    string
}

// LoadOptional reads hostcell.yaml from dir if present. A missing file is
// not an error; it resolves to defaults.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fault.InvalidConfig(fmt.Sprintf("failed to parse %s", FileName), err)
	}

	return &cfg, nil
}

// Resolve validates the configuration and maps it onto concrete settings.
func (c *Config) Resolve() (*Resolved, error) {
	if err := validator.New().Struct(c); err != nil {
		return nil, fault.InvalidConfig("invalid configuration", err)
	}

	r := &Resolved{
		Mode:         cell.FailFast,
		CaptureSites: true,
		TracePath:    c.Diagnostics.Trace,
	}
	if c.Mode == "shared" {
		r.Mode = cell.Blocking
	}
	if c.Diagnostics.CaptureSites != nil {
		r.CaptureSites = *c.Diagnostics.CaptureSites
	}
	return r, nil
}

// StorageOptions maps the resolved configuration onto unit construction
// options. The trace path is not included; wiring an observer is the
// embedder's call since it owns the capture's lifetime.
func (r *Resolved) StorageOptions() []storage.Option {
	return []storage.Option{
		storage.WithMode(r.Mode),
		storage.WithSiteCapture(r.CaptureSites),
	}
}
