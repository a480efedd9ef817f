// Package config loads hostscope settings from YAML files. Settings are
// optional: every field has a default, and a missing config file is not an
// error anywhere except when a path was given explicitly.
package config

import (
	"time"
)

// Config holds all hostscope settings.
type Config struct {
	// Interval is the dashboard auto-refresh interval.
	Interval time.Duration `mapstructure:"interval"`

	// TopProcesses is how many processes the Top Processes section lists.
	TopProcesses int `mapstructure:"top_processes"`

	// Mounts filters the disk section to specific mountpoints.
	// Empty means all physical partitions.
	Mounts []string `mapstructure:"mounts"`

	// GPU toggles the nvidia-smi probe. Disabling it skips the subprocess
	// entirely; the GPU section then reads N/A.
	GPU bool `mapstructure:"gpu"`

	// ExportDir is where export writes files when given a bare filename.
	// Empty means the current directory.
	ExportDir string `mapstructure:"export_dir"`
}

// Default values applied before any file is read.
const (
	DefaultInterval     = 8 * time.Second
	DefaultTopProcesses = 8
)

// MinInterval is the floor for auto-refresh; shorter intervals make the
// cpu.Percent sampling window dominate the refresh cycle.
const MinInterval = 500 * time.Millisecond

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	return &Config{
		Interval:     DefaultInterval,
		TopProcesses: DefaultTopProcesses,
		GPU:          true,
	}
}

// Normalize clamps out-of-range values back to defaults.
func (c *Config) Normalize() {
	if c.Interval < MinInterval {
		c.Interval = DefaultInterval
	}
	if c.TopProcesses <= 0 {
		c.TopProcesses = DefaultTopProcesses
	}
}
