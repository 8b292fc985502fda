// Package config loads the bridge process's own configuration file —
// the tunables that size the node handle and name the serial device —
// from either TOML or YAML, selected by file extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"bridged/internal/node"
)

// File is the on-disk shape of the bridge process's configuration.
// Both struct tag sets are carried on every field so the same type
// decodes either format.
type File struct {
	Device string `toml:"device" yaml:"device"`
	Baud   int    `toml:"baud" yaml:"baud"`

	MaxPublishers       int    `toml:"max_publishers" yaml:"max_publishers"`
	MaxSubscribers      int    `toml:"max_subscribers" yaml:"max_subscribers"`
	InputCapacity       int    `toml:"input_capacity" yaml:"input_capacity"`
	MaxBytesPerSpin     int    `toml:"max_bytes_per_spin" yaml:"max_bytes_per_spin"`
	SyncPeriodMs        uint32 `toml:"sync_period_ms" yaml:"sync_period_ms"`
	ConnectionTimeoutMs uint32 `toml:"connection_timeout_ms" yaml:"connection_timeout_ms"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// defaults fills File with node.DefaultConfig's tunables plus a
// reasonable device baud rate, before any file content is applied.
func defaults() File {
	d := node.DefaultConfig()
	return File{
		Baud:                57600,
		MaxPublishers:       d.MaxPublishers,
		MaxSubscribers:      d.MaxSubscribers,
		InputCapacity:       d.InputCapacity,
		MaxBytesPerSpin:     d.MaxBytesPerSpin,
		SyncPeriodMs:        d.SyncPeriodMs,
		ConnectionTimeoutMs: d.ConnectionTimeoutMs,
		LogLevel:            "info",
	}
}

// Load reads path, decoding it as TOML or YAML by extension
// (.toml, or .yaml/.yml), applies it over the defaults, and validates
// the result.
func Load(path string) (File, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return File{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return File{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return File{}, fmt.Errorf("config: unrecognized extension %q (want .toml, .yaml, or .yml)", ext)
	}

	if err := Validate(cfg); err != nil {
		return File{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the node handle depends on:
// a connection is only declared dead after at least two missed sync
// periods, the input buffer must hold at least one frame, and the
// configured table sizes must fit the 16-bit topic id space reserved
// for subscriber and publisher channels (spec.md §3).
func Validate(cfg File) error {
	if strings.TrimSpace(cfg.Device) == "" {
		return fmt.Errorf("device is required")
	}
	if cfg.InputCapacity <= 0 {
		return fmt.Errorf("input_capacity must be positive, got %d", cfg.InputCapacity)
	}
	if cfg.MaxBytesPerSpin <= 0 {
		return fmt.Errorf("max_bytes_per_spin must be positive, got %d", cfg.MaxBytesPerSpin)
	}
	if cfg.ConnectionTimeoutMs < 2*cfg.SyncPeriodMs {
		return fmt.Errorf("connection_timeout_ms (%d) must be at least twice sync_period_ms (%d)",
			cfg.ConnectionTimeoutMs, cfg.SyncPeriodMs)
	}
	if cfg.MaxSubscribers < 0 || cfg.MaxPublishers < 0 {
		return fmt.Errorf("max_subscribers and max_publishers must not be negative")
	}
	highestID := 100 + cfg.MaxSubscribers + cfg.MaxPublishers
	if highestID > 0xFFFF {
		return fmt.Errorf("max_subscribers+max_publishers (%d) overflows the 16-bit topic id space", highestID)
	}
	return nil
}

// NodeConfig projects the parts of File that node.New consumes
// directly.
func (f File) NodeConfig() node.Config {
	return node.Config{
		MaxPublishers:       f.MaxPublishers,
		MaxSubscribers:      f.MaxSubscribers,
		InputCapacity:       f.InputCapacity,
		MaxBytesPerSpin:     f.MaxBytesPerSpin,
		SyncPeriodMs:        f.SyncPeriodMs,
		ConnectionTimeoutMs: f.ConnectionTimeoutMs,
	}
}
