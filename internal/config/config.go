// Package config loads cilium settings from a file and command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/AllenInstitute/pycilium/pkg/fusion"
	"github.com/AllenInstitute/pycilium/pkg/mesh"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds all fusion, filter and watch settings
type Config struct {
	Workers int          `json:"workers" yaml:"workers" toml:"workers"`
	Filter  FilterConfig `json:"filter" yaml:"filter" toml:"filter"`
	Trace   TraceConfig  `json:"trace" yaml:"trace" toml:"trace"`
	Watch   WatchConfig  `json:"watch" yaml:"watch" toml:"watch"`
}

// FilterConfig is the skeleton neighbourhood meshes are cut down to
type FilterConfig struct {
	Radius       float64 `json:"radius" yaml:"radius" toml:"radius"`
	EndcapBuffer float64 `json:"endcap_buffer" yaml:"endcap_buffer" toml:"endcap_buffer"`
}

// TraceConfig is the radius ray retry schedule
type TraceConfig struct {
	Attempts int     `json:"attempts" yaml:"attempts" toml:"attempts"`
	Jitter   float64 `json:"jitter" yaml:"jitter" toml:"jitter"`
}

// WatchConfig controls rerunning on input changes
type WatchConfig struct {
	DebounceMS int `json:"debounce_ms" yaml:"debounce_ms" toml:"debounce_ms"`
}

// Default returns the built-in settings
func Default() Config {
	trace := mesh.DefaultTraceOptions()
	filter := fusion.DefaultFilterConfig()
	return Config{
		Workers: runtime.NumCPU(),
		Filter:  FilterConfig{Radius: filter.Radius, EndcapBuffer: filter.EndcapBuffer},
		Trace:   TraceConfig{Attempts: trace.Attempts, Jitter: trace.Jitter},
		Watch:   WatchConfig{DebounceMS: 300},
	}
}

// Load reads a config file on top of the defaults. The format follows the
// extension: .yaml/.yml, .toml or .json. An empty path returns the defaults.
// Fields not set in the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: unsupported format %q for %s", ext, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Nil pointers and zero Workers leave the file value in place.
type Flags struct {
	Workers      int
	Radius       *float64
	EndcapBuffer *float64
}

// Resolve applies flag overrides and validates the result
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Radius != nil {
		c.Filter.Radius = *flags.Radius
	}
	if flags.EndcapBuffer != nil {
		c.Filter.EndcapBuffer = *flags.EndcapBuffer
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = 300
	}

	switch {
	case c.Filter.Radius <= 0:
		return fmt.Errorf("config: filter radius must be positive, got %g", c.Filter.Radius)
	case c.Filter.EndcapBuffer < 0:
		return fmt.Errorf("config: endcap buffer must not be negative, got %g", c.Filter.EndcapBuffer)
	case c.Trace.Attempts < 0:
		return fmt.Errorf("config: trace attempts must not be negative, got %d", c.Trace.Attempts)
	case c.Trace.Jitter < 0:
		return fmt.Errorf("config: trace jitter must not be negative, got %g", c.Trace.Jitter)
	}
	return nil
}

// Fusion returns the fuser settings
func (c Config) Fusion() fusion.Config {
	return fusion.Config{
		Workers: c.Workers,
		Trace:   &mesh.TraceOptions{Attempts: c.Trace.Attempts, Jitter: c.Trace.Jitter},
	}
}

// MeshFilter returns the mesh neighbourhood settings
func (c Config) MeshFilter() fusion.FilterConfig {
	return fusion.FilterConfig{Radius: c.Filter.Radius, EndcapBuffer: c.Filter.EndcapBuffer}
}

// Debounce returns the watch debounce interval
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
