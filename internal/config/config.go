// Package config loads the workload description for the minirt command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config describes a demo run: the run queue capacity, logging, and the
// timers to spawn.
type Config struct {
	Capacity  uint64  `toml:"capacity" yaml:"capacity"`
	LogLevel  string  `toml:"log_level" yaml:"log_level"`
	LogFormat string  `toml:"log_format" yaml:"log_format"`
	Timers    []Timer `toml:"timers" yaml:"timers"`
}

// Timer is one task that sleeps for DelayMs milliseconds and then reports
// its Name.
type Timer struct {
	Name    string `toml:"name" yaml:"name"`
	DelayMs uint64 `toml:"delay_ms" yaml:"delay_ms"`
}

// Default returns the three-timer workload with deliberately shuffled
// delays.
func Default() Config {
	return Config{
		Capacity:  10_000,
		LogLevel:  "info",
		LogFormat: "text",
		Timers:    DefaultTimers(),
	}
}

// DefaultTimers returns the timers of [Default].
func DefaultTimers() []Timer {
	return []Timer{
		{Name: "medium", DelayMs: 10},
		{Name: "slow", DelayMs: 50},
		{Name: "fast", DelayMs: 5},
	}
}

// Load reads a config file, choosing the decoder by extension
// (.toml, .yaml or .yml).
// Fields missing from the file keep their [Default] values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return DecodeTOML(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return Config{}, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
}

// DecodeTOML decodes a TOML document on top of [Default].
func DecodeTOML(data []byte) (Config, error) {
	cfg := Default()
	cfg.Timers = nil

	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return Config{}, fmt.Errorf("decode toml: unknown keys %v", undecoded)
	}

	return cfg.withDefaultTimers(), nil
}

// DecodeYAML decodes a YAML document on top of [Default].
func DecodeYAML(data []byte) (Config, error) {
	cfg := Default()
	cfg.Timers = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}

	return cfg.withDefaultTimers(), nil
}

func (c Config) withDefaultTimers() Config {
	if c.Timers == nil {
		c.Timers = DefaultTimers()
	}
	return c
}

// Validate reports the first problem found in c.
func (c Config) Validate() error {
	if _, err := c.QueueCapacity(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: must be text or json", c.LogFormat)
	}

	if len(c.Timers) == 0 {
		return errors.New("no timers configured")
	}

	seen := make(map[string]bool, len(c.Timers))
	for i, t := range c.Timers {
		if t.Name == "" {
			return fmt.Errorf("timers[%d]: empty name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("timers[%d]: duplicate name %q", i, t.Name)
		}
		seen[t.Name] = true
		if _, err := t.Delay(); err != nil {
			return fmt.Errorf("timers[%d]: %w", i, err)
		}
	}

	return nil
}

// QueueCapacity returns Capacity as an int.
func (c Config) QueueCapacity() (int, error) {
	n, err := safecast.Conv[int](c.Capacity)
	if err != nil {
		return 0, fmt.Errorf("capacity %d: %w", c.Capacity, err)
	}
	return n, nil
}

// Delay returns DelayMs as a time.Duration.
func (t Timer) Delay() (time.Duration, error) {
	ms, err := safecast.Conv[int64](t.DelayMs)
	if err != nil || ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, fmt.Errorf("delay_ms %d: out of range", t.DelayMs)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ParseTimer parses a "name=ms" pair.
func ParseTimer(s string) (Timer, error) {
	name, ms, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return Timer{}, fmt.Errorf("timer %q: want name=ms", s)
	}
	delay, err := strconv.ParseUint(ms, 10, 64)
	if err != nil {
		return Timer{}, fmt.Errorf("timer %q: %w", s, err)
	}
	return Timer{Name: name, DelayMs: delay}, nil
}
