package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("TOML", func(t *testing.T) {
		path := writeFile(t, "run.toml", `
capacity = 16
log_level = "debug"

[[timers]]
name = "a"
delay_ms = 20

[[timers]]
name = "b"
delay_ms = 1
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, uint64(16), cfg.Capacity)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat, "missing fields keep defaults")
		assert.Equal(t, []Timer{{Name: "a", DelayMs: 20}, {Name: "b", DelayMs: 1}}, cfg.Timers)
	})
	t.Run("YAML", func(t *testing.T) {
		path := writeFile(t, "run.yaml", `
log_format: json
timers:
  - name: only
    delay_ms: 3
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, uint64(10_000), cfg.Capacity)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, []Timer{{Name: "only", DelayMs: 3}}, cfg.Timers)
	})
	t.Run("EmptyYAMLKeepsDefaults", func(t *testing.T) {
		cfg, err := Load(writeFile(t, "empty.yml", ""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
	t.Run("NoTimersKeepsDefaults", func(t *testing.T) {
		cfg, err := Load(writeFile(t, "run.toml", "capacity = 8\n"))
		require.NoError(t, err)
		assert.Equal(t, DefaultTimers(), cfg.Timers)
	})
	t.Run("UnknownTOMLKey", func(t *testing.T) {
		_, err := Load(writeFile(t, "run.toml", "capacityy = 8\n"))
		assert.ErrorContains(t, err, "unknown keys")
	})
	t.Run("UnknownYAMLKey", func(t *testing.T) {
		_, err := Load(writeFile(t, "run.yaml", "capacityy: 8\n"))
		assert.ErrorContains(t, err, "decode yaml")
	})
	t.Run("UnsupportedExtension", func(t *testing.T) {
		_, err := Load(writeFile(t, "run.json", "{}"))
		assert.ErrorContains(t, err, "unsupported extension")
	})
	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"LogFormat", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"NoTimers", func(c *Config) { c.Timers = []Timer{} }, "no timers"},
		{"EmptyName", func(c *Config) { c.Timers[0].Name = "" }, "empty name"},
		{"Duplicate", func(c *Config) { c.Timers[1].Name = c.Timers[0].Name }, "duplicate"},
		{"DelayOverflow", func(c *Config) { c.Timers[0].DelayMs = 1 << 62 }, "out of range"},
		{"CapacityOverflow", func(c *Config) { c.Capacity = 1 << 63 }, "capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestDelay(t *testing.T) {
	d, err := Timer{Name: "x", DelayMs: 250}.Delay()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestParseTimer(t *testing.T) {
	tm, err := ParseTimer("slow=50")
	require.NoError(t, err)
	assert.Equal(t, Timer{Name: "slow", DelayMs: 50}, tm)

	for _, bad := range []string{"slow", "=5", "slow=-1", "slow=abc"} {
		_, err := ParseTimer(bad)
		assert.Errorf(t, err, "ParseTimer(%q)", bad)
	}
}
