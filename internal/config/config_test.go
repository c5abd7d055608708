package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assurrussa/chicagotime/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chicagotime.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
log_level = "debug"
locale = "de_DE.UTF-8"
zone = "America/Chicago"
format = "iso"
sinks = ["console", "log"]
prompt = false
`)

	cfg, err := config.Load(map[string]string{
		config.EnvConfigFile:     path,
		"CHICAGOTIME_FORMAT":     "short",
		"CHICAGOTIME_SINKS":      "LOG, log ,",
		"CHICAGOTIME_LOG_LEVEL":  " info ",
		"UNRELATED_ENV_VARIABLE": "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "de_DE.UTF-8", cfg.Locale)
	assert.Equal(t, "America/Chicago", cfg.Zone)
	assert.Equal(t, config.FormatShort, cfg.Format)
	assert.Equal(t, []string{config.SinkLog}, cfg.Sinks)
	assert.False(t, cfg.Prompt)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())
}

func TestLoadFileKeepsDefaultsForMissingKeys(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `zone = "utc"`)

	cfg, err := config.Load(map[string]string{config.EnvConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, config.ZoneUTC, cfg.Zone)
	assert.Equal(t, config.FormatShort, cfg.Format)
	assert.Equal(t, []string{config.SinkConsole}, cfg.Sinks)
	assert.True(t, cfg.Prompt)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := config.Load(map[string]string{
		config.EnvConfigFile: filepath.Join(t.TempDir(), "missing.toml"),
	})
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]string{
		"bad format": {"CHICAGOTIME_FORMAT": "long"},
		"bad zone":   {"CHICAGOTIME_ZONE": "Mars/Olympus_Mons"},
		"bad sink":   {"CHICAGOTIME_SINKS": "printer"},
		"no sinks":   {"CHICAGOTIME_SINKS": " , "},
		"bad bool":   {"CHICAGOTIME_PROMPT": "maybe"},
	}

	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(environ)
			assert.Error(t, err)
		})
	}
}
