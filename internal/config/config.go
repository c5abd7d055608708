// Package config loads chicagotime settings. Every setting is optional; the
// defaults reproduce the plain "print today's date and wait" behavior.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const EnvConfigFile = "CHICAGOTIME_CONFIG"

const (
	ZoneLocal = "local"
	ZoneUTC   = "utc"

	FormatShort = "short"
	FormatISO   = "iso"

	SinkConsole = "console"
	SinkLog     = "log"
)

type Config struct {
	LogLevel string   `env:"CHICAGOTIME_LOG_LEVEL"`
	Locale   string   `env:"CHICAGOTIME_LOCALE"`
	Zone     string   `env:"CHICAGOTIME_ZONE"`
	Format   string   `env:"CHICAGOTIME_FORMAT"`
	Sinks    []string `env:"CHICAGOTIME_SINKS" envSeparator:","`
	Prompt   bool     `env:"CHICAGOTIME_PROMPT"`
}

type fileConfig struct {
	LogLevel string   `toml:"log_level"`
	Locale   string   `toml:"locale"`
	Zone     string   `toml:"zone"`
	Format   string   `toml:"format"`
	Sinks    []string `toml:"sinks"`
	Prompt   bool     `toml:"prompt"`
}

func Default() Config {
	return Config{
		LogLevel: "warn",
		Zone:     ZoneLocal,
		Format:   FormatShort,
		Sinks:    []string{SinkConsole},
		Prompt:   true,
	}
}

// FromEnvironment loads configuration from the process environment.
func FromEnvironment() (Config, error) {
	return Load(env.ToMap(os.Environ()))
}

// Load layers defaults, the TOML file named by CHICAGOTIME_CONFIG (if any) and
// the environment, then validates the result.
func Load(environ map[string]string) (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(environ[EnvConfigFile]); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	if meta.IsDefined("locale") {
		cfg.Locale = raw.Locale
	}
	if meta.IsDefined("zone") {
		cfg.Zone = raw.Zone
	}
	if meta.IsDefined("format") {
		cfg.Format = raw.Format
	}
	if meta.IsDefined("sinks") {
		cfg.Sinks = raw.Sinks
	}
	if meta.IsDefined("prompt") {
		cfg.Prompt = raw.Prompt
	}
	return nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.TrimSpace(c.LogLevel)
	c.Locale = strings.TrimSpace(c.Locale)
	c.Zone = strings.TrimSpace(c.Zone)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))

	sinks := make([]string, 0, len(c.Sinks))
	for _, s := range c.Sinks {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !slices.Contains(sinks, s) {
			sinks = append(sinks, s)
		}
	}
	c.Sinks = sinks
}

func (c Config) Validate() error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Format != FormatShort && c.Format != FormatISO {
		errs = append(errs, fmt.Errorf("format must be %q or %q, got %q", FormatShort, FormatISO, c.Format))
	}
	if len(c.Sinks) == 0 {
		errs = append(errs, errors.New("at least one sink is required"))
	}
	for _, s := range c.Sinks {
		if s != SinkConsole && s != SinkLog {
			errs = append(errs, fmt.Errorf("unknown sink %q", s))
		}
	}
	return errors.Join(errs...)
}

// Location resolves Zone: "local", "utc" or an IANA name such as America/Chicago.
func (c Config) Location() (*time.Location, error) {
	switch strings.ToLower(c.Zone) {
	case "", ZoneLocal:
		return time.Local, nil
	case ZoneUTC:
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Zone)
	if err != nil {
		return nil, fmt.Errorf("zone %q: %w", c.Zone, err)
	}
	return loc, nil
}
