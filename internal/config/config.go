// Package config is for app wide settings that are unmarshalled from Viper:
// command-line flags, LACTHERMO_* environment variables (optionally from a
// .env file) and an optional lacthermo.yaml/.toml config file, in that order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"lacthermo/internal/writers"
)

// EnvPrefix prefixes every environment override, e.g. LACTHERMO_OUTPUT=json.
const EnvPrefix = "LACTHERMO"

// GridConfig sets the default evaluation grids of curve and titration.
type GridConfig struct {
	// IPTG range in µM for induction curves
	IPTGMin float64 `mapstructure:"iptg-min"`
	IPTGMax float64 `mapstructure:"iptg-max"`

	// repressor range per cell for titrations
	RepMin float64 `mapstructure:"rep-min"`
	RepMax float64 `mapstructure:"rep-max"`

	// number of log-spaced points
	Points int `mapstructure:"points"`
}

// Config is the root-level settings struct.
type Config struct {
	// path to a user constants table (yaml or toml); empty uses the embedded one
	Constants string `mapstructure:"constants"`

	// output format: tsv | json | jsonl | pretty
	Output string `mapstructure:"output"`

	// suppress the TSV / pretty header row
	NoHeader bool `mapstructure:"no-header"`

	// debug | info | warn | error
	LogLevel string `mapstructure:"log-level"`

	// only log errors
	Quiet bool `mapstructure:"quiet"`

	Grid GridConfig `mapstructure:"grid"`
}

// New returns a Viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("constants", "")
	v.SetDefault("output", "tsv")
	v.SetDefault("no-header", false)
	v.SetDefault("log-level", "info")
	v.SetDefault("quiet", false)
	v.SetDefault("grid.iptg-min", 0.1)
	v.SetDefault("grid.iptg-max", 5000.0)
	v.SetDefault("grid.rep-min", 10.0)
	v.SetDefault("grid.rep-max", 2000.0)
	v.SetDefault("grid.points", 50)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is fine.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ReadFile reads an explicit config file, or searches for lacthermo.{yaml,toml}
// in the working directory and the user config directory when path is empty.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("lacthermo")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "lacthermo"))
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Decode unmarshals the current Viper state and validates it.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate applies invariants shared by every command.
func (c Config) Validate() error {
	if !writers.Known(c.Output) {
		return fmt.Errorf("invalid --output %q (want %s)", c.Output, strings.Join(writers.Formats(), "|"))
	}
	if !(c.Grid.IPTGMin > 0) || c.Grid.IPTGMax <= c.Grid.IPTGMin {
		return fmt.Errorf("IPTG grid needs 0 < min < max, got [%g, %g]", c.Grid.IPTGMin, c.Grid.IPTGMax)
	}
	if !(c.Grid.RepMin > 0) || c.Grid.RepMax <= c.Grid.RepMin {
		return fmt.Errorf("repressor grid needs 0 < min < max, got [%g, %g]", c.Grid.RepMin, c.Grid.RepMax)
	}
	if c.Grid.Points < 2 {
		return errors.New("--points must be ≥ 2")
	}
	return nil
}
