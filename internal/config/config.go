// Package config loads enigma settings from defaults, an enigma.yaml file,
// ENIGMA_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/enigma/internal/wiring"
)

// Setting keys. Flags with these names are bound automatically.
const (
	KeyWiring      = "wiring"
	KeyPositions   = "positions"
	KeyJournal     = "journal"
	KeyLabel       = "label"
	KeyKeepUnknown = "keep-unknown"
	KeyGroup       = "group"
)

// EnvPrefix prefixes every environment variable, e.g. ENIGMA_KEEP_UNKNOWN.
const EnvPrefix = "ENIGMA"

// Config holds every setting a command may use.
type Config struct {
	// Wiring is a built-in set name or a path to a .cue wiring file.
	Wiring string `mapstructure:"wiring"`

	// Positions are the start positions; empty means all rotors at the
	// first symbol.
	Positions string `mapstructure:"positions"`

	// Journal is the SQLite journal path. Empty disables journaling.
	Journal string `mapstructure:"journal"`

	// Label is stored with journal sessions.
	Label string `mapstructure:"label"`

	// KeepUnknown passes symbols outside the alphabet through unchanged
	// instead of dropping them.
	KeepUnknown bool `mapstructure:"keep-unknown"`

	// Group splits output into groups of this many letters; 0 disables.
	Group int `mapstructure:"group"`
}

// Defaults returns the built-in default for every key.
func Defaults() map[string]any {
	return map[string]any{
		KeyWiring:      wiring.DefaultName,
		KeyPositions:   "",
		KeyJournal:     "",
		KeyLabel:       "",
		KeyKeepUnknown: false,
		KeyGroup:       0,
	}
}

// Load resolves the configuration for a command's flags.
//
// configPath names an explicit config file, which must exist. Otherwise
// enigma.yaml is searched for in the user config dir, /etc/enigma and the
// working directory, and a missing file is not an error.
//
// Flags named after a setting key override everything else once set on the
// command line; their defaults are ignored. flags may be nil.
func Load(flags *pflag.FlagSet, configPath string) (Config, error) {
	v := viper.New()

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("enigma")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "enigma"))
		}
		v.AddConfigPath("/etc/enigma")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// bindFlags binds only the flags named after a setting key, so command
// flags like --db never reach the config.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if _, ok := Defaults()[f.Name]; !ok {
			return
		}
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// Validate checks values that do not depend on the wiring.
func (c Config) Validate() error {
	if c.Group < 0 {
		return fmt.Errorf("invalid config: group must be non-negative, got %d", c.Group)
	}
	return nil
}
