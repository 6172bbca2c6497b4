// Package config loads editrainer settings from a YAML file, a .env file
// and EDITRAINER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EDITRAINER_LOG_LEVEL.
const EnvPrefix = "EDITRAINER"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete editrainer configuration.
type Config struct {
	Generate GenerateConfig `mapstructure:"generate"`
	Specs    SpecsConfig    `mapstructure:"specs"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`

	// Source is the config file that was read, or "" when none was found.
	Source string `mapstructure:"-"`
}

// GenerateConfig holds generation defaults.
type GenerateConfig struct {
	Count         int     `mapstructure:"count"`
	ErrorRate     float64 `mapstructure:"error_rate"`
	Sets          int     `mapstructure:"sets"`
	Seed          uint64  `mapstructure:"seed"`
	Workers       int     `mapstructure:"workers"`
	FieldWeight   float64 `mapstructure:"field_weight"`
	SegmentWeight float64 `mapstructure:"segment_weight"`
}

// SpecsConfig locates override specification documents.
type SpecsConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the metrics textfile.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

var defaults = map[string]interface{}{
	"generate.count":          1,
	"generate.error_rate":     0.0,
	"generate.sets":           1,
	"generate.seed":           0,
	"generate.workers":        1,
	"generate.field_weight":   80.0,
	"generate.segment_weight": 20.0,
	"specs.dir":               "",
	"log.level":               "warn",
	"log.format":              "console",
	"metrics.file":            "",
}

// Load reads configuration. An explicit path must exist; otherwise
// editrainer.yaml is searched in the working directory and in
// $HOME/.config/editrainer, and its absence is not an error.
func Load(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	loadEnvFile()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("editrainer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "editrainer"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// Validate checks ranges that flags and files can both violate.
func (c *Config) Validate() error {
	g := c.Generate
	switch {
	case g.Count < 1:
		return fmt.Errorf("%w: generate.count must be at least 1", ErrInvalid)
	case g.ErrorRate < 0 || g.ErrorRate > 1:
		return fmt.Errorf("%w: generate.error_rate must be between 0.0 and 1.0", ErrInvalid)
	case g.Sets < 1:
		return fmt.Errorf("%w: generate.sets must be at least 1", ErrInvalid)
	case g.Workers < 1:
		return fmt.Errorf("%w: generate.workers must be at least 1", ErrInvalid)
	case g.FieldWeight < 0 || g.SegmentWeight < 0 || g.FieldWeight+g.SegmentWeight == 0:
		return fmt.Errorf("%w: generate.field_weight and generate.segment_weight must be non-negative and not both zero", ErrInvalid)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format must be console or json", ErrInvalid)
	}
	return nil
}
