package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/generate"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix           = "CRAYON"
	DefaultConfigName   = "crayon"
	DefaultLogLevel     = string(LogLevelWarning)
	DefaultVersionFile  = "src/core/version.js"
	DefaultVersionLabel = "crayon"
	DefaultHistoryDB    = ".crayon/history.db"
)

type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Version   VersionConfig   `mapstructure:"version"`
	Generator GeneratorConfig `mapstructure:"generator"`
	History   HistoryConfig   `mapstructure:"history"`
}

type VersionConfig struct {
	File  string `mapstructure:"file"`
	Label string `mapstructure:"label"`
}

type GeneratorConfig struct {
	MaxStep int   `mapstructure:"max_step"`
	Step    int   `mapstructure:"step"`
	Seed    int64 `mapstructure:"seed"`
}

type HistoryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Database string `mapstructure:"database"`
}

// flagKeys maps command line flag names onto configuration keys. Commands
// only define the flags they need; missing ones are skipped when binding.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"file":       "version.file",
	"label":      "version.label",
	"max-step":   "generator.max_step",
	"step":       "generator.step",
	"seed":       "generator.seed",
	"history":    "history.enabled",
	"history-db": "history.database",
}

// Load reads configuration from defaults, the config file, the environment
// and flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	if o.dotEnvPath != "" {
		if err := godotenv.Load(o.dotEnvPath); err != nil && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, configPath(flags, o)); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errFactory.WithData(errors.ErrBindFlags, name)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	var fieldErr *FieldError
	switch {
	case c.Version.File == "":
		fieldErr = &FieldError{"version.file", c.Version.File, "must not be empty"}
	case c.Version.Label == "":
		fieldErr = &FieldError{"version.label", c.Version.Label, "must not be empty"}
	case c.Generator.MaxStep < 2:
		fieldErr = &FieldError{"generator.max_step", c.Generator.MaxStep, "must be at least 2"}
	case c.Generator.Step <= 0:
		fieldErr = &FieldError{"generator.step", c.Generator.Step, "must be positive"}
	case c.History.Enabled && c.History.Database == "":
		fieldErr = &FieldError{"history.database", c.History.Database, "required when history is enabled"}
	}

	if fieldErr != nil {
		return errFactory.WithData(errors.ErrInvalidConfig, fieldErr)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("version.file", DefaultVersionFile)
	v.SetDefault("version.label", DefaultVersionLabel)
	v.SetDefault("generator.max_step", generate.DefaultMaxStep)
	v.SetDefault("generator.step", generate.DefaultStep)
	v.SetDefault("generator.seed", 0)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.database", DefaultHistoryDB)
}

func configPath(flags *pflag.FlagSet, o *options) string {
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}

	if o.configPath != "" {
		return o.configPath
	}

	return os.Getenv(EnvPrefix + "_CONFIG")
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName(DefaultConfigName)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return nil
}

// FieldError describes a single invalid configuration value.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) String() string {
	return e.Error()
}
