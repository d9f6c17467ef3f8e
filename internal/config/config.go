// Package config loads ragctl settings from flags, environment, .env and an
// optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. RAGCTL_BASE_URL.
const EnvPrefix = "RAGCTL"

// Config holds all client settings.
type Config struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	StatusTTL         time.Duration `mapstructure:"status_ttl" validate:"gt=0"`
	DropDir           string        `mapstructure:"drop_dir"`
	AllowedExtensions []string      `mapstructure:"allowed_extensions" validate:"min=1,dive,required"`
	QueueSize         int           `mapstructure:"queue_size" validate:"gt=0"`
	LogFile           string        `mapstructure:"log_file"`
	Debug             bool          `mapstructure:"debug"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:5000")
	v.SetDefault("request_timeout", 2*time.Minute)
	v.SetDefault("status_ttl", 5*time.Second)
	v.SetDefault("drop_dir", "")
	v.SetDefault("allowed_extensions", []string{"pdf", "docx", "doc", "pptx", "ppt", "xlsx", "xls", "csv", "json", "txt"})
	v.SetDefault("queue_size", 16)
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
}

// Load reads configuration into a validated Config.
// Flags must already be bound on v. An empty configFile searches for
// ragctl.yaml in the working directory and $HOME/.config/ragctl; a missing
// file there is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] Could not load .env file: %v", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("ragctl")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ragctl"))
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})

	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return err
		}
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, fmt.Sprintf("%s: failed on '%s' tag", e.Field(), e.Tag()))
		}
		sort.Strings(msgs)
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}
