// Package config loads beanlab settings from the environment and an optional
// YAML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sijoonlee/beanlab/di"
)

// EnvPrefix is prepended to every environment variable, e.g. BEANLAB_DATA_DIR.
const EnvPrefix = "BEANLAB"

type Config struct {
	Env             string        `mapstructure:"env"`
	LogLevel        string        `mapstructure:"log_level"`
	DataDir         string        `mapstructure:"data_dir"`
	ListenAddr      string        `mapstructure:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	v *viper.Viper
}

// Load reads settings from the environment and, when file is not empty, from
// that YAML file. Environment variables win over the file.
func Load(file string) (Config, error) {
	v := viper.New()
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("employees.max_page_size", 100)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("config: %s_SHUTDOWN_TIMEOUT must be > 0", EnvPrefix)
	}
	if n := v.GetInt("employees.max_page_size"); n <= 0 {
		return Config{}, fmt.Errorf("config: %s_EMPLOYEES_MAX_PAGE_SIZE must be > 0, got %d", EnvPrefix, n)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return Config{}, fmt.Errorf("config: %s_DATA_DIR must not be empty", EnvPrefix)
	}
	cfg.v = v
	return cfg, nil
}

// Properties exposes every setting, including nested keys such as
// "employees.max_page_size", as a di.PropertySource.
func (c Config) Properties() di.PropertySource {
	if c.v == nil {
		return di.NewMapProperties()
	}
	return viperProperties{v: c.v}
}

type viperProperties struct{ v *viper.Viper }

func (p viperProperties) Lookup(key string) (any, bool, error) {
	if !p.v.IsSet(key) {
		return nil, false, nil
	}
	return p.v.Get(key), true, nil
}
