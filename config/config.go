package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	dc "github.com/samujjwal/rental-sub006/data/config"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DISCOVERY_SERVER_PORT.
const EnvPrefix = "DISCOVERY"

// Config represents the configuration implementation.
type Config struct {
	AppName  string
	RunMode  string
	Server   *Server
	Logger   *Logger
	Observes *Observes
	Data     *dc.Config
	Search   *Search
	Viper    *viper.Viper
}

// LoadConfig loads the configuration from configPath, or from the default
// search paths when configPath is empty. A missing file in the default paths
// is not an error; defaults and environment variables still apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/discovery")
		v.AddConfigPath("$HOME/.discovery")
		v.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v), nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:  getStringOrDefault(v, "app_name", "discovery"),
		RunMode:  getStringOrDefault(v, "run_mode", "release"),
		Server:   getServerConfig(v),
		Logger:   getLoggerConfig(v),
		Observes: getObservesConfig(v),
		Data:     dc.GetConfig(v),
		Search:   getSearchConfig(v),
		Viper:    v,
	}
}

// Watch watches the configuration file and invokes callback with the
// reloaded configuration on every change.
func Watch(c *Config, callback func(*Config)) {
	if c == nil || c.Viper == nil || c.Viper.ConfigFileUsed() == "" {
		return
	}
	c.Viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		callback(FromViper(c.Viper))
	})
	c.Viper.WatchConfig()
}
