// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Download DownloadConfig
	Log      LogConfig
}

// ServerConfig locates the statement processing service.
type ServerConfig struct {
	URL            string
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// DownloadConfig controls where report archives are saved.
type DownloadConfig struct {
	Dir string
}

// LogConfig controls the client debug log. The terminal belongs to the UI,
// so logs go to a file.
type LogConfig struct {
	Path string
}

// Timeout returns the submit deadline as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Load reads configuration from file and env. Env var overrides use prefix
// NEWSTATEMENT_. The config file is resolved from path, then the
// NEWSTATEMENT_CONFIG env var, then the user config dir.
func Load(path string) (Config, error) {
	v := viper.New()

	cwd, _ := os.Getwd()
	v.SetDefault("server.url", "http://127.0.0.1:8000")
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("download.dir", cwd)
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "newstatement", "client.log"))

	v.SetConfigType("toml")

	cfgPath := path
	if cfgPath == "" {
		cfgPath = os.Getenv("NEWSTATEMENT_CONFIG")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "newstatement"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NEWSTATEMENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = 30
	}
	return c, nil
}
