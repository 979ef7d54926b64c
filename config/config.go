package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SCCCTL_SCC_PASSWORD.
const EnvPrefix = "SCCCTL"

// Load loads the configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sccctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/sccctl/")
	}

	// Read config file; without an explicit path the environment alone may suffice
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// SCC defaults; empty keys are registered so environment overrides bind
	v.SetDefault("scc.url", "https://scc.suse.com")
	v.SetDefault("scc.username", "")
	v.SetDefault("scc.password", "")
	v.SetDefault("scc.proxy", "")
	v.SetDefault("scc.timeout", "30s")
	v.SetDefault("scc.user_agent", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.SCC.URL == "" {
		return fmt.Errorf("scc.url is required")
	}
	if u, err := url.Parse(cfg.SCC.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("scc.url must be an absolute URL: %s", cfg.SCC.URL)
	}

	if cfg.SCC.Username == "" {
		return fmt.Errorf("scc.username is required")
	}
	if cfg.SCC.Password == "" {
		return fmt.Errorf("scc.password is required")
	}

	if cfg.SCC.Proxy != "" {
		if u, err := url.Parse(cfg.SCC.Proxy); err != nil || u.Host == "" {
			return fmt.Errorf("invalid scc.proxy: %s", cfg.SCC.Proxy)
		}
	}

	if cfg.SCC.Timeout < 0 {
		return fmt.Errorf("scc.timeout must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
