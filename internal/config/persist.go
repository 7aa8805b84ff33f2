package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (HPCQ_*)
// 3. User config file (~/.config/hpcq/config.yaml)
// 4. System config file (/etc/hpcq/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	// Set config search paths (order matters)
	// User config (highest priority)
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "hpcq"))
	}

	// Home directory fallback
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".hpcq"))
	}

	// System-wide config (lower priority)
	viper.AddConfigPath("/etc/hpcq")

	// Current directory (for development)
	viper.AddConfigPath(".")

	// Environment variables
	viper.SetEnvPrefix("HPCQ")
	viper.AutomaticEnv()

	// Set defaults (lowest priority)
	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; will use defaults
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("bin_dir", "")
	viper.SetDefault("poll_interval", "30s")
	viper.SetDefault("command_timeout", "60s")
	viper.SetDefault("max_retries", 3)
	viper.SetDefault("retry_delay", "5s")
}

// LoadFromViper copies resolved Viper values into the Global config.
func LoadFromViper() {
	Global.BinDir = viper.GetString("bin_dir")
	Global.MaxRetries = viper.GetInt("max_retries")

	if d, err := time.ParseDuration(viper.GetString("poll_interval")); err == nil && d > 0 {
		Global.PollInterval = d
	}
	if d, err := time.ParseDuration(viper.GetString("command_timeout")); err == nil && d >= 0 {
		Global.CommandTimeout = d
	}
	if d, err := time.ParseDuration(viper.GetString("retry_delay")); err == nil && d > 0 {
		Global.RetryDelay = d
	}
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".hpcq", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "hpcq", ConfigFilename+"."+ConfigType), nil
}
