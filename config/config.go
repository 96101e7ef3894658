package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultManifestName is used when MANIFEST_NAME is not set.
const DefaultManifestName = "mod.json"

// Config holds all configuration for the application.
// Values are loaded by Viper from a .env file and/or environment variables.
type Config struct {
	HostVersion  string `mapstructure:"HOST_VERSION"`  // Version of the host the mods are resolved against
	ModsDir      string `mapstructure:"MODS_DIR"`      // Directory holding one subdirectory per mod
	ManifestName string `mapstructure:"MANIFEST_NAME"` // Manifest file name inside each mod directory
	DatabasePath string `mapstructure:"DATABASE_PATH"` // Content registry; defaults to <MODS_DIR>/registry.db
}

var envKeys = []string{"HOST_VERSION", "MODS_DIR", "MANIFEST_NAME", "DATABASE_PATH"}

// LoadConfig reads configuration from a .env file in path and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)   // Path to look for the config file in
	v.SetConfigName(".env") // Name of config file (without extension)
	v.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	vipErr := v.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Debug("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	processConfigDefaults(&config)
	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// processConfigDefaults fills in values that have a sensible default.
func processConfigDefaults(config *Config) {
	if config.ManifestName == "" {
		config.ManifestName = DefaultManifestName
	}
	if config.HostVersion == "" {
		slog.Warn("HOST_VERSION not set, mods with a min or max version will fail to resolve")
	}
}

// validateAndEnsureDirectories checks MODS_DIR, creates it when missing and
// derives the database path from it.
func validateAndEnsureDirectories(config *Config) error {
	if config.ModsDir == "" {
		slog.Error("MODS_DIR is not set")
		return fmt.Errorf("MODS_DIR is required")
	}

	if _, err := os.Stat(config.ModsDir); os.IsNotExist(err) {
		slog.Info("Mods directory does not exist, creating it", "path", config.ModsDir)
		if err := os.MkdirAll(config.ModsDir, 0755); err != nil {
			slog.Error("Failed to create mods directory", "path", config.ModsDir, "error", err)
			return err
		}
	} else if err != nil {
		slog.Error("Failed to check mods directory", "path", config.ModsDir, "error", err)
		return err
	}

	if config.DatabasePath == "" {
		config.DatabasePath = filepath.Join(config.ModsDir, "registry.db")
	}
	return nil
}
