// Package config provides application configuration for mcpsync using Viper.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = "mcpsync"

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// AutoBackup makes sync and remove back up target configs before writing.
	AutoBackup bool `mapstructure:"auto_backup" yaml:"auto_backup"`

	// BackupRetentionCount caps how many backups per client are kept.
	// Zero means keep everything.
	BackupRetentionCount int `mapstructure:"backup_retention_count" yaml:"backup_retention_count"`

	// DefaultSyncTargets restricts bare `mcpsync sync <source>` to these
	// client kinds. Empty means all available clients.
	DefaultSyncTargets []string `mapstructure:"default_sync_targets" yaml:"default_sync_targets"`

	// ValidateServers rejects records that fail validation before writes.
	ValidateServers bool `mapstructure:"validate_servers" yaml:"validate_servers"`

	// Clients holds per-client overrides keyed by client kind.
	Clients map[string]ClientOverride `mapstructure:"clients" yaml:"clients,omitempty"`
}

// ClientOverride contains configuration overrides for a specific client.
type ClientOverride struct {
	// ConfigPath replaces the discovered configuration file path.
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix("MCPSYNC")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("auto_backup", true)
	viper.SetDefault("backup_retention_count", 10)
	viper.SetDefault("validate_servers", true)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
			// Implicit load with no file: defaults apply.
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration for values that would misdirect
// later operations.
func (c *Config) Validate() error {
	if c.BackupRetentionCount < 0 {
		return errors.Newf("backup_retention_count must be >= 0, got %d", c.BackupRetentionCount)
	}
	for _, kind := range c.DefaultSyncTargets {
		if !slices.Contains(paths.Kinds(), kind) {
			return errors.Newf("unknown client kind in default_sync_targets: %q", kind)
		}
	}
	for kind := range c.Clients {
		if !slices.Contains(paths.Kinds(), kind) {
			return errors.Newf("unknown client kind in clients: %q", kind)
		}
	}
	return nil
}

// ConfigPathFor returns the override config path for a client kind, or ""
// when the discovered default should be used.
func (c *Config) ConfigPathFor(kind string) string {
	if o, ok := c.Clients[kind]; ok {
		return o.ConfigPath
	}
	return ""
}

// DefaultFilePath returns where WriteDefault places the config file.
func DefaultFilePath() string {
	return filepath.Join(paths.AppConfigDir(), "config.yaml")
}

// WriteDefault writes a starter config file with the default values.
// Returns the written path. Fails if the file already exists unless force
// is set.
func WriteDefault(force bool) (string, error) {
	path := DefaultFilePath()
	if !force && fileutil.Exists(path) {
		return "", errors.Newf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "creating config directory")
	}

	cfg := Config{
		Version:              1,
		AutoBackup:           true,
		BackupRetentionCount: 10,
		ValidateServers:      true,
	}
	if err := fileutil.AtomicWriteYAML(path, &cfg); err != nil {
		return "", errors.Wrap(err, "writing default config")
	}
	return path, nil
}
