// Package config loads polymath settings from config.yaml in the config
// directory, with POLYMATH_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "POLYMATH"

	// HomeEnv overrides the config directory.
	HomeEnv = "POLYMATH_HOME"
)

const (
	keyOwner              = "owner"
	keyRepo               = "repo"
	keyBranch             = "branch"
	keyDataPath           = "data_path"
	keyAPIURL             = "api_url"
	keyAutoSync           = "auto_sync"
	keyAutoSyncIntervalMs = "auto_sync_interval_ms"
	keySchemaVersion      = "schema_version"
	keySyncOnWrite        = "sync_on_write"
	keyRequestTimeoutMs   = "request_timeout_ms"
	keyDBPath             = "db_path"
	keyCatalogPath        = "catalog_path"
	keyLogLevel           = "log_level"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// minAutoSyncInterval keeps auto-sync from hammering the API.
const minAutoSyncInterval = time.Second

const defaultConfigYAML = `# polymath configuration

# GitHub account whose repository holds the synced progress file.
# Leave empty to keep everything local.
owner: ""
repo: polymath-data
branch: main
data_path: polymath.json

# Push the current state on a timer while logged in as the owner.
auto_sync: false
auto_sync_interval_ms: 300000

# Push right after every edit.
sync_on_write: true

log_level: info
`

// Config is the configuration surface of the tracker.
type Config struct {
	Owner              string `mapstructure:"owner"`
	Repo               string `mapstructure:"repo"`
	Branch             string `mapstructure:"branch"`
	DataPath           string `mapstructure:"data_path"`
	APIURL             string `mapstructure:"api_url"`
	AutoSync           bool   `mapstructure:"auto_sync"`
	AutoSyncIntervalMs int    `mapstructure:"auto_sync_interval_ms"`
	SchemaVersion      string `mapstructure:"schema_version"`
	SyncOnWrite        bool   `mapstructure:"sync_on_write"`
	RequestTimeoutMs   int    `mapstructure:"request_timeout_ms"`
	DBPath             string `mapstructure:"db_path"`
	CatalogPath        string `mapstructure:"catalog_path"`
	LogLevel           string `mapstructure:"log_level"`
}

// DefaultDir returns $POLYMATH_HOME, or ~/.polymath.
func DefaultDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".polymath"
	}
	return filepath.Join(home, ".polymath")
}

// Default returns the built-in settings for the given config directory.
func Default(dir string) Config {
	return Config{
		Repo:               "polymath-data",
		Branch:             "main",
		DataPath:           "polymath.json",
		APIURL:             "https://api.github.com",
		AutoSyncIntervalMs: 300000,
		SchemaVersion:      "3.0",
		SyncOnWrite:        true,
		RequestTimeoutMs:   15000,
		DBPath:             filepath.Join(dir, "polymath.db"),
		LogLevel:           "info",
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault(keyOwner, d.Owner)
	v.SetDefault(keyRepo, d.Repo)
	v.SetDefault(keyBranch, d.Branch)
	v.SetDefault(keyDataPath, d.DataPath)
	v.SetDefault(keyAPIURL, d.APIURL)
	v.SetDefault(keyAutoSync, d.AutoSync)
	v.SetDefault(keyAutoSyncIntervalMs, d.AutoSyncIntervalMs)
	v.SetDefault(keySchemaVersion, d.SchemaVersion)
	v.SetDefault(keySyncOnWrite, d.SyncOnWrite)
	v.SetDefault(keyRequestTimeoutMs, d.RequestTimeoutMs)
	v.SetDefault(keyDBPath, d.DBPath)
	v.SetDefault(keyCatalogPath, d.CatalogPath)
	v.SetDefault(keyLogLevel, d.LogLevel)
}

// Load reads config.yaml from dir. A missing file is not an error;
// environment variables such as POLYMATH_OWNER override the file.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default(dir))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EnsureDefaultFile writes a commented config.yaml into dir unless one
// exists.
func EnsureDefaultFile(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	path := filepath.Join(dir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Validate rejects values the rest of the program cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.AutoSync && c.AutoSyncInterval() < minAutoSyncInterval {
		errs = append(errs, fmt.Errorf("%s must be at least %d", keyAutoSyncIntervalMs, minAutoSyncInterval.Milliseconds()))
	}
	if c.RequestTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", keyRequestTimeoutMs))
	}
	if c.SchemaVersion == "" {
		errs = append(errs, fmt.Errorf("%s is required", keySchemaVersion))
	}
	if c.Owner != "" && (c.Repo == "" || c.DataPath == "") {
		errs = append(errs, fmt.Errorf("%s and %s are required when %s is set", keyRepo, keyDataPath, keyOwner))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%s %q is not one of debug, info, warn, error", keyLogLevel, c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// RemoteEnabled reports whether an owner is configured.
func (c Config) RemoteEnabled() bool {
	return c.Owner != ""
}

func (c Config) AutoSyncInterval() time.Duration {
	return time.Duration(c.AutoSyncIntervalMs) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}
