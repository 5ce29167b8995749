package config

import (
	"fmt"
	"time"

	"github.com/kalambet/mercuryprefs/internal/settings"
)

type Config struct {
	Server   ServerConfig
	Settings SettingsConfig
	Storage  StorageConfig
	Watch    WatchConfig
	Log      LogConfig
	API      APIConfig
}

type ServerConfig struct {
	Port int
}

type SettingsConfig struct {
	Path            string
	LegacyFrameSize bool
}

type StorageConfig struct {
	DataDir     string
	HistoryKeep int
}

type WatchConfig struct {
	Enabled  bool
	Debounce string
}

type LogConfig struct {
	Level string
}

type APIConfig struct {
	Token string
}

func defaults() Config {
	return Config{
		Server:   ServerConfig{Port: 4300},
		Settings: SettingsConfig{Path: settings.DefaultPath()},
		Storage: StorageConfig{
			DataDir:     defaultDataDir(),
			HistoryKeep: 200,
		},
		Watch: WatchConfig{Enabled: true, Debounce: "200ms"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads configuration from the JSON config file and applies
// MERCURYPREFS_* environment overrides. The config file lives at
// $MERCURYPREFS_CONFIG, or mercuryprefs/config.json under the user config
// directory.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

// APIToken returns the bearer token for the local API: MERCURYPREFS_API_TOKEN
// when set, otherwise the token file in the data dir, created on first use.
func APIToken(cfg Config) (string, error) {
	if cfg.API.Token != "" {
		return cfg.API.Token, nil
	}
	return LoadOrCreateToken(cfg.Storage.DataDir)
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range", c.Server.Port)
	}
	if c.Storage.HistoryKeep < 0 {
		return fmt.Errorf("invalid config: storage.history_keep must not be negative")
	}
	if c.Settings.Path == "" {
		return fmt.Errorf("invalid config: settings.path is empty")
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid config: watch.debounce: %w", err)
	}
	return nil
}

// DebounceDuration returns watch.debounce parsed. Load has already validated it.
func (c Config) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Watch.Debounce)
	return d
}
