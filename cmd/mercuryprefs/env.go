package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kalambet/mercuryprefs/internal/config"
	"github.com/kalambet/mercuryprefs/internal/settings"
	"github.com/kalambet/mercuryprefs/internal/storage"
)

// appEnv is what most commands need: config, the loaded settings store and
// the history database recording every write.
type appEnv struct {
	cfg      config.Config
	settings *settings.Store
	history  *storage.Store
	logger   *slog.Logger
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

var loadConfig = config.Load

// openEnv loads config, opens history and loads the settings file. Field
// and corruption problems are reported as warnings; the store stays usable.
func openEnv() (*appEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if settingsFlag != "" {
		cfg.Settings.Path = settingsFlag
	}
	level := cfg.Log.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger := setupLogging(level)

	history, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	rec := storage.NewRecorder(history, cfg.Storage.HistoryKeep, logger)

	store := settings.New(cfg.Settings.Path,
		settings.WithLogger(logger),
		settings.WithLegacyFrameSizeFallback(cfg.Settings.LegacyFrameSize),
		settings.WithListener(rec.Record),
	)
	if err := store.Load(); err != nil {
		var fe *settings.FieldError
		switch {
		case errors.Is(err, settings.ErrCorruptDocument):
			printWarning("%v; using defaults until the next save", err)
		case errors.As(err, &fe):
			printWarning("some settings could not be read and use defaults: %v", err)
		default:
			history.Close()
			return nil, err
		}
	}

	return &appEnv{cfg: cfg, settings: store, history: history, logger: logger}, nil
}

func (e *appEnv) Close() {
	if err := e.history.Close(); err != nil {
		e.logger.Warn("closing history", "error", err)
	}
}
