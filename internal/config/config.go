// Package config resolves runtime settings from flags, PREFLIGHT_* environment
// variables and an optional config file, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/preflight/internal/logger"
	"github.com/abhisek/preflight/internal/store"
)

// Keys understood in the config file. Each maps to PREFLIGHT_<KEY> in the
// environment.
const (
	KeyDB       = "db"
	KeyLogMode  = "log_mode"
	KeyNoResume = "no_resume"
	KeySplash   = "splash"
)

// Config holds resolved settings.
type Config struct {
	DBPath  string
	LogMode string

	// LogPath is where the TUI writes log output, next to the database.
	LogPath string

	// Resume reopens saved progress when a template is played.
	Resume bool

	// Splash shows the welcome animation before the home screen.
	Splash bool

	// File is the config file that was read, empty when none was found.
	File string
}

// Load resolves the configuration. flags may be nil; when given, a changed
// "db" or "log-mode" flag wins over everything else.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyLogMode, logger.ModeDev)
	v.SetDefault(KeyNoResume, false)
	v.SetDefault(KeySplash, true)
	v.SetEnvPrefix("PREFLIGHT")
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("db"); f != nil {
			if err := v.BindPFlag(KeyDB, f); err != nil {
				return nil, fmt.Errorf("bind db flag: %w", err)
			}
		}
		if f := flags.Lookup("log-mode"); f != nil {
			if err := v.BindPFlag(KeyLogMode, f); err != nil {
				return nil, fmt.Errorf("bind log-mode flag: %w", err)
			}
		}
	}

	v.SetConfigName("config")
	if override := os.Getenv("PREFLIGHT_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		LogMode: v.GetString(KeyLogMode),
		Resume:  !v.GetBool(KeyNoResume),
		Splash:  v.GetBool(KeySplash),
		File:    v.ConfigFileUsed(),
	}

	dbPath, err := resolveDBPath(v.GetString(KeyDB))
	if err != nil {
		return nil, err
	}
	cfg.DBPath = dbPath
	cfg.LogPath = filepath.Join(filepath.Dir(dbPath), "preflight.log")
	return cfg, nil
}

func resolveDBPath(p string) (string, error) {
	if p == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return "", fmt.Errorf("resolve DB path: %w", err)
		}
		return path, nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expand DB path: %w", err)
	}
	if err := store.EnsureDir(expanded); err != nil {
		return "", fmt.Errorf("create DB dir: %w", err)
	}
	return expanded, nil
}

// configDir returns $XDG_CONFIG_HOME/preflight or ~/.config/preflight.
func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "preflight"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "preflight"), nil
}
