package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/checklist"
	"github.com/abhisek/preflight/internal/config"
	"github.com/abhisek/preflight/internal/logger"
	"github.com/abhisek/preflight/internal/store"
)

// env bundles what every subcommand needs.
type env struct {
	cfg   *config.Config
	store *store.Store
	log   *logger.Logger
}

// openEnv resolves config, opens the store and builds the logger. When
// logToFile is set the log goes to the file next to the database so the
// TUI keeps the terminal.
func openEnv(cmd *cobra.Command, logToFile bool) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath := ""
	if logToFile {
		logPath = cfg.LogPath
	}
	log, err := logger.New(cfg.LogMode, logPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", cfg.DBPath, "config", cfg.File)

	return &env{cfg: cfg, store: st, log: log}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}

// resolveTemplate finds a template by id first, then by name.
func resolveTemplate(ctx context.Context, repo store.TemplateRepo, ref string) (*checklist.Template, error) {
	t, err := repo.Get(ctx, ref)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	t, err = repo.FindByName(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no template with id or name %q", ref)
	}
	return t, err
}
