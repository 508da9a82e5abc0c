package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-tui/internal/api"
	"github.com/noah-isme/sma-admin-tui/internal/service"
	"github.com/noah-isme/sma-admin-tui/internal/store"
	"github.com/noah-isme/sma-admin-tui/internal/ui"
	"github.com/noah-isme/sma-admin-tui/pkg/config"
	"github.com/noah-isme/sma-admin-tui/pkg/logger"
	"github.com/noah-isme/sma-admin-tui/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "admin-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cacheFiles, err := storage.NewLocalStorage(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	exportFiles, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		return err
	}

	client := api.New(cfg.API, log)
	validate := validator.New()
	snapshot := store.NewSnapshotStore(cacheFiles, log)

	students := service.NewStudentService(client, snapshot, validate, log)
	fees := service.NewFeeService(client, validate, log)
	exports := service.NewExportService(exportFiles, log)

	log.Info("starting admin tui",
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.String("env", cfg.Env))

	model := ui.New(students, fees, exports, cfg.Overdue.Interval, log)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
