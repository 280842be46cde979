package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/persist"
)

func main() {
	configPath := flag.String("config", config.ConfigPath(), "path to the TOML config file")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "easel:", err)
		os.Exit(1)
	}
	if *writeConfig {
		if err := cfg.Save(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "easel:", err)
			os.Exit(1)
		}
		fmt.Println("wrote", *configPath)
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "easel:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		return err
	}
	defer logger.Close()

	backend, files, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo := persist.NewRepository(backend, cfg.Storage.Key)
	m := newModel(cfg, repo, logger.Logger)
	m.ed.Load(context.Background())

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.Storage.Watch && files != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w := persist.NewWatcher(repo, files, func() { p.Send(reloadMsg{}) }, logger.Logger)
		if err := w.Start(ctx); err != nil {
			logger.Warn("file watch disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	logger.Info("starting", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)
	_, err = p.Run()
	return err
}

// openBackend opens the configured store. The file backend is also returned
// on its own so it can be watched.
func openBackend(cfg *config.Config) (persist.Backend, *persist.FileBackend, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		b, err := persist.NewSQLiteBackend(cfg.SQLitePath())
		return b, nil, err
	case config.BackendMemory:
		return persist.NewMemoryBackend(), nil, nil
	default:
		b, err := persist.NewFileBackend(cfg.Storage.Dir)
		return b, b, err
	}
}
