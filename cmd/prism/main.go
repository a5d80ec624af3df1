package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"prism/internal/api"
	"prism/internal/config"
	"prism/internal/logging"
	"prism/internal/record"
	"prism/internal/reqtrace"
	"prism/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to a prism config file (defaults to ./prism.yaml when present)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "prism: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Logs go to a file; stdout belongs to bubbletea.
	logger, err := logging.NewFile(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	trace := reqtrace.NewLog(50)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := trace.Shutdown(ctx); err != nil {
			logger.Warn("trace shutdown", zap.Error(err))
		}
	}()

	client := api.New(cfg.BaseURL(),
		api.WithLogger(logger),
		api.WithTrace(trace),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
	)
	recorder := record.New(cfg.Recorder)

	logger.Info("prism starting",
		zap.String("environment", cfg.Environment),
		zap.String("backend", cfg.BaseURL()))

	model := ui.NewAppModel(client, recorder, trace, logger, cfg.Environment).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen())
	trace.SetOnChange(func() { p.Send(ui.RequestLogChangedMsg{}) })

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
