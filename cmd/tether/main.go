package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tetherhq/tether/adapter/cli"
	cliAvailability "github.com/tetherhq/tether/adapter/cli/availability"
	"github.com/tetherhq/tether/internal/app"
	"github.com/tetherhq/tether/pkg/config"
	"github.com/tetherhq/tether/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.IsDevelopment() {
		logger = observability.NewLogger(observability.LogConfig{
			Level:  observability.LogLevelDebug,
			Format: observability.LogFormatText,
			Output: os.Stderr,
		})
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// In development, allow the CLI to run without a database
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		cliApp = cli.NewApp(container.FindAvailability, container.CheckConflicts)
		cliApp.SetCurrentUserID(container.UserID)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(cliAvailability.Cmd)

	cli.Execute()
}
