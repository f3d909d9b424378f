package main

import (
	"os"

	"github.com/fringe-app/fringe/internal/client"
	"github.com/fringe-app/fringe/internal/pkg/logger"
)

func main() {
	// NewClient orchestrates LoadConfigAndSetupLogger, SetupDatabase and
	// BuildDependencies
	app, err := client.NewClient()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize app")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal
	if err := app.Run(); err != nil {
		logger.Error().Err(err).Msg("App execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
