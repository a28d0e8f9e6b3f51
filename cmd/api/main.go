package main

import (
	"os"

	"github.com/tce-csbs/participation-portal/internal/pkg/logger"
	"github.com/tce-csbs/participation-portal/internal/server"
)

// @title Participation Portal API
// @version 1.0
// @description Hackathon and internship participation tracking for the CSBS department

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until shutdown
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
