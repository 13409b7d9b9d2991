package main

import (
	"context"
	"os"

	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
	"github.com/viniciusfeitosaa/gymapp/internal/server"
)

// @title GymApp API
// @version 1.0
// @description Backend for personal trainers and their students: workouts, messages, progress and the PRO subscription.

// @host localhost:3001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer " followed by the JWT returned at login

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// the logger may not be configured yet
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
