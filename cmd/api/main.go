package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"bookstore-api/internal/config"
	"bookstore-api/pkg/logger"
)

func main() {
	// .env is optional; production uses the real environment.
	envFileErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	if envFileErr != nil {
		logger.Debug("no .env file found, using system environment variables")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("env", cfg.App.Environment).Str("version", cfg.App.Version).Msg("Starting bookstore API")

	if err := Serve(cfg); err != nil {
		logger.Error("Server failed", err)
		os.Exit(1)
	}
}
