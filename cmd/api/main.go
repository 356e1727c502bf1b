package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/validator"
	"blog-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is for local development; deployed instances use the real environment
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.App.Environment, cfg.Log.Level, cfg.Log.File)
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ========================================
	// REQUEST VALIDATION
	// ========================================
	if err := validator.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure validator")
	}
	if err := validator.RegisterRule("post_status", postmodel.ValidateStatus); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validation rule")
	}

	logger.Info("Starting "+cfg.App.Name, map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	Serve(cfg)
}
