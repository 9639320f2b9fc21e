package main

import (
	"log"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/config"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/handlers"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	r, err := handlers.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Server setup failed", zap.Error(err))
	}

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
