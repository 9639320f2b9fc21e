package handler

import (
	"log"
	"net/http"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/config"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/handlers"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var r http.Handler

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg := config.Load()

	gin.SetMode(gin.ReleaseMode)
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}

	engine, err := handlers.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Server setup failed", zap.Error(err))
	}
	r = engine
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
