package handlers

import (
	"fmt"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/auth"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/config"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/database"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/fixtures"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewServer validates the configuration, opens the database, seeds the admin
// user and returns the router. Both the standalone server and the serverless
// entry point start through here.
func NewServer(cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.RequireSecrets(); err != nil {
		return nil, err
	}
	format, err := fixtures.ParseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("FIXTURE_FORMAT: %w", err)
	}
	style, err := fixtures.ParseIDStyle(cfg.IDStyle)
	if err != nil {
		return nil, fmt.Errorf("FIXTURE_ID_STYLE: %w", err)
	}

	db, err := database.Open(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		return nil, err
	}

	authn := auth.New(cfg.JWTSecret, cfg.APIMasterSecret)
	if err := authn.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Warn("Could not create default admin", zap.Error(err))
	}

	return NewRouter(&Handler{
		DB:      db,
		Auth:    authn,
		Logger:  logger,
		Format:  format,
		IDStyle: style,
	}), nil
}
