package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported by the index route
const Version = "3.0.0"

// NewRouter wires every route onto a fresh gin engine
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Shift Scheduler Fixture API",
			"version":  Version,
			"profiles": []string{"feasible", "impossible"},
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Built-in fixtures
	fx := r.Group("/fixtures/:profile")
	{
		fx.GET("/volunteers.csv", h.DownloadFixture(kindVolunteers))
		fx.GET("/shifts.csv", h.DownloadFixture(kindShifts))
		fx.GET("/report", h.FixtureReport)
	}

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.GET("/runs", h.ListRuns)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/fixtures", h.RateLimitMiddleware(), h.GenerateCustom)
		api.POST("/validate", h.RateLimitMiddleware(), h.ValidateProfile)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
