package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/auth"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/database"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/feasibility"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/fixtures"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB      *gorm.DB
	Auth    *auth.Authenticator
	Logger  *zap.Logger
	Format  fixtures.Format
	IDStyle fixtures.IDStyle
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func bearer(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	}
	return token
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key for generation routes
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		// Fetch or create the key record so usage can be tracked
		var apiKey database.APIKey
		if err := h.DB.Where(database.APIKey{Key: key}).Attrs(database.APIKey{
			Name:       userID,
			KeyPreview: auth.KeyPreview(key),
			RateLimit:  10000,
		}).FirstOrCreate(&apiKey).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			return
		}

		if apiKey.Revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			return
		}

		now := time.Now()
		h.DB.Model(&apiKey).Update("last_used", &now)

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// RateLimitMiddleware rejects a key once today's recorded requests reach its
// rate limit. It runs after APIKeyMiddleware.
func (h *Handler) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.Get("apiKey")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}
		apiKey := raw.(*database.APIKey)

		used, err := database.RequestsOn(h.DB, apiKey.ID, database.UsageDate(time.Now()))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load usage"})
			return
		}
		if used >= apiKey.RateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Daily rate limit reached",
				"rate_limit": apiKey.RateLimit,
			})
			return
		}
		c.Next()
	}
}

// options resolves the format and id style of a request, falling back to the
// handler defaults
func (h *Handler) options(c *gin.Context) (fixtures.Format, fixtures.IDStyle, error) {
	format := h.Format
	if q := c.Query("format"); q != "" {
		f, err := fixtures.ParseFormat(q)
		if err != nil {
			return "", "", err
		}
		format = f
	}
	if format == "" {
		format = fixtures.FormatLegacy
	}

	style := h.IDStyle
	if q := c.Query("id_style"); q != "" {
		s, err := fixtures.ParseIDStyle(q)
		if err != nil {
			return "", "", err
		}
		style = s
	}
	return format, style, nil
}

func (h *Handler) buildPreset(c *gin.Context, kind string) (*fixtures.Fixture, fixtures.Format, bool) {
	name := c.Param("profile")
	profile, err := fixtures.LookupProfile(name)
	if err != nil {
		metrics.RecordRequest(name, kind, "not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, "", false
	}
	format, style, err := h.options(c)
	if err != nil {
		metrics.RecordRequest(name, kind, "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}
	fx, err := fixtures.NewGenerator(h.logger(), style).Build(profile)
	if err != nil {
		metrics.RecordRequest(name, kind, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, "", false
	}
	return fx, format, true
}

const (
	kindVolunteers = "volunteers.csv"
	kindShifts     = "shifts.csv"
)

// DownloadFixture serves one CSV (kindVolunteers or kindShifts) of a built-in profile
func (h *Handler) DownloadFixture(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.downloadFixture(c, kind)
	}
}

func (h *Handler) downloadFixture(c *gin.Context, kind string) {
	fx, format, ok := h.buildPreset(c, kind)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var filename string
	var rows int
	var err error
	if kind == kindVolunteers {
		filename, rows = fx.Profile.VolunteersFile, len(fx.Volunteers)
		err = fx.WriteVolunteers(&buf, format)
	} else {
		filename, rows = fx.Profile.ShiftsFile, len(fx.Shifts)
		err = fx.WriteShifts(&buf, format)
	}
	if err != nil {
		metrics.RecordRequest(fx.Profile.Name, kind, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.RecordRows(fx.Profile.Name, kind, rows)
	metrics.RecordRequest(fx.Profile.Name, kind, "ok")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// FixtureReport returns the feasibility report of a built-in profile
func (h *Handler) FixtureReport(c *gin.Context) {
	fx, _, ok := h.buildPreset(c, "report")
	if !ok {
		return
	}
	report := feasibility.NewAnalyzer(fx.Volunteers, fx.Shifts).Analyze()
	metrics.RecordFeasibility(fx.Profile.Name, report.Feasible)
	metrics.RecordRequest(fx.Profile.Name, "report", "ok")
	c.JSON(http.StatusOK, gin.H{
		"profile": fx.Profile.Name,
		"report":  report,
	})
}

// GenerateCustom builds fixtures from a JSON profile and returns both CSVs
// alongside the feasibility report
func (h *Handler) GenerateCustom(c *gin.Context) {
	var spec fixtures.ProfileSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := spec.Profile()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	format, style, err := h.options(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fx, err := fixtures.NewGenerator(h.logger(), style).Build(profile)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fixtures.ErrInvalidPlan) || errors.Is(err, fixtures.ErrInvalidGroups) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	var vols, shifts bytes.Buffer
	if err := fx.WriteVolunteers(&vols, format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := fx.WriteShifts(&shifts, format); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fixtures.ErrUnrepresentable) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	report := feasibility.NewAnalyzer(fx.Volunteers, fx.Shifts).Analyze()

	var seed *int64
	if profile.Shifts.Jitter != nil {
		s := profile.Shifts.Jitter.Seed
		seed = &s
	}
	runs := []database.GenerationRun{
		{Profile: profile.Name, Kind: "volunteers", Format: string(format), Rows: len(fx.Volunteers), SHA256: digest(vols.Bytes()), Seed: seed, Source: "http"},
		{Profile: profile.Name, Kind: "shifts", Format: string(format), Rows: len(fx.Shifts), SHA256: digest(shifts.Bytes()), Seed: seed, Source: "http"},
	}
	if err := database.RecordRuns(h.DB, runs); err != nil {
		h.logger().Warn("Could not record generation runs", zap.Error(err))
	}

	h.RecordUsage(c, len(fx.Shifts), len(fx.Volunteers))
	metrics.RecordRows(profile.Name, kindVolunteers, len(fx.Volunteers))
	metrics.RecordRows(profile.Name, kindShifts, len(fx.Shifts))
	metrics.RecordFeasibility(profile.Name, report.Feasible)

	c.JSON(http.StatusOK, gin.H{
		"profile":        profile.Name,
		"format":         format,
		"volunteers_csv": vols.String(),
		"shifts_csv":     shifts.String(),
		"report":         report,
	})
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, shiftCount, volunteerCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := database.UsageDate(time.Now())

	// Single-query upsert, supported by both Postgres and SQLite
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":    gorm.Expr("request_count + ?", 1),
			"total_shifts":     gorm.Expr("total_shifts + ?", shiftCount),
			"total_volunteers": gorm.Expr("total_volunteers + ?", volunteerCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:           apiKey.ID,
		Date:            today,
		RequestCount:    1,
		TotalShifts:     shiftCount,
		TotalVolunteers: volunteerCount,
	}).Error
	if err != nil {
		h.logger().Warn("Could not record usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}
