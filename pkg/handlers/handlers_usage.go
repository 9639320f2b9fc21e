package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/database"
	"github.com/gin-gonic/gin"
)

const usageDays = 30

type usageTotals struct {
	Requests   int64 `json:"requests"`
	Shifts     int64 `json:"shifts"`
	Volunteers int64 `json:"volunteers"`
}

func sumUsage(history []database.APIUsage) usageTotals {
	var t usageTotals
	for _, u := range history {
		t.Requests += int64(u.RequestCount)
		t.Shifts += int64(u.TotalShifts)
		t.Volunteers += int64(u.TotalVolunteers)
	}
	return t
}

// usageReport renders a key's recent history, totals and what is left of
// today's quota
func (h *Handler) usageReport(c *gin.Context, key *database.APIKey) {
	history, err := database.UsageHistory(h.DB, key.ID, usageDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	today := database.UsageDate(time.Now())
	remaining := key.RateLimit
	for _, u := range history {
		if u.Date == today {
			remaining -= u.RequestCount
		}
	}
	if remaining < 0 || key.Revoked {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":        key.Name,
		"rate_limit":      key.RateLimit,
		"remaining_today": remaining,
		"revoked":         key.Revoked,
		"usage_history":   history,
		"totals":          sumUsage(history),
	})
}

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	raw, ok := c.Get("apiKey")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	h.usageReport(c, raw.(*database.APIKey))
}

// GetUsage returns usage stats for any key, revoked ones included
func (h *Handler) GetUsage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key id"})
		return
	}
	var key database.APIKey
	if err := h.DB.First(&key, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}
	h.usageReport(c, &key)
}
