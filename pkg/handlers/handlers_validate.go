package handlers

import (
	"net/http"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/feasibility"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/fixtures"
	"github.com/gin-gonic/gin"
)

// ValidateProfile checks a JSON profile without returning CSV bodies
func (h *Handler) ValidateProfile(c *gin.Context) {
	var spec fixtures.ProfileSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	profile, err := spec.Profile()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	if len(profile.Groups) == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "At least one volunteer group is required"})
		return
	}

	format, style, err := h.options(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}

	fx, err := fixtures.NewGenerator(h.logger(), style).Build(profile)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}
	if err := format.CheckShifts(fx.Shifts); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"volunteer_count": len(fx.Volunteers),
			"shift_count":     len(fx.Shifts),
		},
		"report": feasibility.NewAnalyzer(fx.Volunteers, fx.Shifts).Analyze(),
	})
}
