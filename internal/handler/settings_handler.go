package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/service"
	"github.com/sigfinder/sigfinder-go/internal/trigger"
	"github.com/sigfinder/sigfinder-go/pkg/response"
)

// SettingsHandler handles the trigger and analysis settings endpoints
type SettingsHandler struct {
	liveService     *service.LiveService
	analysisService *service.AnalysisService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(liveService *service.LiveService, analysisService *service.AnalysisService) *SettingsHandler {
	return &SettingsHandler{liveService: liveService, analysisService: analysisService}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	response.Success(c, gin.H{
		"trigger": gin.H{"thresholdDbm": h.liveService.TriggerConfig().ThresholdDbm},
		"analysis": gin.H{"minRssi": h.analysisService.MinRSSI()},
	})
}

// SetTrigger handles PUT /api/v1/settings/trigger
func (h *SettingsHandler) SetTrigger(c *gin.Context) {
	var body models.TriggerSettings
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cfg := trigger.Config{ThresholdDbm: *body.ThresholdDbm}
	if err := h.liveService.SetTriggerConfig(cfg); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, gin.H{"thresholdDbm": cfg.ThresholdDbm})
}

// SetMinRSSI handles PUT /api/v1/settings/analysis
func (h *SettingsHandler) SetMinRSSI(c *gin.Context) {
	var body struct {
		MinRSSI *float64 `json:"minRssi" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.analysisService.SetMinRSSI(*body.MinRSSI)
	response.Success(c, gin.H{"minRssi": *body.MinRSSI})
}
