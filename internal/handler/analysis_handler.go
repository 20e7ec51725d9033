package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/service"
	"github.com/sigfinder/sigfinder-go/pkg/response"
)

// AnalysisHandler handles offline analysis endpoints
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Run handles POST /api/v1/analysis/run
func (h *AnalysisHandler) Run(c *gin.Context) {
	var body models.AnalysisRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := h.analysisService.Run(body.MinRSSI)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, result)
}
