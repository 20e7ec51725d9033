package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/service"
	"github.com/sigfinder/sigfinder-go/pkg/response"
)

// MarkerHandler handles trigger marker endpoints
type MarkerHandler struct {
	liveService *service.LiveService
}

// NewMarkerHandler creates a new marker handler
func NewMarkerHandler(liveService *service.LiveService) *MarkerHandler {
	return &MarkerHandler{liveService: liveService}
}

// List handles GET /api/v1/markers
func (h *MarkerHandler) List(c *gin.Context) {
	markers, err := h.liveService.Markers()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, markers)
}

// Clear handles DELETE /api/v1/markers
func (h *MarkerHandler) Clear(c *gin.Context) {
	if err := h.liveService.ClearMarkers(); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, nil)
}
