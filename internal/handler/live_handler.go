// Package handler exposes the HTTP endpoints.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/service"
	"github.com/sigfinder/sigfinder-go/pkg/response"
)

// LiveHandler handles the live tracking session endpoints
type LiveHandler struct {
	liveService *service.LiveService
}

// NewLiveHandler creates a new live handler
func NewLiveHandler(liveService *service.LiveService) *LiveHandler {
	return &LiveHandler{liveService: liveService}
}

// StartSession handles POST /api/v1/live/session/start
func (h *LiveHandler) StartSession(c *gin.Context) {
	status, err := h.liveService.StartSession()
	if err != nil {
		response.Conflict(c, err.Error())
		return
	}
	response.Success(c, status)
}

// StopSession handles POST /api/v1/live/session/stop
func (h *LiveHandler) StopSession(c *gin.Context) {
	status, err := h.liveService.StopSession()
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, status)
}

// PauseLogging handles POST /api/v1/live/session/pause and /resume
func (h *LiveHandler) PauseLogging(paused bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := h.liveService.SetPaused(paused)
		if err != nil {
			response.Conflict(c, err.Error())
			return
		}
		response.Success(c, status)
	}
}

// IngestNMEA handles POST /api/v1/live/nmea
func (h *LiveHandler) IngestNMEA(c *gin.Context) {
	var body models.NMEAIngest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.liveService.IngestNMEA(body.Sentence); err != nil {
		if errors.Is(err, service.ErrNoSession) {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// IngestRSSI handles POST /api/v1/live/rssi
func (h *LiveHandler) IngestRSSI(c *gin.Context) {
	var body models.RSSIIngest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	marker, err := h.liveService.IngestRSSI(*body.RSSI, body.Timestamp)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	// marker is nil when no trigger fired; clients treat that as a plain ack.
	response.Success(c, gin.H{"marker": marker})
}

// Status handles GET /api/v1/live/status
func (h *LiveHandler) Status(c *gin.Context) {
	response.Success(c, h.liveService.Status())
}
