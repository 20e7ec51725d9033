package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/service"
	"github.com/sigfinder/sigfinder-go/pkg/response"
)

// DatasetHandler handles dataset upload and catalog endpoints
type DatasetHandler struct {
	datasetService *service.DatasetService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasetService *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// Upload handles POST /api/v1/datasets. The CSV log is sent either as a
// multipart file field named "file", or as a JSON body {path, name} naming a
// log already on the server; the display name defaults to the filename.
func (h *DatasetHandler) Upload(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			Path string `json:"path" binding:"required"`
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
		ds, err := h.datasetService.LoadFile(body.Name, body.Path)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		response.Success(c, ds)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file upload")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = filepath.Base(fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Unreadable file upload")
		return
	}
	defer file.Close()

	ds, err := h.datasetService.Load(name, file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, ds)
}

// List handles GET /api/v1/datasets. ?visibleOnly=true restricts the listing
// to datasets currently included in analysis.
func (h *DatasetHandler) List(c *gin.Context) {
	var filter models.DatasetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	response.Success(c, h.datasetService.List(filter))
}

// Get handles GET /api/v1/datasets/:id
func (h *DatasetHandler) Get(c *gin.Context) {
	ds, err := h.datasetService.Get(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Dataset not found")
		return
	}
	response.Success(c, ds)
}

// SetVisible handles PATCH /api/v1/datasets/:id/visible
func (h *DatasetHandler) SetVisible(c *gin.Context) {
	var body struct {
		Visible *bool `json:"visible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.datasetService.SetVisible(c.Param("id"), *body.Visible); err != nil {
		if errors.Is(err, service.ErrDatasetNotFound) {
			response.NotFound(c, "Dataset not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// Delete handles DELETE /api/v1/datasets/:id
func (h *DatasetHandler) Delete(c *gin.Context) {
	if err := h.datasetService.Delete(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrDatasetNotFound) {
			response.NotFound(c, "Dataset not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, nil)
}
