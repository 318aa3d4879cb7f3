package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sala-api/internal/service"
	"github.com/noah-isme/sala-api/pkg/response"
)

// ExportHandler serves teacher schedule downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs a new ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// TeacherSchedule godoc
// @Summary Download a teacher's weekly schedule
// @Tags Exports
// @Produce application/octet-stream
// @Param yid path string true "Year ID"
// @Param tid path string true "Teacher ID"
// @Param format query string false "Export format (xlsx, csv, pdf)"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /years/{yid}/teachers/{tid}/export [get]
func (h *ExportHandler) TeacherSchedule(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "xlsx")))

	file, err := h.exports.TeacherSchedule(c.Request.Context(), c.Param("yid"), c.Param("tid"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
