package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sala-api/internal/models"
	"github.com/noah-isme/sala-api/internal/service"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
	"github.com/noah-isme/sala-api/pkg/response"
)

// AssignmentHandler wires the timetable grid endpoints to HTTP routes.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	timetables  *service.TimetableService
	metrics     *service.MetricsService
}

// NewAssignmentHandler constructs a new AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService, timetables *service.TimetableService, metrics *service.MetricsService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, timetables: timetables, metrics: metrics}
}

// AssignTeacher godoc
// @Summary Assign or remove a teacher on one grid cell
// @Description ASSIGN binds the teacher after a cross-classroom conflict check; REMOVE clears the cell.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param yid path string true "Year ID"
// @Param cid path string true "Classroom ID"
// @Param payload body service.AssignTeacherRequest true "Cell mutation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /years/{yid}/classrooms/{cid}/assign-teacher [post]
func (h *AssignmentHandler) AssignTeacher(c *gin.Context) {
	var req service.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	action := strings.ToUpper(req.Action)
	result, err := h.assignments.AssignTeacher(c.Request.Context(), c.Param("yid"), c.Param("cid"), req)
	if err != nil {
		var conflict *models.AssignmentConflictError
		if errors.As(err, &conflict) {
			h.metrics.RecordAssignment(action, "conflict")
			appErr := appErrors.FromError(err)
			c.Header("Cache-Control", "no-store")
			c.JSON(http.StatusConflict, response.Envelope{
				Error: appErr,
				Meta:  map[string]interface{}{"conflict": conflict.Conflict},
			})
			return
		}
		h.metrics.RecordAssignment(action, "error")
		response.Error(c, err)
		return
	}

	h.metrics.RecordAssignment(action, "applied")
	response.JSON(c, http.StatusOK, result, nil)
}

// GetTimetable godoc
// @Summary Get the classroom's weekly grid snapshot
// @Tags Timetable
// @Produce json
// @Param yid path string true "Year ID"
// @Param cid path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /years/{yid}/classrooms/{cid}/timetable [get]
func (h *AssignmentHandler) GetTimetable(c *gin.Context) {
	grid, err := h.timetables.GetGrid(c.Request.Context(), c.Param("yid"), c.Param("cid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}
