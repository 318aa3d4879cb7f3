package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sala-api/internal/service"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
	"github.com/noah-isme/sala-api/pkg/response"
)

// TimeslotHandler wires the timeslot catalog to HTTP routes.
type TimeslotHandler struct {
	timeslots *service.TimeslotService
}

// NewTimeslotHandler constructs a new TimeslotHandler.
func NewTimeslotHandler(timeslots *service.TimeslotService) *TimeslotHandler {
	return &TimeslotHandler{timeslots: timeslots}
}

// List godoc
// @Summary List the classroom's timeslot catalog
// @Tags Timeslots
// @Produce json
// @Param yid path string true "Year ID"
// @Param cid path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /years/{yid}/classrooms/{cid}/timeslots [get]
func (h *TimeslotHandler) List(c *gin.Context) {
	slots, err := h.timeslots.ListByClassroom(c.Request.Context(), c.Param("yid"), c.Param("cid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Create godoc
// @Summary Add a timeslot to the classroom catalog
// @Tags Timeslots
// @Accept json
// @Produce json
// @Param yid path string true "Year ID"
// @Param cid path string true "Classroom ID"
// @Param payload body service.CreateTimeslotRequest true "Timeslot payload"
// @Success 201 {object} response.Envelope
// @Router /years/{yid}/classrooms/{cid}/timeslots [post]
func (h *TimeslotHandler) Create(c *gin.Context) {
	var req service.CreateTimeslotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timeslot payload"))
		return
	}
	slot, err := h.timeslots.Create(c.Request.Context(), c.Param("yid"), c.Param("cid"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// SeedDefault godoc
// @Summary Seed the default catalog from the year's class duration
// @Tags Timeslots
// @Produce json
// @Param yid path string true "Year ID"
// @Param cid path string true "Classroom ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /years/{yid}/classrooms/{cid}/timeslots/default [post]
func (h *TimeslotHandler) SeedDefault(c *gin.Context) {
	slots, err := h.timeslots.SeedDefault(c.Request.Context(), c.Param("yid"), c.Param("cid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slots)
}

// Delete godoc
// @Summary Delete a timeslot
// @Tags Timeslots
// @Param yid path string true "Year ID"
// @Param cid path string true "Classroom ID"
// @Param sid path string true "Timeslot ID"
// @Success 204 {object} response.Envelope
// @Router /years/{yid}/classrooms/{cid}/timeslots/{sid} [delete]
func (h *TimeslotHandler) Delete(c *gin.Context) {
	if err := h.timeslots.Delete(c.Request.Context(), c.Param("yid"), c.Param("cid"), c.Param("sid")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
