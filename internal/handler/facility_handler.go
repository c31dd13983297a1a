package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/campus-records-api/internal/service"
	appErrors "github.com/campuskit/campus-records-api/pkg/errors"
	"github.com/campuskit/campus-records-api/pkg/response"
)

// FacilityHandler wires HTTP endpoints to the facility service.
type FacilityHandler struct {
	facilities *service.FacilityService
}

// NewFacilityHandler creates a new handler.
func NewFacilityHandler(facilities *service.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilities: facilities}
}

// ListLabs godoc
// @Summary List labs
// @Tags Facilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /labs [get]
func (h *FacilityHandler) ListLabs(c *gin.Context) {
	labs, err := h.facilities.ListLabs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, labs)
}

// CreateLab godoc
// @Summary Create lab
// @Tags Facilities
// @Accept json
// @Produce json
// @Param payload body service.FacilityRequest true "Lab payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /labs [post]
func (h *FacilityHandler) CreateLab(c *gin.Context) {
	var req service.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lab payload"))
		return
	}

	lab, err := h.facilities.CreateLab(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, lab)
}

// DeleteLab godoc
// @Summary Delete lab
// @Tags Facilities
// @Produce json
// @Param id path string true "Lab ID"
// @Param actor query string false "Acting identifier for the audit trail"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /labs/{id} [delete]
func (h *FacilityHandler) DeleteLab(c *gin.Context) {
	if err := h.facilities.DeleteLab(c.Request.Context(), c.Param("id"), c.Query("actor")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListRooms godoc
// @Summary List rooms
// @Tags Facilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *FacilityHandler) ListRooms(c *gin.Context) {
	rooms, err := h.facilities.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// CreateRoom godoc
// @Summary Create room
// @Tags Facilities
// @Accept json
// @Produce json
// @Param payload body service.FacilityRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /rooms [post]
func (h *FacilityHandler) CreateRoom(c *gin.Context) {
	var req service.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}

	room, err := h.facilities.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, room)
}

// DeleteRoom godoc
// @Summary Delete room
// @Tags Facilities
// @Produce json
// @Param id path string true "Room ID"
// @Param actor query string false "Acting identifier for the audit trail"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rooms/{id} [delete]
func (h *FacilityHandler) DeleteRoom(c *gin.Context) {
	if err := h.facilities.DeleteRoom(c.Request.Context(), c.Param("id"), c.Query("actor")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListBooks godoc
// @Summary List books
// @Tags Facilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /books [get]
func (h *FacilityHandler) ListBooks(c *gin.Context) {
	books, err := h.facilities.ListBooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books)
}
