package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/service"
	appErrors "github.com/campuskit/campus-records-api/pkg/errors"
	"github.com/campuskit/campus-records-api/pkg/response"
)

// EnrollmentHandler wires HTTP endpoints to the enrollment workflow.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List godoc
// @Summary List enrollments
// @Description Return enrollments joined with current subject schedules
// @Tags Enrollments
// @Produce json
// @Param teacher_identifier query string false "Filter by teacher"
// @Param student_identifier query string false "Filter by student"
// @Param status query string false "Filter by status (case-insensitive)"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	filter := models.EnrollmentFilter{
		TeacherIdentifier: c.Query("teacher_identifier"),
		StudentIdentifier: c.Query("student_identifier"),
		Status:            c.Query("status"),
	}
	details, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details)
}

// Request godoc
// @Summary Request enrollment
// @Description Create a pending enrollment for a student and subject
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Request(c *gin.Context) {
	var req service.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	enrollment, err := h.enrollments.Request(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, enrollment)
}

// Decide godoc
// @Summary Decide enrollment
// @Description Approve or decline a pending enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body service.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments/{id}/action [post]
func (h *EnrollmentHandler) Decide(c *gin.Context) {
	var req service.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	enrollment, err := h.enrollments.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, enrollment)
}
