package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/service"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
	"github.com/edusetu/edusetu-api/pkg/response"
)

// AttendanceHandler wires the school dashboard's attendance endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Roster godoc
// @Summary Day roster with marks
// @Description Active students with their attendance status for a day, plus counts
// @Tags Attendance
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /school/attendance [get]
func (h *AttendanceHandler) Roster(c *gin.Context) {
	schoolID := schoolIDFromContext(c)
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school scope is required"))
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	roster, err := h.service.Roster(c.Request.Context(), schoolID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// Mark godoc
// @Summary Mark attendance
// @Description Set or overwrite one student's status for a day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.AttendanceMarkRequest true "Mark payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /school/attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	schoolID := schoolIDFromContext(c)
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school scope is required"))
		return
	}

	var req service.AttendanceMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	if err := h.service.Mark(c.Request.Context(), schoolID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
