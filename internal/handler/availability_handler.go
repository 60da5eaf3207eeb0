package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/timetable-api/internal/models"
	"github.com/edutrack/timetable-api/internal/service"
	appErrors "github.com/edutrack/timetable-api/pkg/errors"
	"github.com/edutrack/timetable-api/pkg/response"
)

// AvailabilityHandler serves free-teacher and free-classroom pick lists for
// the schedule editor.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Teachers godoc
// @Summary List teachers free for a day and time range
// @Tags Availability
// @Produce json
// @Param day query int true "ISO day of week (1-7)"
// @Param start query string true "Start time HH:MM"
// @Param duration query int false "Duration in minutes"
// @Param subjectId query string false "Restrict to teachers assigned to this subject"
// @Success 200 {object} response.Envelope
// @Router /timetable/availability/teachers [get]
func (h *AvailabilityHandler) Teachers(c *gin.Context) {
	day, start, duration, err := parseWindow(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	teachers, err := h.service.AvailableTeachers(c.Request.Context(), day, start, duration, c.Query("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Classrooms godoc
// @Summary List classrooms free for a day and time range
// @Tags Availability
// @Produce json
// @Param day query int true "ISO day of week (1-7)"
// @Param start query string true "Start time HH:MM"
// @Param duration query int false "Duration in minutes"
// @Param minCapacity query int false "Minimum seating capacity"
// @Success 200 {object} response.Envelope
// @Router /timetable/availability/classrooms [get]
func (h *AvailabilityHandler) Classrooms(c *gin.Context) {
	day, start, duration, err := parseWindow(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	minCapacity := 0
	if raw := c.Query("minCapacity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "minCapacity must be an integer"))
			return
		}
		minCapacity = parsed
	}

	classrooms, err := h.service.AvailableClassrooms(c.Request.Context(), day, start, duration, minCapacity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms, nil)
}

func parseWindow(c *gin.Context) (int, models.ClockTime, int, error) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		return 0, 0, 0, appErrors.Clone(appErrors.ErrValidation, "day must be an integer between 1 and 7")
	}

	start, err := models.ParseClock(c.Query("start"))
	if err != nil {
		return 0, 0, 0, appErrors.Clone(appErrors.ErrValidation, "start must be in HH:MM format")
	}

	duration := models.DefaultLessonDuration
	if raw := c.Query("duration"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, 0, appErrors.Clone(appErrors.ErrValidation, "duration must be an integer")
		}
		duration = parsed
	}

	return day, start, duration, nil
}
