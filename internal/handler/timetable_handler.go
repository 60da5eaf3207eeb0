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

// TimetableHandler manages timetable slot endpoints.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List godoc
// @Summary List timetable slots
// @Tags Timetable
// @Produce json
// @Param groupId query string false "Filter by group"
// @Param teacherId query string false "Filter by teacher"
// @Param classroomId query string false "Filter by classroom"
// @Param subjectId query string false "Filter by subject"
// @Param day query int false "Filter by ISO day of week"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable/slots [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var filter models.SlotFilter
	filter.GroupID = c.Query("groupId")
	filter.TeacherID = c.Query("teacherId")
	filter.ClassroomID = c.Query("classroomId")
	filter.SubjectID = c.Query("subjectId")
	if day, err := strconv.Atoi(c.DefaultQuery("day", "0")); err == nil {
		filter.DayOfWeek = day
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	slots, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, pagination)
}

// ListByGroup godoc
// @Summary List a group's weekly timetable
// @Tags Timetable
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/groups/{id}/slots [get]
func (h *TimetableHandler) ListByGroup(c *gin.Context) {
	slots, err := h.service.ListByGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ListByTeacher godoc
// @Summary List a teacher's weekly timetable
// @Tags Timetable
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/teachers/{id}/slots [get]
func (h *TimetableHandler) ListByTeacher(c *gin.Context) {
	slots, err := h.service.ListByTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Create godoc
// @Summary Place a lesson in the timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Conflict with an existing slot"
// @Router /timetable/slots [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req service.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update a timetable slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body service.UpdateSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Conflict with an existing slot"
// @Router /timetable/slots/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req service.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete a timetable slot
// @Tags Timetable
// @Produce json
// @Param id path string true "Slot ID"
// @Success 204
// @Router /timetable/slots/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Validate godoc
// @Summary Check a slot draft for conflicts without saving it
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.ValidateSlotRequest true "Slot draft"
// @Success 200 {object} response.Envelope
// @Router /timetable/validate [post]
func (h *TimetableHandler) Validate(c *gin.Context) {
	var req service.ValidateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
