package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/timetable-api/internal/service"
	"github.com/edutrack/timetable-api/pkg/response"
)

// ConflictHandler serves the timetable health diagnostics.
type ConflictHandler struct {
	audit     *service.AuditService
	conflicts *service.ConflictService
	timetable *service.TimetableService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(audit *service.AuditService, conflicts *service.ConflictService, timetable *service.TimetableService) *ConflictHandler {
	return &ConflictHandler{audit: audit, conflicts: conflicts, timetable: timetable}
}

// Global godoc
// @Summary Report every pairwise teacher-time overlap in the timetable
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/conflicts [get]
func (h *ConflictHandler) Global(c *gin.Context) {
	pairs, err := h.audit.FindAllConflicts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pairs, nil, map[string]interface{}{"pair_count": len(pairs)})
}

// BySlot godoc
// @Summary List all conflicts for one stored slot
// @Tags Diagnostics
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/slots/{id}/conflicts [get]
func (h *ConflictHandler) BySlot(c *gin.Context) {
	slot, err := h.timetable.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	conflicts, err := h.conflicts.SlotConflicts(c.Request.Context(), *slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}
