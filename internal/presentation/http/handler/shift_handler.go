package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukapos/terminal/internal/backend"
	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
	"github.com/dukapos/terminal/internal/terminal"
)

// ShiftHandler exposes the locally cached shift and re-syncs it from the
// backend.
type ShiftHandler struct {
	client   *backend.Client
	shifts   *terminal.ShiftState
	outletID uuid.UUID
}

// NewShiftHandler creates a new shift handler.
func NewShiftHandler(client *backend.Client, shifts *terminal.ShiftState, outletID uuid.UUID) *ShiftHandler {
	return &ShiftHandler{client: client, shifts: shifts, outletID: outletID}
}

// GetShift returns the cached shift without touching the network.
func (h *ShiftHandler) GetShift(c *gin.Context) {
	shift := h.shifts.Current()
	response.OK(c, "Shift retrieved", gin.H{
		"shift": shift,
		"open":  shift != nil,
	})
}

// Sync re-fetches the active shift from the backend and caches it.
func (h *ShiftHandler) Sync(c *gin.Context) {
	shift, err := h.client.ActiveShift(c.Request.Context(), h.outletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.shifts.Set(shift)
	response.OK(c, "Shift synced", gin.H{
		"shift": shift,
		"open":  h.shifts.Open(),
	})
}
