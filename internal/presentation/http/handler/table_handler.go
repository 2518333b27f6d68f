package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dukapos/terminal/internal/backend"
	"github.com/dukapos/terminal/internal/presentation/http/dto/request"
	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
	"github.com/dukapos/terminal/internal/terminal"
)

// TableHandler handles table listing and selection for restaurant outlets.
type TableHandler struct {
	client   *backend.Client
	sessions *terminal.Manager
}

// NewTableHandler creates a new table handler.
func NewTableHandler(client *backend.Client, sessions *terminal.Manager) *TableHandler {
	return &TableHandler{client: client, sessions: sessions}
}

// ListTables returns the outlet's tables from the backend.
func (h *TableHandler) ListTables(c *gin.Context) {
	tables, err := h.client.ListTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tables retrieved", gin.H{"tables": tables})
}

// SetTable selects the table the register's open sale attaches to. A nil
// table id detaches.
func (h *TableHandler) SetTable(c *gin.Context) {
	var req request.SetTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	session := h.sessions.GetOrCreate(c.Param("register"))

	if req.TableID == nil {
		if err := session.SetTable(nil, 0); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Table cleared", session.View())
		return
	}

	table, err := h.client.GetTable(c.Request.Context(), *req.TableID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := session.SetTable(table, req.GuestCount); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Table selected", session.View())
}
