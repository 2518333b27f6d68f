package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dukapos/terminal/internal/notify"
	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
)

// NotificationHandler exposes the async-failure notifications to the UI.
type NotificationHandler struct {
	hub *notify.Hub
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// Peek returns pending notifications without consuming them.
func (h *NotificationHandler) Peek(c *gin.Context) {
	response.OK(c, "Notifications retrieved", gin.H{"notifications": h.hub.Peek()})
}

// Drain returns pending notifications and clears them.
func (h *NotificationHandler) Drain(c *gin.Context) {
	response.OK(c, "Notifications drained", gin.H{"notifications": h.hub.Drain()})
}
