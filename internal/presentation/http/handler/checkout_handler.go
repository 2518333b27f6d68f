package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dukapos/terminal/internal/checkout"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/internal/presentation/http/dto/request"
	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
	"github.com/dukapos/terminal/internal/terminal"
)

// CheckoutHandler handles checkout and send-to-kitchen requests.
type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	sessions     *terminal.Manager
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(orchestrator *checkout.Orchestrator, sessions *terminal.Manager) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: orchestrator, sessions: sessions}
}

// Checkout finalizes the register's open sale.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	coReq := checkout.Request{
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}
	if req.Delivery != nil {
		coReq.Delivery = &checkout.DeliveryInfo{
			Recipient: req.Delivery.Recipient,
			Phone:     req.Delivery.Phone,
			Address:   req.Delivery.Address,
			Notes:     req.Delivery.Notes,
		}
	}

	session := h.sessions.GetOrCreate(c.Param("register"))
	result, err := h.orchestrator.Checkout(c.Request.Context(), session, coReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed", gin.H{
		"sale":     result.Sale,
		"warnings": result.Warnings,
	})
}

// SendToKitchen routes the register's open sale to the kitchen without
// payment.
func (h *CheckoutHandler) SendToKitchen(c *gin.Context) {
	var req request.KitchenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	session := h.sessions.GetOrCreate(c.Param("register"))
	result, err := h.orchestrator.SendToKitchen(c.Request.Context(), session, checkout.KitchenRequest{Notes: req.Notes})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order sent to kitchen", gin.H{
		"sale":     result.Sale,
		"warnings": result.Warnings,
	})
}
