package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/internal/presentation/http/dto/request"
	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
	"github.com/dukapos/terminal/internal/selection"
	"github.com/dukapos/terminal/internal/terminal"
)

// SessionHandler handles per-register cart and selection requests.
type SessionHandler struct {
	sessions *terminal.Manager
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *terminal.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) session(c *gin.Context) *terminal.Session {
	return h.sessions.GetOrCreate(c.Param("register"))
}

// GetCart returns the register's cart view with computed totals.
func (h *SessionHandler) GetCart(c *gin.Context) {
	response.OK(c, "Cart retrieved", h.session(c).View())
}

// Scan resolves one whole barcode against the catalog.
func (h *SessionHandler) Scan(c *gin.Context) {
	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.session(c).Scan(req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondScan(c, result)
}

// Tap adds a product tapped on the grid.
func (h *SessionHandler) Tap(c *gin.Context) {
	var req request.TapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.session(c).Tap(req.ProductID, req.Quantity, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondScan(c, result)
}

func respondScan(c *gin.Context, result terminal.ScanResult) {
	switch result.Outcome.Kind {
	case selection.OutcomeResolved:
		response.Created(c, "Item added", gin.H{"line": result.Line})
	case selection.OutcomeNeedVariation:
		response.OK(c, "Choose a variation", gin.H{
			"product":    result.Outcome.Product,
			"variations": result.Outcome.Variations,
		})
	case selection.OutcomeNeedUnit:
		response.OK(c, "Choose a selling unit", gin.H{
			"product": result.Outcome.Product,
			"units":   result.Outcome.Units,
		})
	case selection.OutcomeNotFound:
		response.NotFound(c, "No product matches code "+result.Outcome.Code)
	}
}

// ChooseVariation completes a pending variation choice.
func (h *SessionHandler) ChooseVariation(c *gin.Context) {
	var req request.ChooseVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	line, err := h.session(c).ChooseVariation(req.VariationID, req.Quantity, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item added", gin.H{"line": line})
}

// ChooseUnit completes a pending selling-unit choice.
func (h *SessionHandler) ChooseUnit(c *gin.Context) {
	var req request.ChooseUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	var (
		line entity.CartLine
		err  error
	)
	if req.BaseUnit || req.UnitID == nil {
		line, err = h.session(c).ChooseBaseUnit(req.Quantity, req.Note)
	} else {
		line, err = h.session(c).ChooseUnit(*req.UnitID, req.Quantity, req.Note)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item added", gin.H{"line": line})
}

// CancelSelection abandons a pending variation or unit choice.
func (h *SessionHandler) CancelSelection(c *gin.Context) {
	h.session(c).CancelSelection()
	response.NoContent(c)
}

// UpdateQuantity changes one cart line's quantity.
func (h *SessionHandler) UpdateQuantity(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("line"))
	if err != nil {
		response.BadRequest(c, "Invalid line ID format")
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	line, err := h.session(c).UpdateQuantity(lineID, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", gin.H{"line": line})
}

// RemoveLine deletes one cart line.
func (h *SessionHandler) RemoveLine(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("line"))
	if err != nil {
		response.BadRequest(c, "Invalid line ID format")
		return
	}

	if err := h.session(c).RemoveLine(lineID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearCart drops every cart line.
func (h *SessionHandler) ClearCart(c *gin.Context) {
	h.session(c).ClearCart()
	response.NoContent(c)
}

// ApplyDiscount sets the sale-level discount, replacing any existing one.
func (h *SessionHandler) ApplyDiscount(c *gin.Context) {
	var req request.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		response.BadRequest(c, "Invalid discount value")
		return
	}

	discount := entity.SaleDiscount{
		Type:   enum.DiscountType(req.Type),
		Value:  value,
		Reason: req.Reason,
	}
	if err := h.session(c).ApplyDiscount(discount); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount applied", h.session(c).View())
}

// RemoveDiscount clears the sale-level discount.
func (h *SessionHandler) RemoveDiscount(c *gin.Context) {
	h.session(c).RemoveDiscount()
	response.NoContent(c)
}

// SwitchSaleType changes between retail and wholesale pricing.
func (h *SessionHandler) SwitchSaleType(c *gin.Context) {
	var req request.SwitchSaleTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.session(c).SwitchSaleType(enum.SaleType(req.SaleType), req.Confirmed); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale type switched", h.session(c).View())
}

// SetCustomer attaches or detaches the sale's customer.
func (h *SessionHandler) SetCustomer(c *gin.Context) {
	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.session(c).SetCustomer(req.CustomerID)
	response.OK(c, "Customer updated", h.session(c).View())
}
