package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
	"github.com/dukapos/terminal/internal/printing"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printing *printing.Service
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printing *printing.Service) *PrinterHandler {
	return &PrinterHandler{printing: printing}
}

// GetStatus returns the connection status of every registered printer.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printing.Status())
}

// TestPrint sends a test page to the receipt printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	if err := h.printing.TestPrint(); err != nil {
		response.OK(c, "Test print failed (printer may be disabled)", gin.H{
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Test page sent to printer", nil)
}
