package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/terminal/internal/catalog"
	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
)

// CatalogHandler serves catalog search and refresh triggers.
type CatalogHandler struct {
	index     *catalog.Index
	refresher *catalog.Refresher
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(index *catalog.Index, refresher *catalog.Refresher) *CatalogHandler {
	return &CatalogHandler{index: index, refresher: refresher}
}

// Search finds products whose name contains the query, case-insensitive.
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "Query parameter q is required")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	products := h.index.Search(query, limit)
	response.OK(c, "Products retrieved", gin.H{"products": products})
}

// Lookup resolves one exact barcode or SKU without touching any session.
func (h *CatalogHandler) Lookup(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "Query parameter code is required")
		return
	}

	result, ok := h.index.Lookup(code)
	if !ok {
		response.NotFound(c, "No product matches code "+code)
		return
	}
	response.OK(c, "Product found", gin.H{
		"product":   result.Product,
		"variation": result.Variation,
	})
}

// Refresh queues an immediate catalog refresh.
func (h *CatalogHandler) Refresh(c *gin.Context) {
	reason := c.DefaultQuery("reason", "manual")
	h.refresher.Trigger(reason)
	response.OK(c, "Catalog refresh queued", gin.H{"reason": reason})
}
