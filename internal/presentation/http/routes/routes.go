package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/terminal/internal/config"
	"github.com/dukapos/terminal/internal/presentation/http/handler"
	"github.com/dukapos/terminal/internal/presentation/http/middleware"
	"github.com/dukapos/terminal/pkg/logger"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Session      *handler.SessionHandler
	Checkout     *handler.CheckoutHandler
	Catalog      *handler.CatalogHandler
	Scanner      *handler.ScannerHandler
	Table        *handler.TableHandler
	Shift        *handler.ShiftHandler
	Printer      *handler.PrinterHandler
	Notification *handler.NotificationHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	Log *logger.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog/search", h.Catalog.Search)
		v1.GET("/catalog/lookup", h.Catalog.Lookup)
		v1.POST("/catalog/refresh", h.Catalog.Refresh)

		v1.GET("/tables", h.Table.ListTables)

		v1.GET("/printers/status", h.Printer.GetStatus)
		v1.POST("/printers/test", h.Printer.TestPrint)

		v1.GET("/notifications", h.Notification.Peek)
		v1.POST("/notifications/drain", h.Notification.Drain)

		v1.GET("/shift", h.Shift.GetShift)
		v1.POST("/shift/sync", h.Shift.Sync)

		// Per-register rate limiter
		rateLimiter := middleware.NewRegisterRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})

		registers := v1.Group("/registers/:register")
		registers.Use(rateLimiter.Middleware())
		{
			registers.GET("/cart", h.Session.GetCart)
			registers.POST("/scan", h.Session.Scan)
			registers.POST("/tap", h.Session.Tap)
			registers.POST("/selection/variation", h.Session.ChooseVariation)
			registers.POST("/selection/unit", h.Session.ChooseUnit)
			registers.DELETE("/selection", h.Session.CancelSelection)
			registers.PATCH("/cart/lines/:line", h.Session.UpdateQuantity)
			registers.DELETE("/cart/lines/:line", h.Session.RemoveLine)
			registers.DELETE("/cart", h.Session.ClearCart)
			registers.POST("/discount", h.Session.ApplyDiscount)
			registers.DELETE("/discount", h.Session.RemoveDiscount)
			registers.POST("/sale-type", h.Session.SwitchSaleType)
			registers.POST("/customer", h.Session.SetCustomer)
			registers.POST("/table", h.Table.SetTable)
			registers.POST("/checkout", h.Checkout.Checkout)
			registers.POST("/kitchen", h.Checkout.SendToKitchen)
			registers.POST("/scanner/keys", h.Scanner.Key)
			registers.POST("/scanner/suspend", h.Scanner.Suspend)
			registers.POST("/scanner/resume", h.Scanner.Resume)
		}
	}

	return router
}
