package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukapos/terminal/internal/backend"
	"github.com/dukapos/terminal/internal/catalog"
	"github.com/dukapos/terminal/internal/checkout"
	"github.com/dukapos/terminal/internal/config"
	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/notify"
	"github.com/dukapos/terminal/internal/presentation/http/handler"
	"github.com/dukapos/terminal/internal/presentation/http/routes"
	"github.com/dukapos/terminal/internal/printing"
	"github.com/dukapos/terminal/internal/terminal"
	"github.com/dukapos/terminal/pkg/logger"
	"github.com/dukapos/terminal/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLog, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env != "production",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	outletID, err := uuid.Parse(cfg.Outlet.ID)
	if err != nil {
		appLog.Fatalf("OUTLET_ID must be a valid UUID: %v", err)
	}

	// Backend client
	client := backend.New(cfg.Backend)

	// Notification hub for async failures
	hub := notify.NewHub()

	// Catalog: initial fetch, then periodic refresh
	index := catalog.NewIndex()
	refresher := catalog.NewRefresher(index, client, cfg.Catalog.RefreshInterval, appLog)
	if err := refresher.RefreshNow(context.Background()); err != nil {
		appLog.Warnw("initial catalog fetch failed, starting with empty catalog", "error", err)
		hub.Publish(notify.LevelWarning, "catalog", "Catalog could not be loaded; retrying in the background")
	}
	go refresher.Run(context.Background())

	// Shift: cache the active shift so checkout preconditions stay local
	shifts := terminal.NewShiftState()
	if shift, err := client.ActiveShift(context.Background(), outletID); err != nil {
		appLog.Warnw("active shift fetch failed", "error", err)
	} else {
		shifts.Set(shift)
	}

	// Printers
	registry := printer.NewRegistry()
	receiptPrinter, err := printer.NewFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		appLog.Warnw("receipt printer unavailable, using null printer", "error", err)
		receiptPrinter = printer.NewNullPrinter()
	}
	registry.Register(printer.NameReceipt, receiptPrinter)
	if cfg.Printer.KitchenAddress != "" {
		kitchenPrinter, err := printer.NewFromConfig("network", "", cfg.Printer.KitchenAddress)
		if err != nil {
			appLog.Warnw("kitchen printer unavailable, using null printer", "error", err)
			kitchenPrinter = printer.NewNullPrinter()
		}
		registry.Register(printer.NameKitchen, kitchenPrinter)
	}

	printingService := printing.NewService(registry, entity.ReceiptHeader{
		StoreName: cfg.Outlet.StoreName,
		Address:   cfg.Outlet.Address,
		Phone:     cfg.Outlet.Phone,
		TaxID:     cfg.Outlet.TaxID,
	}, cfg.Printer.PaperWidth, hub, appLog)

	// Sessions and checkout
	sessions := terminal.NewManager(index)
	orchestrator := checkout.NewOrchestrator(client, printingService, shifts, hub, outletID, appLog)

	h := &routes.Handlers{
		Session:      handler.NewSessionHandler(sessions),
		Checkout:     handler.NewCheckoutHandler(orchestrator, sessions),
		Catalog:      handler.NewCatalogHandler(index, refresher),
		Scanner:      handler.NewScannerHandler(cfg.Scanner, sessions, hub),
		Table:        handler.NewTableHandler(client, sessions),
		Shift:        handler.NewShiftHandler(client, shifts, outletID),
		Printer:      handler.NewPrinterHandler(printingService),
		Notification: handler.NewNotificationHandler(hub),
	}

	router := routes.Setup(h, &routes.Deps{Cfg: cfg, Log: appLog})

	appLog.Infow("terminal engine listening", "port", cfg.App.Port, "outlet", cfg.Outlet.StoreName)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLog.Fatalf("Failed to start server: %v", err)
	}
}
