package handler

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/terminal/internal/config"
	"github.com/dukapos/terminal/internal/notify"
	"github.com/dukapos/terminal/internal/presentation/http/dto/request"
	"github.com/dukapos/terminal/internal/presentation/http/dto/response"
	"github.com/dukapos/terminal/internal/scanner"
	"github.com/dukapos/terminal/internal/selection"
	"github.com/dukapos/terminal/internal/terminal"
)

// ScannerHandler feeds raw scanner keystrokes into a per-register input
// stream. Codes segmented by the stream go straight into the register's
// session; outcomes that need attention surface through the notification
// hub and the cart view's selection state.
type ScannerHandler struct {
	cfg      config.ScannerConfig
	sessions *terminal.Manager
	hub      *notify.Hub

	mu      sync.Mutex
	streams map[string]*scanner.Stream
}

// NewScannerHandler creates a new scanner handler.
func NewScannerHandler(cfg config.ScannerConfig, sessions *terminal.Manager, hub *notify.Hub) *ScannerHandler {
	return &ScannerHandler{
		cfg:      cfg,
		sessions: sessions,
		hub:      hub,
		streams:  make(map[string]*scanner.Stream),
	}
}

func (h *ScannerHandler) stream(register string) *scanner.Stream {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.streams[register]; ok {
		return s
	}
	s := scanner.New(
		scanner.WithQuietPeriod(h.cfg.QuietPeriod),
		scanner.WithMinCodeLength(h.cfg.MinCodeLength),
	)
	h.streams[register] = s
	go h.consume(register, s)
	return s
}

// consume turns segmented codes into scan resolutions for the register.
func (h *ScannerHandler) consume(register string, s *scanner.Stream) {
	session := h.sessions.GetOrCreate(register)
	for code := range s.Scans() {
		result, err := session.Scan(code)
		if err != nil {
			h.hub.Publish(notify.LevelWarning, "scanner", err.Error())
			continue
		}
		if result.Outcome.Kind == selection.OutcomeNotFound {
			h.hub.Publish(notify.LevelWarning, "scanner", "No product matches code "+code)
		}
	}
}

// Key ingests one scanner keystroke.
func (h *ScannerHandler) Key(c *gin.Context) {
	var req request.KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	for _, r := range req.Key {
		h.stream(c.Param("register")).Key(r)
	}
	response.NoContent(c)
}

// Suspend stops the stream from collecting keystrokes while the operator
// types in a search field.
func (h *ScannerHandler) Suspend(c *gin.Context) {
	h.stream(c.Param("register")).Suspend()
	response.NoContent(c)
}

// Resume re-enables keystroke collection.
func (h *ScannerHandler) Resume(c *gin.Context) {
	h.stream(c.Param("register")).Resume()
	response.NoContent(c)
}
