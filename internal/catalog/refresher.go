package catalog

import (
	"context"
	"time"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/pkg/logger"
)

// Fetcher pulls the full product catalog from the backend.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]entity.Product, error)
}

// Refresher keeps an Index up to date: a periodic timer plus explicit
// triggers for domain events (inventory updated, outlet changed, UI focus
// regained). A failed fetch keeps the previous snapshot in place.
type Refresher struct {
	index    *Index
	fetcher  Fetcher
	interval time.Duration
	trigger  chan string
	log      *logger.Logger
}

// NewRefresher creates a refresher for the given index.
func NewRefresher(index *Index, fetcher Fetcher, interval time.Duration, log *logger.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		index:    index,
		fetcher:  fetcher,
		interval: interval,
		trigger:  make(chan string, 8),
		log:      log.WithComponent("catalog"),
	}
}

// Trigger requests an immediate refresh. Non-blocking: if a refresh is
// already queued the event is dropped.
func (r *Refresher) Trigger(reason string) {
	select {
	case r.trigger <- reason:
	default:
	}
}

// Run performs an initial refresh and then loops until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.RefreshNow(ctx); err != nil {
		r.log.Warnw("initial catalog fetch failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshNow(ctx); err != nil {
				r.log.Warnw("periodic catalog refresh failed", "error", err)
			}
		case reason := <-r.trigger:
			if err := r.RefreshNow(ctx); err != nil {
				r.log.Warnw("triggered catalog refresh failed", "reason", reason, "error", err)
			} else {
				r.log.Infow("catalog refreshed", "reason", reason)
			}
		}
	}
}

// RefreshNow fetches the catalog once and replaces the snapshot on success.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	products, err := r.fetcher.FetchCatalog(ctx)
	if err != nil {
		return err
	}
	r.index.Replace(NewSnapshot(products))
	r.log.Debugw("catalog snapshot replaced", "products", len(products))
	return nil
}
