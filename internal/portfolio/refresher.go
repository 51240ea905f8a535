package portfolio

import (
	"context"
	"log"
	"time"

	"github.com/khoward/portfolio-tracker/internal/models"
)

// Start launches the periodic price refresher. Every interval it
// re-fetches the current price of every holding in every cached
// snapshot and swaps the snapshots in place. It never touches
// persisted data. Stop or cancelling ctx tears it down.
func (c *Controller) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx)
}

// Stop cancels the refresher and waits for it to exit.
func (c *Controller) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Printf("portfolio: price refresher started (every %s)", c.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("portfolio: price refresher stopped")
			return
		case <-ticker.C:
			c.RefreshPrices(ctx)
		}
	}
}

// RefreshPrices updates the current price of every holding in every
// Ready snapshot. Unknown prices (quote failure) keep the previous
// value for this cycle. Snapshots replaced concurrently by a user
// fetch win: the refresher only swaps a snapshot it started from.
func (c *Controller) RefreshPrices(ctx context.Context) {
	c.mu.RLock()
	work := make(map[string]*Snapshot, len(c.snapshots))
	for userID, snap := range c.snapshots {
		if snap.State == StateReady && len(snap.Holdings) > 0 {
			work[userID] = snap
		}
	}
	c.mu.RUnlock()

	for userID, prev := range work {
		next := make([]*models.Holding, len(prev.Holdings))
		for i, h := range prev.Holdings {
			clone := *h
			next[i] = &clone
		}

		c.attachPrices(ctx, next)
		for i, h := range next {
			if h.CurrentPrice.IsZero() && !prev.Holdings[i].CurrentPrice.IsZero() {
				log.Printf("portfolio: refresh: quote unavailable for %s, keeping previous price", h.Symbol)
				h.CurrentPrice = prev.Holdings[i].CurrentPrice
			}
		}

		c.mu.Lock()
		if c.snapshots[userID] == prev {
			c.snapshots[userID] = &Snapshot{
				State:       StateReady,
				Holdings:    next,
				RefreshedAt: time.Now(),
			}
		}
		c.mu.Unlock()
	}
}
