// Package portfolio orchestrates session-scoped portfolio state:
// bootstrap with demo seeding, holding mutations, and the periodic
// price refresh. It holds the single source of truth for in-memory
// holdings snapshots.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khoward/portfolio-tracker/internal/database"
	"github.com/khoward/portfolio-tracker/internal/models"
)

// Store defines the persistence operations the controller needs
type Store interface {
	GetPortfolioByUserID(userID string) (*models.Portfolio, error)
	CreatePortfolio(p *models.Portfolio) error
	CreateHolding(h *models.Holding) error
	GetHoldingsByPortfolioID(portfolioID string) ([]*models.Holding, error)
	UpdateHolding(h *models.Holding) error
	DeleteHolding(portfolioID, id string) error
}

// Quoter resolves the current price of a symbol. Zero means unknown.
type Quoter interface {
	PriceDecimal(ctx context.Context, symbol string) decimal.Decimal
}

// EventPublisher publishes holding mutation events
type EventPublisher interface {
	PublishHoldingSaved(ctx context.Context, h *models.Holding) error
	PublishHoldingDeleted(ctx context.Context, portfolioID, holdingID string) error
}

// State is the lifecycle state of a user's snapshot
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Snapshot is the full in-memory holdings list of one user with
// attached current prices. Snapshots are replaced wholesale and their
// holdings are never mutated after publication, so a reader always
// sees a consistent list.
type Snapshot struct {
	State       State             `json:"state"`
	Holdings    []*models.Holding `json:"holdings"`
	Message     string            `json:"message,omitempty"`
	RefreshedAt time.Time         `json:"refreshed_at"`
}

// demoHoldings seed a freshly created portfolio, quantity 1 each,
// purchase price set to the live quote at creation time.
var demoHoldings = []struct {
	Symbol string
	Name   string
}{
	{"AAPL", "Apple Inc."},
	{"MSFT", "Microsoft Corporation"},
	{"GOOGL", "Alphabet Inc."},
	{"AMZN", "Amazon.com Inc."},
	{"META", "Meta Platforms Inc."},
}

// Controller orchestrates bootstrap, CRUD mutations, and the periodic
// price refresh over per-user snapshots.
type Controller struct {
	store    Store
	quotes   Quoter
	producer EventPublisher
	interval time.Duration

	mu        sync.RWMutex
	snapshots map[string]*Snapshot // keyed by user id

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a controller. producer may be nil to disable events.
func New(store Store, quotes Quoter, producer EventPublisher, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Controller{
		store:     store,
		quotes:    quotes,
		producer:  producer,
		interval:  interval,
		snapshots: make(map[string]*Snapshot),
	}
}

// Snapshot returns the current snapshot for a user, if any.
func (c *Controller) Snapshot(userID string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[userID]
	return snap, ok
}

// Fetch bootstraps the portfolio of the session's user: it resolves
// (or lazily creates and seeds) the portfolio, loads its holdings,
// attaches current prices, and commits the result as the new snapshot.
// Persistence failures commit an Error snapshot and are returned; a
// single symbol's quote failure only degrades that row's price to 0.
func (c *Controller) Fetch(ctx context.Context, session *models.Session) (*Snapshot, error) {
	if session == nil {
		return nil, ErrAuthRequired
	}
	c.setSnapshot(session.UserID, &Snapshot{State: StateLoading, RefreshedAt: time.Now()})

	p, err := c.store.GetPortfolioByUserID(session.UserID)
	if errors.Is(err, database.ErrNotFound) {
		p, err = c.createAndSeed(ctx, session.UserID)
	}
	if err != nil {
		perr := &PersistenceError{Op: "load portfolio", Err: err}
		c.setSnapshot(session.UserID, &Snapshot{State: StateError, Message: perr.Error(), RefreshedAt: time.Now()})
		return nil, perr
	}

	holdings, err := c.store.GetHoldingsByPortfolioID(p.ID)
	if err != nil {
		perr := &PersistenceError{Op: "load holdings", Err: err}
		c.setSnapshot(session.UserID, &Snapshot{State: StateError, Message: perr.Error(), RefreshedAt: time.Now()})
		return nil, perr
	}

	c.attachPrices(ctx, holdings)

	snap := &Snapshot{State: StateReady, Holdings: holdings, RefreshedAt: time.Now()}
	c.setSnapshot(session.UserID, snap)
	return snap, nil
}

// HoldingInput carries the editable fields of a holding. A non-empty
// ID turns a save into an update.
type HoldingInput struct {
	ID            string          `json:"id,omitempty"`
	Symbol        string          `json:"symbol"`
	CompanyName   string          `json:"company_name"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// Validate normalizes the symbol to uppercase and enforces the
// holding invariants: quantity >= 1, purchase price >= 0.
func (in *HoldingInput) Validate() error {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidHolding)
	}
	if in.CompanyName == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidHolding)
	}
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidHolding)
	}
	if in.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase price must not be negative", ErrInvalidHolding)
	}
	return nil
}

// Save inserts or updates a holding under the session's portfolio and
// triggers a full re-fetch to resynchronize current prices. On failure
// the previous snapshot stays intact and the error is returned.
func (c *Controller) Save(ctx context.Context, session *models.Session, in HoldingInput) (*models.Holding, error) {
	if session == nil {
		return nil, ErrAuthRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := c.store.GetPortfolioByUserID(session.UserID)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve portfolio", Err: err}
	}

	h := &models.Holding{
		ID:            in.ID,
		PortfolioID:   p.ID,
		Symbol:        in.Symbol,
		CompanyName:   in.CompanyName,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
	}

	if in.ID != "" {
		err = c.store.UpdateHolding(h)
	} else {
		err = c.store.CreateHolding(h)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "save holding", Err: err}
	}

	if c.producer != nil {
		if err := c.producer.PublishHoldingSaved(ctx, h); err != nil {
			log.Printf("portfolio: failed to publish holding saved event: %v", err)
		}
	}

	if _, err := c.Fetch(ctx, session); err != nil {
		log.Printf("portfolio: resync after save failed: %v", err)
	}
	return h, nil
}

// Delete removes a holding by id and triggers a full re-fetch. A
// missing id surfaces as a persistence error while the previous
// snapshot stays intact.
func (c *Controller) Delete(ctx context.Context, session *models.Session, id string) error {
	if session == nil {
		return ErrAuthRequired
	}

	p, err := c.store.GetPortfolioByUserID(session.UserID)
	if err != nil {
		return &PersistenceError{Op: "resolve portfolio", Err: err}
	}

	if err := c.store.DeleteHolding(p.ID, id); err != nil {
		return &PersistenceError{Op: "delete holding", Err: err}
	}

	if c.producer != nil {
		if err := c.producer.PublishHoldingDeleted(ctx, p.ID, id); err != nil {
			log.Printf("portfolio: failed to publish holding deleted event: %v", err)
		}
	}

	if _, err := c.Fetch(ctx, session); err != nil {
		log.Printf("portfolio: resync after delete failed: %v", err)
	}
	return nil
}

// createAndSeed creates the user's portfolio and seeds it with the
// demo holdings, each priced at its live quote.
func (c *Controller) createAndSeed(ctx context.Context, userID string) (*models.Portfolio, error) {
	p := &models.Portfolio{UserID: userID}
	if err := c.store.CreatePortfolio(p); err != nil {
		return nil, err
	}

	for _, demo := range demoHoldings {
		h := &models.Holding{
			PortfolioID:   p.ID,
			Symbol:        demo.Symbol,
			CompanyName:   demo.Name,
			Quantity:      1,
			PurchasePrice: c.quotes.PriceDecimal(ctx, demo.Symbol),
		}
		if err := c.store.CreateHolding(h); err != nil {
			return nil, err
		}
	}
	log.Printf("portfolio: seeded %d demo holdings for user %s", len(demoHoldings), userID)
	return p, nil
}

// attachPrices resolves the current price of every holding with
// independent parallel fetches. A failed quote leaves that row at 0.
func (c *Controller) attachPrices(ctx context.Context, holdings []*models.Holding) {
	var wg sync.WaitGroup
	for _, h := range holdings {
		wg.Add(1)
		go func(h *models.Holding) {
			defer wg.Done()
			h.CurrentPrice = c.quotes.PriceDecimal(ctx, h.Symbol)
		}(h)
	}
	wg.Wait()
}

func (c *Controller) setSnapshot(userID string, snap *Snapshot) {
	c.mu.Lock()
	c.snapshots[userID] = snap
	c.mu.Unlock()
}
