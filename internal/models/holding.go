package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents one stock position owned by a portfolio
type Holding struct {
	ID            string          `json:"id"`
	PortfolioID   string          `json:"portfolio_id"`
	Symbol        string          `json:"symbol"`
	CompanyName   string          `json:"company_name"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	// CurrentPrice is attached from the quote API on every fetch/refresh
	// and is never persisted. Zero means the price is unknown.
	CurrentPrice decimal.Decimal `json:"current_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HoldingEvent represents a Kafka event for holding changes
type HoldingEvent struct {
	EventType   string    `json:"event_type"`
	Holding     *Holding  `json:"holding,omitempty"`
	HoldingID   string    `json:"holding_id"`
	PortfolioID string    `json:"portfolio_id"`
	Timestamp   time.Time `json:"timestamp"`
}
