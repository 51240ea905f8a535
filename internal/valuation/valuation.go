// Package valuation computes aggregate portfolio metrics from holdings
// with attached current prices. All functions are pure and deterministic.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/khoward/portfolio-tracker/internal/models"
)

// Slice is one bar of the portfolio distribution chart.
type Slice struct {
	Symbol string          `json:"symbol"`
	Value  decimal.Decimal `json:"value"`
}

// Performer describes the best performing holding and its return.
type Performer struct {
	Holding *models.Holding `json:"holding"`
	// ReturnPct is (current - purchase) / purchase * 100.
	ReturnPct decimal.Decimal `json:"return_pct"`
}

// Summary bundles the dashboard metrics for one holdings snapshot.
type Summary struct {
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalGainLoss decimal.Decimal `json:"total_gain_loss"`
	BestPerformer *Performer      `json:"best_performer,omitempty"`
	Distribution  []Slice         `json:"distribution"`
}

// TotalValue returns the sum of quantity * current price over all
// holdings. An empty list yields 0.
func TotalValue(holdings []*models.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity)))
	}
	return total
}

// TotalGainLoss returns the sum of quantity * (current - purchase)
// over all holdings.
func TotalGainLoss(holdings []*models.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(GainLoss(h))
	}
	return total
}

// GainLoss returns quantity * (current - purchase) for one holding.
func GainLoss(h *models.Holding) decimal.Decimal {
	return h.CurrentPrice.Sub(h.PurchasePrice).Mul(decimal.NewFromInt(h.Quantity))
}

// GainLossPercent returns the per-row return percentage. A holding
// with purchase price 0 has no meaningful return and yields 0.
func GainLossPercent(h *models.Holding) decimal.Decimal {
	if h.PurchasePrice.IsZero() {
		return decimal.Zero
	}
	return h.CurrentPrice.Sub(h.PurchasePrice).
		Div(h.PurchasePrice).
		Mul(decimal.NewFromInt(100))
}

// BestPerformer returns the holding with the highest return
// percentage. Holdings with purchase price 0 are excluded from the
// ranking. Ties keep the first encountered. ok is false when no
// holding qualifies.
func BestPerformer(holdings []*models.Holding) (*Performer, bool) {
	var best *Performer
	for _, h := range holdings {
		if h.PurchasePrice.IsZero() {
			continue
		}
		pct := GainLossPercent(h)
		if best == nil || pct.GreaterThan(best.ReturnPct) {
			best = &Performer{Holding: h, ReturnPct: pct}
		}
	}
	return best, best != nil
}

// Distribution returns one (symbol, quantity * current price) slice
// per holding, in input order, for charting.
func Distribution(holdings []*models.Holding) []Slice {
	slices := make([]Slice, 0, len(holdings))
	for _, h := range holdings {
		slices = append(slices, Slice{
			Symbol: h.Symbol,
			Value:  h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity)),
		})
	}
	return slices
}

// Summarize computes the full dashboard summary for a snapshot.
func Summarize(holdings []*models.Holding) Summary {
	s := Summary{
		TotalValue:    TotalValue(holdings),
		TotalGainLoss: TotalGainLoss(holdings),
		Distribution:  Distribution(holdings),
	}
	if best, ok := BestPerformer(holdings); ok {
		s.BestPerformer = best
	}
	return s
}
