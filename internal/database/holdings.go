package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoward/portfolio-tracker/internal/models"
)

// CreateHolding inserts a new holding under a portfolio
func (db *DB) CreateHolding(h *models.Holding) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	now := time.Now()

	query := `
		INSERT INTO stock_holdings (
			id, portfolio_id, symbol, company_name, quantity, purchase_price,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := db.conn.Exec(query,
		h.ID, h.PortfolioID, h.Symbol, h.CompanyName, h.Quantity, h.PurchasePrice,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}
	h.CreatedAt = now
	h.UpdatedAt = now
	return nil
}

// GetHoldingByID retrieves a holding by id, scoped to a portfolio
func (db *DB) GetHoldingByID(portfolioID, id string) (*models.Holding, error) {
	query := `
		SELECT id, portfolio_id, symbol, company_name, quantity, purchase_price,
		       created_at, updated_at
		FROM stock_holdings
		WHERE id = $1 AND portfolio_id = $2
	`
	var h models.Holding
	err := db.conn.QueryRow(query, id, portfolioID).Scan(
		&h.ID, &h.PortfolioID, &h.Symbol, &h.CompanyName, &h.Quantity, &h.PurchasePrice,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("holding %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding %s: %w", id, err)
	}
	return &h, nil
}

// GetHoldingsByPortfolioID retrieves all holdings of a portfolio,
// oldest first
func (db *DB) GetHoldingsByPortfolioID(portfolioID string) ([]*models.Holding, error) {
	query := `
		SELECT id, portfolio_id, symbol, company_name, quantity, purchase_price,
		       created_at, updated_at
		FROM stock_holdings
		WHERE portfolio_id = $1
		ORDER BY created_at, id
	`
	rows, err := db.conn.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(
			&h.ID, &h.PortfolioID, &h.Symbol, &h.CompanyName, &h.Quantity, &h.PurchasePrice,
			&h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return holdings, nil
}

// UpdateHolding updates the editable fields of a holding, scoped to a
// portfolio. Returns ErrNotFound when no row matched.
func (db *DB) UpdateHolding(h *models.Holding) error {
	now := time.Now()

	query := `
		UPDATE stock_holdings
		SET symbol = $1, company_name = $2, quantity = $3, purchase_price = $4,
		    updated_at = $5
		WHERE id = $6 AND portfolio_id = $7
	`
	res, err := db.conn.Exec(query,
		h.Symbol, h.CompanyName, h.Quantity, h.PurchasePrice,
		now, h.ID, h.PortfolioID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding %s: %w", h.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update holding %s: %w", h.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("holding %s: %w", h.ID, ErrNotFound)
	}
	h.UpdatedAt = now
	return nil
}

// DeleteHolding removes a holding by id, scoped to a portfolio.
// Returns ErrNotFound when no row matched.
func (db *DB) DeleteHolding(portfolioID, id string) error {
	query := `DELETE FROM stock_holdings WHERE id = $1 AND portfolio_id = $2`

	res, err := db.conn.Exec(query, id, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("holding %s: %w", id, ErrNotFound)
	}
	return nil
}
