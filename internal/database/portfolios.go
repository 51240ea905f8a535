package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoward/portfolio-tracker/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// CreatePortfolio inserts a portfolio for the given user
func (db *DB) CreatePortfolio(p *models.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()

	query := `
		INSERT INTO portfolios (id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := db.conn.Exec(query, p.ID, p.UserID, now); err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	p.CreatedAt = now
	return nil
}

// GetPortfolioByUserID retrieves the portfolio owned by a user.
// Returns ErrNotFound when the user has no portfolio yet.
func (db *DB) GetPortfolioByUserID(userID string) (*models.Portfolio, error) {
	query := `
		SELECT id, user_id, created_at
		FROM portfolios
		WHERE user_id = $1
	`
	var p models.Portfolio
	err := db.conn.QueryRow(query, userID).Scan(&p.ID, &p.UserID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("portfolio for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio for user %s: %w", userID, err)
	}
	return &p, nil
}
