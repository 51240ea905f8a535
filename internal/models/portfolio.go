package models

import "time"

// Portfolio is the per-user container of holdings. Each authenticated
// user owns exactly one portfolio, created lazily on first access.
type Portfolio struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
