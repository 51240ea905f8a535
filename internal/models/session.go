package models

import "time"

// Session is the ephemeral authentication context identifying the
// current user. Sessions live in Redis and are written by the external
// auth flow; this service only resolves them.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
