package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/khoward/portfolio-tracker/internal/models"
	"github.com/khoward/portfolio-tracker/internal/portfolio"
)

type contextKey string

const sessionKey contextKey = "session"

// RequireSession resolves the Authorization bearer token into a
// session and rejects the request with 401 when none resolves.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		session, err := h.sessions.Get(r.Context(), token)
		if err != nil {
			respondError(w, portfolio.ErrAuthRequired)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func sessionFrom(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionKey).(*models.Session)
	return session
}
