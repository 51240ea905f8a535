package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/khoward/portfolio-tracker/internal/models"
	"github.com/khoward/portfolio-tracker/internal/portfolio"
	"github.com/khoward/portfolio-tracker/internal/valuation"
)

// SessionResolver resolves a bearer token to a session
type SessionResolver interface {
	Get(ctx context.Context, token string) (*models.Session, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	controller *portfolio.Controller
	sessions   SessionResolver
}

// NewHandler creates a new Handler
func NewHandler(controller *portfolio.Controller, sessions SessionResolver) *Handler {
	return &Handler{
		controller: controller,
		sessions:   sessions,
	}
}

// holdingView is a holding with its per-row display metrics attached
type holdingView struct {
	*models.Holding
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent decimal.Decimal `json:"gain_loss_percent"`
}

func holdingViews(holdings []*models.Holding) []holdingView {
	views := make([]holdingView, 0, len(holdings))
	for _, h := range holdings {
		views = append(views, holdingView{
			Holding:         h,
			GainLoss:        valuation.GainLoss(h),
			GainLossPercent: valuation.GainLossPercent(h),
		})
	}
	return views
}

// portfolioResponse is the dashboard payload: the snapshot plus its
// valuation summary
type portfolioResponse struct {
	State       portfolio.State   `json:"state"`
	Holdings    []holdingView     `json:"holdings"`
	Summary     valuation.Summary `json:"summary"`
	RefreshedAt string            `json:"refreshed_at"`
}

// GetPortfolio handles GET /api/v1/portfolio
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	snap, err := h.controller.Fetch(r.Context(), session)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, portfolioResponse{
		State:       snap.State,
		Holdings:    holdingViews(snap.Holdings),
		Summary:     valuation.Summarize(snap.Holdings),
		RefreshedAt: snap.RefreshedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListHoldings handles GET /api/v1/holdings
func (h *Handler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	snap, err := h.controller.Fetch(r.Context(), session)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, holdingViews(snap.Holdings))
}

// CreateHolding handles POST /api/v1/holdings
func (h *Handler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var in portfolio.HoldingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	in.ID = ""

	holding, err := h.controller.Save(r.Context(), session, in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, holding)
}

// UpdateHolding handles PUT /api/v1/holdings/{id}
func (h *Handler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	vars := mux.Vars(r)

	var in portfolio.HoldingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	in.ID = vars["id"]

	holding, err := h.controller.Save(r.Context(), session, in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE /api/v1/holdings/{id}
func (h *Handler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	vars := mux.Vars(r)

	if err := h.controller.Delete(r.Context(), session, vars["id"]); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps the error taxonomy onto HTTP statuses: missing
// session 401, validation 400, backend failure 502, anything else 500.
func respondError(w http.ResponseWriter, err error) {
	var perr *portfolio.PersistenceError
	switch {
	case errors.Is(err, portfolio.ErrAuthRequired):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": portfolio.ErrAuthRequired.Error()})
	case errors.Is(err, portfolio.ErrInvalidHolding):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &perr):
		respondJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
