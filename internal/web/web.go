// Package web renders the HTML dashboard: metrics cards, the
// distribution chart, the holdings table, and the add/edit form.
// It is purely presentational over controller state.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/khoward/portfolio-tracker/internal/models"
	"github.com/khoward/portfolio-tracker/internal/portfolio"
	"github.com/khoward/portfolio-tracker/internal/valuation"
)

//go:embed templates/*.html
var templateFS embed.FS

// sessionCookie carries the auth token issued by the external sign-in flow.
const sessionCookie = "pt_session"

// SessionResolver resolves a session token
type SessionResolver interface {
	Get(ctx context.Context, token string) (*models.Session, error)
}

// Handler serves the HTML surface
type Handler struct {
	controller *portfolio.Controller
	sessions   SessionResolver
	tmpl       *template.Template
}

// NewHandler parses the embedded templates and creates the web handler
func NewHandler(controller *portfolio.Controller, sessions SessionResolver) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{
		controller: controller,
		sessions:   sessions,
		tmpl:       tmpl,
	}, nil
}

// Register mounts the web routes on a router
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.Dashboard).Methods("GET")
	r.HandleFunc("/holdings/new", h.NewHolding).Methods("GET")
	r.HandleFunc("/holdings/{id}/edit", h.EditHolding).Methods("GET")
	r.HandleFunc("/holdings", h.SaveHolding).Methods("POST")
	r.HandleFunc("/holdings/{id}/delete", h.DeleteHolding).Methods("POST")
}

type bestView struct {
	Symbol    string
	ReturnPct string
}

type barView struct {
	Symbol   string
	Value    string
	WidthPct int64
}

type rowView struct {
	ID            string
	Symbol        string
	CompanyName   string
	Quantity      int64
	PurchasePrice string
	CurrentPrice  string
	GainLoss      string
	GainLossPct   string
	GainPositive  bool
}

type dashboardView struct {
	TotalValue    string
	TotalGainLoss string
	GainPositive  bool
	Best          *bestView
	Bars          []barView
	Rows          []rowView
	Error         string
}

// Dashboard handles GET /
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	snap, err := h.controller.Fetch(r.Context(), session)
	if err != nil {
		h.renderError(w, err)
		return
	}

	view := buildDashboardView(snap, r.URL.Query().Get("error"))
	h.render(w, http.StatusOK, "dashboard", view)
}

func buildDashboardView(snap *portfolio.Snapshot, banner string) dashboardView {
	summary := valuation.Summarize(snap.Holdings)

	view := dashboardView{
		TotalValue:    summary.TotalValue.StringFixed(2),
		TotalGainLoss: summary.TotalGainLoss.StringFixed(2),
		GainPositive:  !summary.TotalGainLoss.IsNegative(),
		Error:         banner,
	}
	if summary.BestPerformer != nil {
		view.Best = &bestView{
			Symbol:    summary.BestPerformer.Holding.Symbol,
			ReturnPct: summary.BestPerformer.ReturnPct.StringFixed(2),
		}
	}

	maxValue := decimal.Zero
	for _, s := range summary.Distribution {
		if s.Value.GreaterThan(maxValue) {
			maxValue = s.Value
		}
	}
	for _, s := range summary.Distribution {
		width := int64(0)
		if maxValue.IsPositive() {
			width = s.Value.Div(maxValue).Mul(decimal.NewFromInt(100)).IntPart()
		}
		view.Bars = append(view.Bars, barView{
			Symbol:   s.Symbol,
			Value:    s.Value.StringFixed(2),
			WidthPct: width,
		})
	}

	for _, holding := range snap.Holdings {
		gainLoss := valuation.GainLoss(holding)
		view.Rows = append(view.Rows, rowView{
			ID:            holding.ID,
			Symbol:        holding.Symbol,
			CompanyName:   holding.CompanyName,
			Quantity:      holding.Quantity,
			PurchasePrice: holding.PurchasePrice.StringFixed(2),
			CurrentPrice:  holding.CurrentPrice.StringFixed(2),
			GainLoss:      gainLoss.StringFixed(2),
			GainLossPct:   valuation.GainLossPercent(holding).StringFixed(2),
			GainPositive:  !gainLoss.IsNegative(),
		})
	}
	return view
}

type formView struct {
	ID            string
	Symbol        string
	CompanyName   string
	Quantity      int64
	PurchasePrice string
	Error         string
}

// NewHolding handles GET /holdings/new
func (h *Handler) NewHolding(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolveSession(w, r); !ok {
		return
	}
	h.render(w, http.StatusOK, "form", formView{Quantity: 1, PurchasePrice: "0"})
}

// EditHolding handles GET /holdings/{id}/edit
func (h *Handler) EditHolding(w http.ResponseWriter, r *http.Request) {
	session, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	snap, err := h.controller.Fetch(r.Context(), session)
	if err != nil {
		h.renderError(w, err)
		return
	}

	for _, holding := range snap.Holdings {
		if holding.ID == id {
			h.render(w, http.StatusOK, "form", formView{
				ID:            holding.ID,
				Symbol:        holding.Symbol,
				CompanyName:   holding.CompanyName,
				Quantity:      holding.Quantity,
				PurchasePrice: holding.PurchasePrice.StringFixed(2),
			})
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SaveHolding handles POST /holdings for both create and update
func (h *Handler) SaveHolding(w http.ResponseWriter, r *http.Request) {
	session, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in, parseErr := parseHoldingForm(r)
	if parseErr == nil {
		_, err := h.controller.Save(r.Context(), session, in)
		if err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if errors.Is(err, portfolio.ErrInvalidHolding) {
			parseErr = err
		} else {
			log.Printf("web: save holding: %v", err)
			h.redirectWithError(w, r, "Failed to save stock. Please try again.")
			return
		}
	}

	// re-render the form with the rejected values
	h.render(w, http.StatusBadRequest, "form", formView{
		ID:            r.FormValue("id"),
		Symbol:        r.FormValue("symbol"),
		CompanyName:   r.FormValue("company_name"),
		Quantity:      in.Quantity,
		PurchasePrice: r.FormValue("purchase_price"),
		Error:         parseErr.Error(),
	})
}

// DeleteHolding handles POST /holdings/{id}/delete
func (h *Handler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	session, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.controller.Delete(r.Context(), session, id); err != nil {
		log.Printf("web: delete holding: %v", err)
		h.redirectWithError(w, r, "Failed to delete stock. Please try again.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func parseHoldingForm(r *http.Request) (portfolio.HoldingInput, error) {
	in := portfolio.HoldingInput{
		ID:          r.FormValue("id"),
		Symbol:      r.FormValue("symbol"),
		CompanyName: r.FormValue("company_name"),
	}

	quantity, err := strconv.ParseInt(r.FormValue("quantity"), 10, 64)
	if err != nil {
		return in, fmt.Errorf("%w: quantity must be a whole number", portfolio.ErrInvalidHolding)
	}
	in.Quantity = quantity

	price, err := decimal.NewFromString(r.FormValue("purchase_price"))
	if err != nil {
		return in, fmt.Errorf("%w: purchase price must be a number", portfolio.ErrInvalidHolding)
	}
	in.PurchasePrice = price

	return in, nil
}

func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		h.render(w, http.StatusUnauthorized, "signin", nil)
		return nil, false
	}
	session, err := h.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		h.render(w, http.StatusUnauthorized, "signin", nil)
		return nil, false
	}
	return session, true
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	h.render(w, http.StatusBadGateway, "error", map[string]string{"Message": err.Error()})
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("web: render %s: %v", name, err)
	}
}
