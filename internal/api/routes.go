package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Portfolio routes (session required)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.RequireSession)
	api.HandleFunc("/portfolio", handler.GetPortfolio).Methods("GET")
	api.HandleFunc("/holdings", handler.ListHoldings).Methods("GET")
	api.HandleFunc("/holdings", handler.CreateHolding).Methods("POST")
	api.HandleFunc("/holdings/{id}", handler.UpdateHolding).Methods("PUT")
	api.HandleFunc("/holdings/{id}", handler.DeleteHolding).Methods("DELETE")

	return r
}
