package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ukydev/property-maintenance/internal/store"
)

// AnalyticsHandler serves the dashboard summary
type AnalyticsHandler struct {
	store *store.Store
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(s *store.Store) *AnalyticsHandler {
	return &AnalyticsHandler{store: s}
}

// GetAnalytics returns aggregate figures over the current request set
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.store.Analytics())
}
