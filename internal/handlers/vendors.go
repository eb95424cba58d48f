package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ukydev/property-maintenance/internal/store"
)

// VendorHandler serves the vendor directory
type VendorHandler struct {
	store *store.Store
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(s *store.Store) *VendorHandler {
	return &VendorHandler{store: s}
}

// ListVendors returns all seeded vendors
func (h *VendorHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors := h.store.Vendors()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// GetVendor returns a single vendor by id
func (h *VendorHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	vendor, err := h.store.Vendor(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vendor)
}
