package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ukydev/property-maintenance/internal/models"
	"github.com/ukydev/property-maintenance/internal/store"
)

// RequestHandler serves the maintenance request API over the in-memory store.
type RequestHandler struct {
	store *store.Store
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(s *store.Store) *RequestHandler {
	return &RequestHandler{store: s}
}

// writeStoreError maps store sentinels onto HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRequestNotFound), errors.Is(err, store.ErrVendorNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrCategoryMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrUnknownCategory), errors.Is(err, store.ErrUnknownPriority):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListRequests returns requests newest-first, filtered by query parameters.
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := models.RequestFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Category: r.URL.Query().Get("category"),
		Property: r.URL.Query().Get("property"),
	}

	requests := h.store.List(filter)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// CreateRequest submits a new maintenance request
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var draft models.RequestDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if draft.Property == "" || draft.Title == "" {
		http.Error(w, "Property and title are required", http.StatusBadRequest)
		return
	}

	id, err := h.store.Add(draft)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	created, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetRequest returns a single request by id
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}

// UpdateRequest applies a partial update to a request
func (h *RequestHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var patch models.RequestPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.store.Update(id, patch); err != nil {
		writeStoreError(w, err)
		return
	}

	updated, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// AssignVendor assigns a vendor to a request and opens its chat context
func (h *RequestHandler) AssignVendor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var assignReq struct {
		VendorID string `json:"vendor_id"`
	}
	if err := json.Unmarshal(body, &assignReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if assignReq.VendorID == "" {
		http.Error(w, "vendor_id is required", http.StatusBadRequest)
		return
	}

	if err := h.store.AssignVendor(id, assignReq.VendorID); err != nil {
		writeStoreError(w, err)
		return
	}

	updated, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// RateRequest records tenant satisfaction for a completed request
func (h *RequestHandler) RateRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var rateReq struct {
		Rating   int    `json:"rating"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(body, &rateReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if rateReq.Rating < 1 || rateReq.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusUnprocessableEntity)
		return
	}

	req, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if req.Status != models.StatusCompleted {
		http.Error(w, "Only completed requests can be rated", http.StatusConflict)
		return
	}

	patch := models.RequestPatch{
		Rating:    &rateReq.Rating,
		UpdatedBy: "Tenant",
	}
	if rateReq.Feedback != "" {
		patch.Feedback = &rateReq.Feedback
	}

	if err := h.store.Update(id, patch); err != nil {
		writeStoreError(w, err)
		return
	}

	updated, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
