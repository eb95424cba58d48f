package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ukydev/property-maintenance/internal/store"
)

// NotificationHandler serves the store's alert log
type NotificationHandler struct {
	store *store.Store
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(s *store.Store) *NotificationHandler {
	return &NotificationHandler{store: s}
}

// ListNotifications returns the alert log newest-first
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := h.store.Notifications()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": notifications,
		"unread":        h.store.UnreadCount(),
	})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.MarkNotificationRead(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification marked as read"})
}
