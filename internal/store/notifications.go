package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ukydev/property-maintenance/internal/events"
	"github.com/ukydev/property-maintenance/internal/models"
)

// Notify appends an alert to the notification log and returns its id. The
// log is bounded; the oldest entries are dropped past the cap.
func (s *Store) Notify(title, body string, severity models.NotificationSeverity) string {
	s.mu.Lock()
	note := s.appendNotificationLocked(title, body, severity)
	listeners, snap := s.notifyPrepLocked()
	s.mu.Unlock()

	s.dispatch(listeners, snap)
	s.bus.Publish(events.Event{Type: events.EventNotification, Notification: &note})
	return note.ID
}

// MarkNotificationRead flags a notification as read.
func (s *Store) MarkNotificationRead(id string) error {
	s.mu.Lock()
	var read *models.Notification
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			note := s.notifications[i]
			read = &note
			break
		}
	}
	if read == nil {
		s.mu.Unlock()
		return fmt.Errorf("notification not found: %s", id)
	}
	listeners, snap := s.notifyPrepLocked()
	s.mu.Unlock()

	s.dispatch(listeners, snap)
	s.bus.Publish(events.Event{Type: events.EventNotification, Notification: read})
	return nil
}

// Notifications returns a copy of the log, newest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.notifications...)
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, note := range s.notifications {
		if !note.Read {
			n++
		}
	}
	return n
}

// appendNotificationLocked inserts at the head and enforces the cap. Caller
// holds the lock.
func (s *Store) appendNotificationLocked(title, body string, severity models.NotificationSeverity) models.Notification {
	note := models.Notification{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		Title:     title,
		Body:      body,
		Severity:  severity,
	}
	s.notifications = append([]models.Notification{note}, s.notifications...)
	if len(s.notifications) > s.maxNotes {
		s.notifications = s.notifications[:s.maxNotes]
	}
	return note
}
