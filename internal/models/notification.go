package models

import "time"

// NotificationSeverity grades an alert for display purposes.
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeverityWarning NotificationSeverity = "warning"
	SeverityError   NotificationSeverity = "error"
)

// Notification is one entry in the store's alert log. Entries are appended
// by producers and marked read by consumers; the store bounds the log.
type Notification struct {
	ID        string               `json:"id" bson:"_id"`
	Timestamp time.Time            `json:"timestamp" bson:"timestamp"`
	Read      bool                 `json:"read" bson:"read"`
	Title     string               `json:"title" bson:"title"`
	Body      string               `json:"body" bson:"body"`
	Severity  NotificationSeverity `json:"severity" bson:"severity"`
}

// ChatParticipant is one party in a maintenance chat context.
type ChatParticipant struct {
	Name    string `json:"name" bson:"name"`
	Contact string `json:"contact" bson:"contact"`
	Role    string `json:"role" bson:"role"` // "tenant", "vendor", "admin"
}

// ChatContext is the three-party hand-off record raised when a vendor is
// assigned. The store does not create the chat itself; a messaging
// collaborator consumes this event.
type ChatContext struct {
	RequestID string          `json:"request_id" bson:"request_id"`
	Tenant    ChatParticipant `json:"tenant" bson:"tenant"`
	Vendor    ChatParticipant `json:"vendor" bson:"vendor"`
	Admin     ChatParticipant `json:"admin" bson:"admin"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}
