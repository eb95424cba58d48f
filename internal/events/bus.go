// Package events provides the broadcast channel the store uses to reach
// consumers outside its direct subscriber set (messaging panels, persistence
// mirrors, the MQTT bridge). Delivery is fire-and-forget and unordered with
// respect to the store's own snapshot notifications.
package events

import (
	"sync"
	"time"

	"github.com/ukydev/property-maintenance/internal/models"
)

// EventType represents the type of event being published.
type EventType string

const (
	// EventRequestAdded is published when a new request enters the store.
	EventRequestAdded EventType = "request_added"
	// EventRequestUpdated is published when an existing request changes.
	EventRequestUpdated EventType = "request_updated"
	// EventChatCreated is published when vendor assignment opens a
	// three-party chat context.
	EventChatCreated EventType = "chat_created"
	// EventNotification is published when an alert enters the log or is
	// marked read.
	EventNotification EventType = "notification"
)

// Event is a system event with its typed payload. Request is set for
// request_added/request_updated, Chat for chat_created, Notification for
// notification.
type Event struct {
	Type         EventType
	Timestamp    time.Time
	Request      *models.MaintenanceRequest
	Chat         *models.ChatContext
	Notification *models.Notification
}

// Subscriber is a function that receives events.
type Subscriber func(Event)

// Bus is a non-blocking event bus using Publish/Subscribe pattern.
// Events are delivered asynchronously via buffered channels.
// If a subscriber's channel is full, the event is dropped silently.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan Event
	bufferSize  int
}

// NewBus creates a new event bus with the specified buffer size per subscriber.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a subscriber for a specific event type.
// The subscriber function is called asynchronously in a goroutine.
// Returns an unsubscribe function.
func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)

	go func() {
		for event := range ch {
			// Recover so one panicking subscriber cannot take the bus down.
			func() {
				defer func() {
					_ = recover()
				}()
				fn(event)
			}()
		}
	}()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subscribers[eventType]
		for i, subCh := range subs {
			if subCh == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
}

// Publish sends an event to all subscribers of its type. Uses select with
// default so a full subscriber channel drops the event rather than blocking
// the publisher.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			// Channel full, drop for this subscriber.
		}
	}
}

// Close closes all subscriber channels and clears subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, eventType)
	}
}
