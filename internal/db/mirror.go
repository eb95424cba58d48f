package db

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/property-maintenance/internal/events"
)

// Mirror copies store mutations into MongoDB by listening on the event bus.
// The in-memory store stays authoritative; the mirror is write-behind and a
// failed write is logged, not retried.
type Mirror struct {
	requests RequestCollection
	notes    NotificationCollection
	timeout  time.Duration
	unsubs   []func()
}

// NewMirror creates a mirror over the given collections. A nil notification
// collection disables notification mirroring.
func NewMirror(requests RequestCollection, notes NotificationCollection) *Mirror {
	return &Mirror{
		requests: requests,
		notes:    notes,
		timeout:  5 * time.Second,
	}
}

// Start subscribes the mirror to store events on the bus.
func (m *Mirror) Start(bus *events.Bus) {
	handleRequest := func(e events.Event) {
		if e.Request == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		if err := m.requests.UpsertRequest(ctx, *e.Request); err != nil {
			log.WithError(err).WithField("request_id", e.Request.ID).Error("Failed to mirror request")
		}
	}

	m.unsubs = append(m.unsubs,
		bus.Subscribe(events.EventRequestAdded, handleRequest),
		bus.Subscribe(events.EventRequestUpdated, handleRequest),
	)

	if m.notes == nil {
		return
	}
	m.unsubs = append(m.unsubs, bus.Subscribe(events.EventNotification, func(e events.Event) {
		if e.Notification == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		var err error
		if e.Notification.Read {
			err = m.notes.MarkRead(ctx, e.Notification.ID)
		} else {
			err = m.notes.InsertNotification(ctx, *e.Notification)
		}
		if err != nil {
			log.WithError(err).WithField("notification_id", e.Notification.ID).Error("Failed to mirror notification")
		}
	}))
}

// Stop detaches the mirror from the bus.
func (m *Mirror) Stop() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}
