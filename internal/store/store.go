// Package store holds the authoritative in-memory set of maintenance
// requests plus the vendor directory and notification log, and notifies
// subscribers on every mutation. External code must go through the store's
// operations; returned records are copies and writing through them does not
// touch store state.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/property-maintenance/internal/events"
	"github.com/ukydev/property-maintenance/internal/models"
	"github.com/ukydev/property-maintenance/internal/taxonomy"
	"github.com/ukydev/property-maintenance/internal/triage"
)

var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrVendorNotFound    = errors.New("vendor not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrCategoryMismatch  = errors.New("vendor category does not match request")
	ErrUnknownCategory   = errors.New("unknown service category")
	ErrUnknownPriority   = errors.New("unknown priority")
)

// Snapshot is the state copy handed to subscribers. Requests are ordered
// newest-first.
type Snapshot struct {
	Requests      []*models.MaintenanceRequest
	Vendors       []models.Vendor
	Notifications []models.Notification
}

// Listener receives a fresh snapshot after every store mutation.
type Listener func(Snapshot)

// Store is the maintenance request store.
type Store struct {
	mu            sync.Mutex
	requests      []*models.MaintenanceRequest // head = newest
	vendors       []models.Vendor
	notifications []models.Notification // head = newest
	maxNotes      int

	listeners  map[int]Listener
	nextListen int

	bus       *events.Bus
	diagnoser triage.Diagnoser
	delay     time.Duration
	timeout   time.Duration
	pending   map[string]context.CancelFunc

	adminName    string
	adminContact string

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithVendors replaces the seeded vendor directory.
func WithVendors(vendors []models.Vendor) Option {
	return func(s *Store) { s.vendors = append([]models.Vendor(nil), vendors...) }
}

// WithDiagnoser sets the triage implementation.
func WithDiagnoser(d triage.Diagnoser) Option {
	return func(s *Store) { s.diagnoser = d }
}

// WithTriageDelay sets the simulated processing latency before triage runs.
func WithTriageDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithTriageTimeout bounds a single triage call. Exceeding it stores the
// fallback analysis.
func WithTriageTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithNotificationCap bounds the notification log.
func WithNotificationCap(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxNotes = n
		}
	}
}

// WithAdminContact sets the admin party used in chat contexts.
func WithAdminContact(name, contact string) Option {
	return func(s *Store) {
		s.adminName = name
		s.adminContact = contact
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store seeded with the default vendor directory. Pass options
// to override vendors, triage behavior or the notification cap.
func New(opts ...Option) *Store {
	s := &Store{
		vendors:      append([]models.Vendor(nil), taxonomy.SeedVendors...),
		maxNotes:     200,
		listeners:    make(map[int]Listener),
		bus:          events.NewBus(64),
		delay:        2 * time.Second,
		timeout:      10 * time.Second,
		pending:      make(map[string]context.CancelFunc),
		adminName:    "Property Management",
		adminContact: "admin@property.example.com",
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diagnoser == nil {
		s.diagnoser = triage.NewRuleDiagnoser(s.vendors)
	}
	return s
}

// Events exposes the broadcast bus for external consumers (MQTT bridge,
// persistence mirror, messaging).
func (s *Store) Events() *events.Bus {
	return s.bus
}

// Close cancels pending triage runs and shuts down the event bus.
func (s *Store) Close() {
	s.mu.Lock()
	for id, cancel := range s.pending {
		cancel()
		delete(s.pending, id)
	}
	s.mu.Unlock()
	s.bus.Close()
}

// Subscribe registers a listener invoked synchronously with a fresh snapshot
// after every mutation. The returned function removes exactly that listener.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListen
	s.nextListen++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Add submits a new request. The new record starts in status submitted with
// a single timeline entry, is inserted at the head of the collection, and
// triage is scheduled to run after the configured delay.
func (s *Store) Add(draft models.RequestDraft) (string, error) {
	if !taxonomy.ValidCategory(draft.Category) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, draft.Category)
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if !taxonomy.ValidPriority(draft.Priority) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, draft.Priority)
	}

	now := s.now()
	actor := draft.SubmittedBy
	if actor == "" {
		actor = "Tenant"
	}

	req := &models.MaintenanceRequest{
		ID:            uuid.NewString(),
		Property:      draft.Property,
		Unit:          draft.Unit,
		Tenant:        draft.Tenant,
		Title:         draft.Title,
		Description:   draft.Description,
		Category:      draft.Category,
		Priority:      draft.Priority,
		Status:        models.StatusSubmitted,
		EstimatedCost: draft.EstimatedCost,
		Photos:        append([]string(nil), draft.Photos...),
		CreatedAt:     now,
		UpdatedAt:     now,
		ScheduledFor:  draft.ScheduledFor,
		Timeline: []models.TimelineEntry{{
			Timestamp:   now,
			Description: "Request submitted",
			Actor:       actor,
		}},
		TenantVisible: true,
		OwnerVisible:  true,
	}
	if draft.TenantVisible != nil {
		req.TenantVisible = *draft.TenantVisible
	}
	if draft.OwnerVisible != nil {
		req.OwnerVisible = *draft.OwnerVisible
	}

	s.mu.Lock()
	s.requests = append([]*models.MaintenanceRequest{req}, s.requests...)
	note := s.appendNotificationLocked(
		"New maintenance request",
		fmt.Sprintf("%s - %s (%s)", req.Property, req.Title, req.Priority),
		models.SeverityInfo,
	)
	s.scheduleTriageLocked(req.ID)
	listeners, snap := s.notifyPrepLocked()
	added := req.Clone()
	s.mu.Unlock()

	s.dispatch(listeners, snap)
	s.bus.Publish(events.Event{Type: events.EventRequestAdded, Request: added})
	s.bus.Publish(events.Event{Type: events.EventNotification, Notification: &note})

	return req.ID, nil
}

// Update merges a patch into an existing request. A status change must
// follow the transition lattice and appends exactly one timeline entry; a
// patch without a status change leaves the timeline untouched.
func (s *Store) Update(id string, patch models.RequestPatch) error {
	s.mu.Lock()
	req := s.findLocked(id)
	if req == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}

	if err := s.applyPatchLocked(req, patch); err != nil {
		s.mu.Unlock()
		return err
	}

	listeners, snap := s.notifyPrepLocked()
	updated := req.Clone()
	s.mu.Unlock()

	s.dispatch(listeners, snap)
	s.bus.Publish(events.Event{Type: events.EventRequestUpdated, Request: updated})

	return nil
}

// applyPatchLocked merges patch into req. Caller holds the lock.
func (s *Store) applyPatchLocked(req *models.MaintenanceRequest, patch models.RequestPatch) error {
	now := s.now()

	var statusChange *models.RequestStatus
	if patch.Status != nil && *patch.Status != req.Status {
		if !taxonomy.ValidStatus(*patch.Status) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, *patch.Status)
		}
		if guard := taxonomy.CanTransition(req.Status, *patch.Status); !guard.Allowed {
			return fmt.Errorf("%w: %s", ErrInvalidTransition, guard.Reason)
		}
		statusChange = patch.Status
	}

	if patch.Title != nil {
		req.Title = *patch.Title
	}
	if patch.Description != nil {
		req.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !taxonomy.ValidPriority(*patch.Priority) {
			return fmt.Errorf("%w: %q", ErrUnknownPriority, *patch.Priority)
		}
		req.Priority = *patch.Priority
	}
	if patch.AssignedVendor != nil {
		req.AssignedVendor = *patch.AssignedVendor
	}
	if patch.EstimatedCost != nil {
		req.EstimatedCost = *patch.EstimatedCost
	}
	if patch.ActualCost != nil {
		v := *patch.ActualCost
		req.ActualCost = &v
	}
	if patch.ScheduledFor != nil {
		v := *patch.ScheduledFor
		req.ScheduledFor = &v
	}
	if patch.Analysis != nil {
		a := *patch.Analysis
		req.Analysis = &a
	}
	if patch.Rating != nil {
		v := *patch.Rating
		req.Rating = &v
	}
	if patch.Feedback != nil {
		req.Feedback = *patch.Feedback
	}
	if patch.TenantVisible != nil {
		req.TenantVisible = *patch.TenantVisible
	}
	if patch.OwnerVisible != nil {
		req.OwnerVisible = *patch.OwnerVisible
	}

	req.UpdatedAt = now

	if statusChange != nil {
		actor := patch.UpdatedBy
		if actor == "" {
			actor = "System"
		}
		prev := req.Status
		req.Status = *statusChange
		req.Timeline = append(req.Timeline, models.TimelineEntry{
			Timestamp:   now,
			Description: fmt.Sprintf("Status changed from %s to %s", prev, req.Status),
			Actor:       actor,
		})
		if req.Status == models.StatusCompleted {
			completed := now
			req.CompletedAt = &completed
		}
		if req.Status.IsTerminal() {
			s.cancelTriageLocked(req.ID)
		}
	}

	return nil
}

// AssignVendor binds a vendor to a request, moves it to assigned, and raises
// a chat-created event carrying the three-party context. The vendor must
// exist and service the request's category.
func (s *Store) AssignVendor(requestID, vendorID string) error {
	s.mu.Lock()
	vendor, ok := s.vendorLocked(vendorID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrVendorNotFound, vendorID)
	}
	req := s.findLocked(requestID)
	if req == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	if vendor.Category != req.Category {
		s.mu.Unlock()
		return fmt.Errorf("%w: vendor %s services %s, request needs %s",
			ErrCategoryMismatch, vendorID, vendor.Category, req.Category)
	}

	assigned := models.StatusAssigned
	patch := models.RequestPatch{
		AssignedVendor: &vendorID,
		UpdatedBy:      "Admin",
	}
	if req.Status != models.StatusAssigned {
		patch.Status = &assigned
	}
	if err := s.applyPatchLocked(req, patch); err != nil {
		s.mu.Unlock()
		return err
	}

	chat := &models.ChatContext{
		RequestID: req.ID,
		Tenant:    models.ChatParticipant{Name: req.Tenant.Name, Contact: req.Tenant.Phone, Role: "tenant"},
		Vendor:    models.ChatParticipant{Name: vendor.Name, Contact: vendor.Phone, Role: "vendor"},
		Admin:     models.ChatParticipant{Name: s.adminName, Contact: s.adminContact, Role: "admin"},
		CreatedAt: s.now(),
	}

	note := s.appendNotificationLocked(
		"Vendor assigned",
		fmt.Sprintf("%s assigned to %s", vendor.Name, req.Title),
		models.SeverityInfo,
	)

	listeners, snap := s.notifyPrepLocked()
	updated := req.Clone()
	s.mu.Unlock()

	s.dispatch(listeners, snap)
	s.bus.Publish(events.Event{Type: events.EventRequestUpdated, Request: updated})
	s.bus.Publish(events.Event{Type: events.EventChatCreated, Chat: chat})
	s.bus.Publish(events.Event{Type: events.EventNotification, Notification: &note})

	return nil
}

// Get returns a copy of the request with the given id.
func (s *Store) Get(id string) (*models.MaintenanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := s.findLocked(id)
	if req == nil {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	return req.Clone(), nil
}

// List returns copies of the requests matching the filter, insertion order
// (newest first) preserved. Filter fields are conjunctive; empty or "all"
// means no constraint.
func (s *Store) List(filter models.RequestFilter) []*models.MaintenanceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.MaintenanceRequest, 0, len(s.requests))
	for _, req := range s.requests {
		if !matches(req, filter) {
			continue
		}
		out = append(out, req.Clone())
	}
	return out
}

func matches(req *models.MaintenanceRequest, f models.RequestFilter) bool {
	if f.Status != "" && f.Status != "all" && string(req.Status) != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != "all" && string(req.Priority) != f.Priority {
		return false
	}
	if f.Category != "" && f.Category != "all" && string(req.Category) != f.Category {
		return false
	}
	if f.Property != "" && f.Property != "all" && req.Property != f.Property {
		return false
	}
	return true
}

// Vendors returns a copy of the vendor directory.
func (s *Store) Vendors() []models.Vendor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Vendor(nil), s.vendors...)
}

// Vendor returns the vendor with the given id.
func (s *Store) Vendor(id string) (models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vendorLocked(id)
	if !ok {
		return models.Vendor{}, fmt.Errorf("%w: %s", ErrVendorNotFound, id)
	}
	return v, nil
}

func (s *Store) vendorLocked(id string) (models.Vendor, bool) {
	for _, v := range s.vendors {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vendor{}, false
}

func (s *Store) findLocked(id string) *models.MaintenanceRequest {
	for _, req := range s.requests {
		if req.ID == id {
			return req
		}
	}
	return nil
}

// notifyPrepLocked copies the listener set and builds a snapshot while the
// caller still holds the lock. Listeners run after the lock is released so
// they can call back into the store.
func (s *Store) notifyPrepLocked() ([]Listener, Snapshot) {
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextListen; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	return listeners, s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Requests:      make([]*models.MaintenanceRequest, 0, len(s.requests)),
		Vendors:       append([]models.Vendor(nil), s.vendors...),
		Notifications: append([]models.Notification(nil), s.notifications...),
	}
	for _, req := range s.requests {
		snap.Requests = append(snap.Requests, req.Clone())
	}
	return snap
}

func (s *Store) dispatch(listeners []Listener, snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

// scheduleTriageLocked arranges for the diagnoser to run after the
// configured delay. The run is skipped when the store is closed or the
// request reaches a terminal status first; a diagnoser failure stores the
// fallback analysis instead of leaving the field empty.
func (s *Store) scheduleTriageLocked(id string) {
	ctx, cancel := context.WithCancel(context.Background())
	s.pending[id] = cancel

	go func() {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.mu.Lock()
		req := s.findLocked(id)
		if req == nil || req.Status.IsTerminal() {
			delete(s.pending, id)
			s.mu.Unlock()
			return
		}
		target := req.Clone()
		s.mu.Unlock()

		runCtx, cancelRun := context.WithTimeout(ctx, s.timeout)
		analysis, err := s.diagnoser.Diagnose(runCtx, target)
		cancelRun()
		if err != nil {
			log.WithError(err).WithField("request_id", id).Warn("Triage failed, storing fallback analysis")
			analysis = triage.FallbackAnalysis(target.Category, s.now())
		}

		s.applyAnalysis(id, analysis)
	}()
}

// applyAnalysis stores a triage result, discarding it if the request was
// cancelled or completed while the analysis was in flight.
func (s *Store) applyAnalysis(id string, analysis *models.Analysis) {
	s.mu.Lock()
	delete(s.pending, id)

	req := s.findLocked(id)
	if req == nil || req.Status.IsTerminal() {
		s.mu.Unlock()
		return
	}
	a := *analysis
	req.Analysis = &a
	req.UpdatedAt = s.now()

	listeners, snap := s.notifyPrepLocked()
	updated := req.Clone()
	s.mu.Unlock()

	s.dispatch(listeners, snap)
	s.bus.Publish(events.Event{Type: events.EventRequestUpdated, Request: updated})
}

func (s *Store) cancelTriageLocked(id string) {
	if cancel, ok := s.pending[id]; ok {
		cancel()
		delete(s.pending, id)
	}
}
