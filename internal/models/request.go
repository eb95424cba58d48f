package models

import (
	"time"
)

// RequestStatus is the lifecycle state of a maintenance request.
type RequestStatus string

const (
	StatusSubmitted    RequestStatus = "submitted"
	StatusAssigned     RequestStatus = "assigned"
	StatusInProgress   RequestStatus = "in_progress"
	StatusPendingParts RequestStatus = "pending_parts"
	StatusCompleted    RequestStatus = "completed"
	StatusCancelled    RequestStatus = "cancelled"
)

// IsTerminal reports whether no further status transitions are possible.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ServiceCategory classifies the kind of work a request needs.
type ServiceCategory string

const (
	CategoryPlumbing   ServiceCategory = "plumbing"
	CategoryElectrical ServiceCategory = "electrical"
	CategoryHVAC       ServiceCategory = "hvac"
	CategoryAppliance  ServiceCategory = "appliance"
	CategoryGeneral    ServiceCategory = "general"
)

// RequestPriority ranks how urgently a request should be handled.
type RequestPriority string

const (
	PriorityLow      RequestPriority = "low"
	PriorityMedium   RequestPriority = "medium"
	PriorityHigh     RequestPriority = "high"
	PriorityCritical RequestPriority = "critical"
)

// TenantContact identifies the tenant that reported a request.
type TenantContact struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email" bson:"email"`
}

// TimelineEntry is one discrete event in a request's history.
type TimelineEntry struct {
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	Description string    `json:"description" bson:"description"`
	Actor       string    `json:"actor" bson:"actor"` // "Tenant", "Admin", "System", vendor name
}

// Analysis is the triage result embedded in a request. It is produced once
// per request (and can be regenerated); it has no independent lifecycle.
type Analysis struct {
	LikelyIssue     string    `json:"likely_issue" bson:"likely_issue"`
	EstimatedCost   string    `json:"estimated_cost" bson:"estimated_cost"` // dollar range, e.g. "75-250"
	Urgency         int       `json:"urgency" bson:"urgency"`               // 0-100
	SuggestedVendor string    `json:"suggested_vendor,omitempty" bson:"suggested_vendor,omitempty"`
	Steps           []string  `json:"steps" bson:"steps"`
	AnalyzedAt      time.Time `json:"analyzed_at" bson:"analyzed_at"`
}

// MaintenanceRequest is a tenant-reported maintenance issue for a unit.
// Records are never hard-deleted; cancellation is a terminal status.
type MaintenanceRequest struct {
	ID             string          `json:"id" bson:"_id"`
	Property       string          `json:"property" bson:"property"`
	Unit           string          `json:"unit" bson:"unit"`
	Tenant         TenantContact   `json:"tenant" bson:"tenant"`
	Title          string          `json:"title" bson:"title"`
	Description    string          `json:"description" bson:"description"`
	Category       ServiceCategory `json:"category" bson:"category"`
	Priority       RequestPriority `json:"priority" bson:"priority"`
	Status         RequestStatus   `json:"status" bson:"status"`
	AssignedVendor string          `json:"assigned_vendor,omitempty" bson:"assigned_vendor,omitempty"`
	EstimatedCost  float64         `json:"estimated_cost" bson:"estimated_cost"`
	ActualCost     *float64        `json:"actual_cost,omitempty" bson:"actual_cost,omitempty"`
	Photos         []string        `json:"photos,omitempty" bson:"photos,omitempty"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	ScheduledFor   *time.Time      `json:"scheduled_for,omitempty" bson:"scheduled_for,omitempty"`
	Analysis       *Analysis       `json:"analysis,omitempty" bson:"analysis,omitempty"`
	Timeline       []TimelineEntry `json:"timeline" bson:"timeline"`
	Rating         *int            `json:"rating,omitempty" bson:"rating,omitempty"` // 1-5, set after completion
	Feedback       string          `json:"feedback,omitempty" bson:"feedback,omitempty"`
	TenantVisible  bool            `json:"tenant_visible" bson:"tenant_visible"`
	OwnerVisible   bool            `json:"owner_visible" bson:"owner_visible"`
}

// Clone returns an independent copy of the request, including its timeline
// and optional fields, so store snapshots cannot be written through.
func (r *MaintenanceRequest) Clone() *MaintenanceRequest {
	c := *r
	c.Timeline = append([]TimelineEntry(nil), r.Timeline...)
	c.Photos = append([]string(nil), r.Photos...)
	if r.ActualCost != nil {
		v := *r.ActualCost
		c.ActualCost = &v
	}
	if r.CompletedAt != nil {
		v := *r.CompletedAt
		c.CompletedAt = &v
	}
	if r.ScheduledFor != nil {
		v := *r.ScheduledFor
		c.ScheduledFor = &v
	}
	if r.Rating != nil {
		v := *r.Rating
		c.Rating = &v
	}
	if r.Analysis != nil {
		a := *r.Analysis
		a.Steps = append([]string(nil), r.Analysis.Steps...)
		c.Analysis = &a
	}
	return &c
}

// RequestDraft is the payload accepted when a new request is submitted.
type RequestDraft struct {
	Property      string          `json:"property"`
	Unit          string          `json:"unit"`
	Tenant        TenantContact   `json:"tenant"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      ServiceCategory `json:"category"`
	Priority      RequestPriority `json:"priority"`
	EstimatedCost float64         `json:"estimated_cost"`
	Photos        []string        `json:"photos,omitempty"`
	ScheduledFor  *time.Time      `json:"scheduled_for,omitempty"`
	SubmittedBy   string          `json:"submitted_by,omitempty"` // defaults to "Tenant"
	TenantVisible *bool           `json:"tenant_visible,omitempty"`
	OwnerVisible  *bool           `json:"owner_visible,omitempty"`
}

// RequestPatch is a partial update to an existing request. Nil fields are
// left unchanged.
type RequestPatch struct {
	Title          *string          `json:"title,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Priority       *RequestPriority `json:"priority,omitempty"`
	Status         *RequestStatus   `json:"status,omitempty"`
	AssignedVendor *string          `json:"assigned_vendor,omitempty"`
	EstimatedCost  *float64         `json:"estimated_cost,omitempty"`
	ActualCost     *float64         `json:"actual_cost,omitempty"`
	ScheduledFor   *time.Time       `json:"scheduled_for,omitempty"`
	Analysis       *Analysis        `json:"analysis,omitempty"`
	Rating         *int             `json:"rating,omitempty"`
	Feedback       *string          `json:"feedback,omitempty"`
	TenantVisible  *bool            `json:"tenant_visible,omitempty"`
	OwnerVisible   *bool            `json:"owner_visible,omitempty"`
	UpdatedBy      string           `json:"updated_by,omitempty"` // actor recorded on status changes, defaults to "System"
}

// RequestFilter narrows List results. Zero-value or "all" fields match
// everything; set fields are combined with AND.
type RequestFilter struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
	Property string `json:"property,omitempty"`
}
