// Package taxonomy holds the fixed reference data the maintenance store
// validates and reports against: service categories, priority levels, the
// request status lattice and the seeded vendor directory. All of it is
// immutable for the life of the process.
package taxonomy

import (
	"fmt"

	"github.com/ukydev/property-maintenance/internal/models"
)

// Categories is the closed list of service categories.
var Categories = []models.CategoryEntry{
	{ID: models.CategoryPlumbing, Name: "Plumbing", Icon: "droplet", Color: "#2563eb"},
	{ID: models.CategoryElectrical, Name: "Electrical", Icon: "zap", Color: "#f59e0b"},
	{ID: models.CategoryHVAC, Name: "HVAC", Icon: "thermometer", Color: "#0891b2"},
	{ID: models.CategoryAppliance, Name: "Appliance", Icon: "refrigerator", Color: "#7c3aed"},
	{ID: models.CategoryGeneral, Name: "General", Icon: "wrench", Color: "#6b7280"},
}

// Priorities is the closed list of priority levels. Score is the urgency
// weight used for ranking.
var Priorities = []models.PriorityEntry{
	{ID: models.PriorityLow, Name: "Low", Icon: "arrow-down", Color: "#10b981", Score: 1},
	{ID: models.PriorityMedium, Name: "Medium", Icon: "minus", Color: "#f59e0b", Score: 2},
	{ID: models.PriorityHigh, Name: "High", Icon: "arrow-up", Color: "#ef4444", Score: 3},
	{ID: models.PriorityCritical, Name: "Critical", Icon: "alert-triangle", Color: "#b91c1c", Score: 4},
}

// Statuses is the closed list of request statuses.
var Statuses = []models.StatusEntry{
	{ID: models.StatusSubmitted, Name: "Submitted", Color: "#6b7280"},
	{ID: models.StatusAssigned, Name: "Assigned", Color: "#2563eb"},
	{ID: models.StatusInProgress, Name: "In Progress", Color: "#f59e0b"},
	{ID: models.StatusPendingParts, Name: "Pending Parts", Color: "#7c3aed"},
	{ID: models.StatusCompleted, Name: "Completed", Color: "#10b981"},
	{ID: models.StatusCancelled, Name: "Cancelled", Color: "#ef4444"},
}

// transitions is the forward status lattice. Cancellation is reachable from
// every non-terminal state; terminal states have no successors.
var transitions = map[models.RequestStatus][]models.RequestStatus{
	models.StatusSubmitted:    {models.StatusAssigned, models.StatusCancelled},
	models.StatusAssigned:     {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress:   {models.StatusPendingParts, models.StatusCompleted, models.StatusCancelled},
	models.StatusPendingParts: {models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:    {},
	models.StatusCancelled:    {},
}

// GuardResult represents the outcome of a transition guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanTransition evaluates whether a request may move from one status to
// another along the lattice.
func CanTransition(from, to models.RequestStatus) GuardResult {
	next, ok := transitions[from]
	if !ok {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown status %q", from)}
	}
	for _, s := range next {
		if s == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{Allowed: false, Reason: fmt.Sprintf("cannot move request from %s to %s", from, to)}
}

// ValidCategory reports whether c is a known service category.
func ValidCategory(c models.ServiceCategory) bool {
	for _, e := range Categories {
		if e.ID == c {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p models.RequestPriority) bool {
	for _, e := range Priorities {
		if e.ID == p {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known request status.
func ValidStatus(s models.RequestStatus) bool {
	_, ok := transitions[s]
	return ok
}

// PriorityScore returns the urgency weight for a priority, 0 if unknown.
func PriorityScore(p models.RequestPriority) int {
	for _, e := range Priorities {
		if e.ID == p {
			return e.Score
		}
	}
	return 0
}

// TroubleshootingSteps returns the ordered self-help steps for a category.
// Categories without a specific list fall back to the generic steps.
func TroubleshootingSteps(c models.ServiceCategory) []string {
	steps, ok := troubleshooting[c]
	if !ok {
		steps = troubleshooting[models.CategoryGeneral]
	}
	return append([]string(nil), steps...)
}

var troubleshooting = map[models.ServiceCategory][]string{
	models.CategoryPlumbing: {
		"Shut off the water supply valve nearest the fixture",
		"Place a bucket or towels under the leak",
		"Avoid using the affected fixture until serviced",
	},
	models.CategoryElectrical: {
		"Check the breaker panel for a tripped circuit",
		"Unplug appliances on the affected circuit",
		"Do not touch exposed wiring or scorched outlets",
	},
	models.CategoryHVAC: {
		"Check the thermostat mode and setpoint",
		"Replace or clean the air filter",
		"Verify vents are open and unobstructed",
	},
	models.CategoryAppliance: {
		"Confirm the appliance is plugged in and powered",
		"Check for error codes on the display",
		"Power-cycle the appliance once",
	},
	models.CategoryGeneral: {
		"Document the issue with photos",
		"Keep the area clear and accessible",
		"Note when the issue first appeared",
	},
}

// SeedVendors is the initial vendor directory.
var SeedVendors = []models.Vendor{
	{
		ID: "vendor-001", Name: "Rapid Rooter Plumbing", Category: models.CategoryPlumbing,
		Rating: 4.8, ResponseHours: 2.5, CompletionRate: 98, AvgJobCost: 185,
		Phone: "555-0141", Email: "dispatch@rapidrooter.example.com",
		Availability: models.VendorAvailable, Specialties: []string{"leak repair", "drain cleaning", "water heaters"},
		Insured: true, Licensed: true, Preferred: true,
	},
	{
		ID: "vendor-002", Name: "Bayline Plumbing Co", Category: models.CategoryPlumbing,
		Rating: 4.5, ResponseHours: 5, CompletionRate: 94, AvgJobCost: 160,
		Phone: "555-0142", Email: "office@baylineplumbing.example.com",
		Availability: models.VendorBusy, Specialties: []string{"repiping", "fixture installs"},
		Insured: true, Licensed: true,
	},
	{
		ID: "vendor-003", Name: "Volt Electric Services", Category: models.CategoryElectrical,
		Rating: 4.9, ResponseHours: 3, CompletionRate: 99, AvgJobCost: 210,
		Phone: "555-0143", Email: "service@voltelectric.example.com",
		Availability: models.VendorAvailable, Specialties: []string{"panel upgrades", "outlet repair"},
		Insured: true, Licensed: true, Preferred: true,
	},
	{
		ID: "vendor-004", Name: "Current Solutions Electric", Category: models.CategoryElectrical,
		Rating: 4.7, ResponseHours: 4.5, CompletionRate: 96, AvgJobCost: 190,
		Phone: "555-0144", Email: "info@currentsolutions.example.com",
		Availability: models.VendorAvailable, Specialties: []string{"lighting", "wiring"},
		Insured: true, Licensed: true,
	},
	{
		ID: "vendor-005", Name: "Summit Heating & Air", Category: models.CategoryHVAC,
		Rating: 4.6, ResponseHours: 4, CompletionRate: 95, AvgJobCost: 320,
		Phone: "555-0145", Email: "schedule@summithvac.example.com",
		Availability: models.VendorAvailable, Specialties: []string{"compressor repair", "refrigerant", "ductwork"},
		Insured: true, Licensed: true, Preferred: true,
	},
	{
		ID: "vendor-006", Name: "Homestead Appliance Repair", Category: models.CategoryAppliance,
		Rating: 4.4, ResponseHours: 6, CompletionRate: 92, AvgJobCost: 140,
		Phone: "555-0146", Email: "repairs@homesteadappliance.example.com",
		Availability: models.VendorAvailable, Specialties: []string{"refrigerators", "washers", "ovens"},
		Insured: true, Licensed: false,
	},
	{
		ID: "vendor-007", Name: "AllTrades Property Services", Category: models.CategoryGeneral,
		Rating: 4.3, ResponseHours: 8, CompletionRate: 90, AvgJobCost: 120,
		Phone: "555-0147", Email: "work@alltrades.example.com",
		Availability: models.VendorAvailable, Specialties: []string{"handyman", "carpentry", "painting"},
		Insured: true, Licensed: true,
	},
}
