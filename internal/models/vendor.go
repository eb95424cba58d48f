package models

// VendorAvailability is the vendor's current dispatch state.
type VendorAvailability string

const (
	VendorAvailable   VendorAvailability = "available"
	VendorBusy        VendorAvailability = "busy"
	VendorUnavailable VendorAvailability = "unavailable"
)

// Vendor is a service provider in the directory. Vendor records are seeded
// reference data; a request's AssignedVendor is a weak reference by ID.
type Vendor struct {
	ID              string             `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Category        ServiceCategory    `json:"category" bson:"category"`
	Rating          float64            `json:"rating" bson:"rating"`                         // 0-5
	ResponseHours   float64            `json:"response_hours" bson:"response_hours"`         // historical average
	CompletionRate  float64            `json:"completion_rate" bson:"completion_rate"`       // percentage
	AvgJobCost      float64            `json:"avg_job_cost" bson:"avg_job_cost"`             // in USD
	Phone           string             `json:"phone" bson:"phone"`
	Email           string             `json:"email" bson:"email"`
	Availability    VendorAvailability `json:"availability" bson:"availability"`
	Specialties     []string           `json:"specialties,omitempty" bson:"specialties,omitempty"`
	Insured         bool               `json:"insured" bson:"insured"`
	Licensed        bool               `json:"licensed" bson:"licensed"`
	Preferred       bool               `json:"preferred" bson:"preferred"`
}
