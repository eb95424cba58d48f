package models

// CategoryEntry is a reference-table row for a service category.
type CategoryEntry struct {
	ID    ServiceCategory `json:"id" bson:"_id"`
	Name  string          `json:"name" bson:"name"`
	Icon  string          `json:"icon" bson:"icon"`
	Color string          `json:"color" bson:"color"`
	Count int             `json:"count" bson:"count"` // populated by analytics queries
}

// PriorityEntry is a reference-table row for a priority level. Score is the
// numeric urgency weight used for sorting.
type PriorityEntry struct {
	ID    RequestPriority `json:"id" bson:"_id"`
	Name  string          `json:"name" bson:"name"`
	Icon  string          `json:"icon" bson:"icon"`
	Color string          `json:"color" bson:"color"`
	Score int             `json:"score" bson:"score"`
	Count int             `json:"count" bson:"count"`
}

// StatusEntry is a reference-table row for a request status.
type StatusEntry struct {
	ID    RequestStatus `json:"id" bson:"_id"`
	Name  string        `json:"name" bson:"name"`
	Color string        `json:"color" bson:"color"`
	Count int           `json:"count" bson:"count"`
}
