package store

import (
	"time"

	"github.com/ukydev/property-maintenance/internal/models"
	"github.com/ukydev/property-maintenance/internal/taxonomy"
)

// Analytics is the read-only aggregate view over the request collection.
// Breakdowns carry the full taxonomy; entries with no matching requests keep
// Count 0. Category and priority counts cover the trailing 30 days; the
// status breakdown covers the full set.
type Analytics struct {
	TotalRequests     int                    `json:"total_requests"`
	RecentRequests    int                    `json:"recent_requests"` // created in the trailing 30 days
	CompletedRequests int                    `json:"completed_requests"`
	AvgResolutionDays float64                `json:"avg_resolution_days"`
	ByCategory        []models.CategoryEntry `json:"by_category"`
	ByPriority        []models.PriorityEntry `json:"by_priority"`
	ByStatus          []models.StatusEntry   `json:"by_status"`
}

// Analytics computes the aggregate view without mutating state.
func (s *Store) Analytics() Analytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-30 * 24 * time.Hour)

	out := Analytics{
		TotalRequests: len(s.requests),
		ByCategory:    append([]models.CategoryEntry(nil), taxonomy.Categories...),
		ByPriority:    append([]models.PriorityEntry(nil), taxonomy.Priorities...),
		ByStatus:      append([]models.StatusEntry(nil), taxonomy.Statuses...),
	}

	var resolutionSum float64
	var resolved int

	for _, req := range s.requests {
		recent := !req.CreatedAt.Before(cutoff)
		if recent {
			out.RecentRequests++
			for i := range out.ByCategory {
				if out.ByCategory[i].ID == req.Category {
					out.ByCategory[i].Count++
				}
			}
			for i := range out.ByPriority {
				if out.ByPriority[i].ID == req.Priority {
					out.ByPriority[i].Count++
				}
			}
		}
		for i := range out.ByStatus {
			if out.ByStatus[i].ID == req.Status {
				out.ByStatus[i].Count++
			}
		}
		if req.Status == models.StatusCompleted {
			out.CompletedRequests++
			if req.CompletedAt != nil {
				resolutionSum += req.CompletedAt.Sub(req.CreatedAt).Hours() / 24
				resolved++
			}
		}
	}

	if resolved > 0 {
		out.AvgResolutionDays = resolutionSum / float64(resolved)
	}

	return out
}
