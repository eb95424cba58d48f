// Package triage produces a best-effort diagnosis for a maintenance request
// before a technician looks at it. The rule engine here is deterministic; a
// real inference client can be swapped in behind the same interface.
package triage

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ukydev/property-maintenance/internal/models"
	"github.com/ukydev/property-maintenance/internal/taxonomy"
)

// Diagnoser derives an analysis from a request.
type Diagnoser interface {
	Diagnose(ctx context.Context, req *models.MaintenanceRequest) (*models.Analysis, error)
}

// FallbackAnalysis is stored when a diagnoser fails or times out, so a
// request is never left without an analysis.
func FallbackAnalysis(category models.ServiceCategory, now time.Time) *models.Analysis {
	return &models.Analysis{
		LikelyIssue:   "General maintenance required",
		EstimatedCost: "100-200",
		Urgency:       50,
		Steps:         taxonomy.TroubleshootingSteps(category),
		AnalyzedAt:    now,
	}
}

// RuleDiagnoser implements Diagnoser with keyword rules over the request's
// category and lowercased description.
type RuleDiagnoser struct {
	vendors []models.Vendor
	now     func() time.Time
}

// NewRuleDiagnoser creates a rule-based diagnoser that suggests vendors from
// the given directory.
func NewRuleDiagnoser(vendors []models.Vendor) *RuleDiagnoser {
	return &RuleDiagnoser{vendors: vendors, now: time.Now}
}

// Diagnose applies the keyword rules. It never fails; the error return
// exists for alternative Diagnoser implementations.
func (d *RuleDiagnoser) Diagnose(_ context.Context, req *models.MaintenanceRequest) (*models.Analysis, error) {
	desc := strings.ToLower(req.Description)

	analysis := &models.Analysis{
		LikelyIssue:   "General maintenance required",
		EstimatedCost: "100-200",
		Urgency:       50,
	}

	switch req.Category {
	case models.CategoryPlumbing:
		if strings.Contains(desc, "leak") {
			analysis.LikelyIssue = "Pipe leak or connection issue"
			analysis.EstimatedCost = "75-250"
			if strings.Contains(desc, "major") {
				analysis.Urgency = 90
			} else {
				analysis.Urgency = 60
			}
		}
	case models.CategoryElectrical:
		if strings.Contains(desc, "outlet") || strings.Contains(desc, "power") {
			analysis.LikelyIssue = "Electrical outlet or wiring issue"
			analysis.EstimatedCost = "100-300"
			analysis.Urgency = 65
		}
	case models.CategoryHVAC:
		if strings.Contains(desc, "cooling") || strings.Contains(desc, "cold") {
			analysis.LikelyIssue = "Refrigerant or compressor issue"
			analysis.EstimatedCost = "200-600"
			analysis.Urgency = 75
		}
	}

	if v := d.suggestVendor(req.Category); v != nil {
		analysis.SuggestedVendor = v.ID
	}
	analysis.Steps = taxonomy.TroubleshootingSteps(req.Category)
	analysis.AnalyzedAt = d.now()

	return analysis, nil
}

// suggestVendor picks the highest-rated vendor servicing the category, nil
// when none match.
func (d *RuleDiagnoser) suggestVendor(category models.ServiceCategory) *models.Vendor {
	matches := make([]models.Vendor, 0, len(d.vendors))
	for _, v := range d.vendors {
		if v.Category == category {
			matches = append(matches, v)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Rating > matches[j].Rating
	})
	return &matches[0]
}
