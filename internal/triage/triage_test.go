package triage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/property-maintenance/internal/models"
	"github.com/ukydev/property-maintenance/internal/taxonomy"
)

func newDiagnoser(vendors ...models.Vendor) *RuleDiagnoser {
	d := NewRuleDiagnoser(vendors)
	d.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return d
}

func diagnose(t *testing.T, d *RuleDiagnoser, category models.ServiceCategory, description string) *models.Analysis {
	t.Helper()
	analysis, err := d.Diagnose(context.Background(), &models.MaintenanceRequest{
		Category:    category,
		Description: description,
	})
	assert.NoError(t, err)
	assert.NotNil(t, analysis)
	return analysis
}

func TestDiagnose_Default(t *testing.T) {
	analysis := diagnose(t, newDiagnoser(), models.CategoryGeneral, "door handle is loose")

	assert.Equal(t, "General maintenance required", analysis.LikelyIssue)
	assert.Equal(t, "100-200", analysis.EstimatedCost)
	assert.Equal(t, 50, analysis.Urgency)
	assert.Empty(t, analysis.SuggestedVendor)
}

func TestDiagnose_PlumbingLeak(t *testing.T) {
	analysis := diagnose(t, newDiagnoser(), models.CategoryPlumbing, "The bathroom faucet has a slow leak")

	assert.Equal(t, "Pipe leak or connection issue", analysis.LikelyIssue)
	assert.Equal(t, "75-250", analysis.EstimatedCost)
	assert.Equal(t, 60, analysis.Urgency)
}

func TestDiagnose_PlumbingMajorLeak(t *testing.T) {
	analysis := diagnose(t, newDiagnoser(), models.CategoryPlumbing,
		"kitchen sink is leaking, it's a major problem")

	assert.Equal(t, "Pipe leak or connection issue", analysis.LikelyIssue)
	assert.Equal(t, 90, analysis.Urgency)
}

func TestDiagnose_PlumbingWithoutKeyword(t *testing.T) {
	analysis := diagnose(t, newDiagnoser(), models.CategoryPlumbing, "garbage disposal is jammed")

	assert.Equal(t, "General maintenance required", analysis.LikelyIssue)
	assert.Equal(t, 50, analysis.Urgency)
}

func TestDiagnose_Electrical(t *testing.T) {
	for _, desc := range []string{
		"the OUTLET near the window sparks",
		"no power in the bedroom",
	} {
		analysis := diagnose(t, newDiagnoser(), models.CategoryElectrical, desc)
		assert.Equal(t, "Electrical outlet or wiring issue", analysis.LikelyIssue, "description %q", desc)
		assert.Equal(t, "100-300", analysis.EstimatedCost)
		assert.Equal(t, 65, analysis.Urgency)
	}
}

func TestDiagnose_HVACCooling(t *testing.T) {
	analysis := diagnose(t, newDiagnoser(), models.CategoryHVAC, "AC not cooling, feels warm")

	assert.Equal(t, "Refrigerant or compressor issue", analysis.LikelyIssue)
	assert.Equal(t, "200-600", analysis.EstimatedCost)
	assert.Equal(t, 75, analysis.Urgency)
}

func TestDiagnose_KeywordsDoNotCrossCategories(t *testing.T) {
	// "leak" only triggers the plumbing rule
	analysis := diagnose(t, newDiagnoser(), models.CategoryHVAC, "refrigerant leak suspected")
	assert.Equal(t, "General maintenance required", analysis.LikelyIssue)
}

func TestDiagnose_SuggestsHighestRatedVendor(t *testing.T) {
	d := newDiagnoser(
		models.Vendor{ID: "vendor-a", Category: models.CategoryElectrical, Rating: 4.7},
		models.Vendor{ID: "vendor-b", Category: models.CategoryElectrical, Rating: 4.9},
		models.Vendor{ID: "vendor-c", Category: models.CategoryPlumbing, Rating: 5.0},
	)

	analysis := diagnose(t, d, models.CategoryElectrical, "outlet issue")
	assert.Equal(t, "vendor-b", analysis.SuggestedVendor)
}

func TestDiagnose_NoVendorForCategory(t *testing.T) {
	d := newDiagnoser(
		models.Vendor{ID: "vendor-c", Category: models.CategoryPlumbing, Rating: 5.0},
	)

	analysis := diagnose(t, d, models.CategoryHVAC, "not cooling")
	assert.Empty(t, analysis.SuggestedVendor)
}

func TestDiagnose_StepsMatchCategory(t *testing.T) {
	analysis := diagnose(t, newDiagnoser(), models.CategoryAppliance, "dishwasher will not start")
	assert.Equal(t, taxonomy.TroubleshootingSteps(models.CategoryAppliance), analysis.Steps)
	assert.Len(t, analysis.Steps, 3)
}

func TestFallbackAnalysis(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fb := FallbackAnalysis(models.CategoryHVAC, now)

	assert.Equal(t, "General maintenance required", fb.LikelyIssue)
	assert.Equal(t, "100-200", fb.EstimatedCost)
	assert.Equal(t, 50, fb.Urgency)
	assert.Equal(t, taxonomy.TroubleshootingSteps(models.CategoryHVAC), fb.Steps)
	assert.Equal(t, now, fb.AnalyzedAt)
}
