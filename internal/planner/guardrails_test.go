// internal/planner/guardrails_test.go
package planner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/models"
)

func newTestValidator() *GuardrailValidator {
	cfg := config.Default().Planner
	return NewGuardrailValidator(cfg.Margins, cfg.Guardrails)
}

func healthyOption(tier models.Tier) models.RouteOption {
	option := models.RouteOption{
		Tier:     tier,
		Template: models.TemplateFullWG,
		Legs: []models.Leg{
			{Order: 1, Type: models.LegWhiteGlove, Processing: []models.ProcessingStep{models.ProcessingAuthentication}},
			{Order: 2, Type: models.LegInternalRollout, Processing: []models.ProcessingStep{models.ProcessingSewing}},
			{Order: 3, Type: models.LegWhiteGlove},
		},
		Cost: models.CostBreakdown{MarginPercentage: 28.5},
		Schedule: models.Schedule{
			EstimatedDelivery: time.Date(2026, 9, 16, 15, 0, 0, 0, time.UTC), // a Wednesday
			SLATargetDate:     time.Date(2026, 9, 22, 0, 0, 0, 0, time.UTC),
			MeetsSLA:          true,
			SLABufferDays:     5.4,
		},
		Feasible: true,
	}
	return option
}

func TestGuardrails_CleanRoute(t *testing.T) {
	v := newTestValidator()
	shipment := testShipment(models.Tier3, "London", "Nice")
	shipment.Sender.Country = "FR"
	shipment.Buyer.Country = "FR"
	option := healthyOption(models.Tier3)

	findings := v.Validate(&option, shipment, selectionOf(t, "HUB-PAR-01", "HUB-MIL-01"))
	assert.Empty(t, findings)
	assert.False(t, IsBlocked(findings))
}

func TestGuardrails_MarginBelowMinimumBlocks(t *testing.T) {
	v := newTestValidator()
	shipment := testShipment(models.Tier3, "London", "Nice")
	option := healthyOption(models.Tier3)
	option.Cost.MarginPercentage = 18

	findings := v.Validate(&option, shipment, selectionOf(t, "HUB-PAR-01", "HUB-MIL-01"))
	require.NotEmpty(t, findings)

	var margin *models.Guardrail
	for i := range findings {
		if findings[i].Code == GuardrailMarginBelowMinimum {
			margin = &findings[i]
		}
	}
	require.NotNil(t, margin)
	assert.True(t, margin.Blocking)
	assert.NotEmpty(t, margin.Actionable)
	assert.True(t, IsBlocked(findings))
}

func TestGuardrails_TierMinimumsDiffer(t *testing.T) {
	v := newTestValidator()
	option := healthyOption(models.Tier2)
	option.Cost.MarginPercentage = 22 // above the tier-2 minimum, below tier-3

	tier2 := testShipment(models.Tier2, "London", "Paris")
	tier2.Sender.Country = "GB"
	tier2.Buyer.Country = "GB"
	findings := v.Validate(&option, tier2, selectionOf(t, "HUB-PAR-01", ""))
	assert.False(t, IsBlocked(findings))

	option3 := healthyOption(models.Tier3)
	option3.Cost.MarginPercentage = 22
	tier3 := testShipment(models.Tier3, "London", "Paris")
	findings = v.Validate(&option3, tier3, selectionOf(t, "HUB-PAR-01", "HUB-MIL-01"))
	assert.True(t, IsBlocked(findings))
}

func TestGuardrails_CapacityCritical(t *testing.T) {
	v := newTestValidator()
	shipment := testShipment(models.Tier3, "London", "Nice")
	option := healthyOption(models.Tier3)

	sel := selectionOf(t, "HUB-PAR-01", "HUB-MIL-01")
	sel.Hub.Capacity = models.HubCapacity{AuthAvailable: 1, AuthTotal: 24}

	findings := v.Validate(&option, shipment, sel)
	var found bool
	for _, g := range findings {
		if g.Code == GuardrailCapacityCritical {
			found = true
			assert.False(t, g.Blocking, "capacity warnings never block")
		}
	}
	assert.True(t, found)
}

func TestGuardrails_SLABufferLow(t *testing.T) {
	v := newTestValidator()
	shipment := testShipment(models.Tier3, "London", "Nice")
	option := healthyOption(models.Tier3)
	option.Schedule.SLABufferDays = 1.2

	findings := v.Validate(&option, shipment, selectionOf(t, "HUB-PAR-01", "HUB-MIL-01"))
	var found bool
	for _, g := range findings {
		if g.Code == GuardrailSLABufferLow {
			found = true
			assert.False(t, g.Blocking)
			assert.NotEmpty(t, g.Actionable)
		}
	}
	assert.True(t, found)
}

func TestGuardrails_ProcessingCoverageGap(t *testing.T) {
	v := newTestValidator()
	shipment := testShipment(models.Tier3, "London", "Nice")
	option := healthyOption(models.Tier3)
	for i := range option.Legs {
		option.Legs[i].Processing = nil
	}

	findings := v.Validate(&option, shipment, selectionOf(t, "HUB-PAR-01", "HUB-MIL-01"))
	var gaps int
	for _, g := range findings {
		if g.Code == GuardrailProcessingGap {
			gaps++
			assert.False(t, g.Blocking, "coverage gaps are surfaced, not blocking")
		}
	}
	assert.Equal(t, 2, gaps, "both authentication and sewing gaps are reported")
}

func TestGuardrails_Informational(t *testing.T) {
	v := newTestValidator()

	shipment := testShipment(models.Tier3, "London", "Nice")
	shipment.DeclaredValue = decimal.NewFromInt(5000)
	option := healthyOption(models.Tier3)
	option.Schedule.EstimatedDelivery = time.Date(2026, 9, 19, 11, 0, 0, 0, time.UTC) // Saturday

	findings := v.Validate(&option, shipment, selectionOf(t, "HUB-PAR-01", "HUB-MIL-01"))
	codes := make(map[string]bool)
	for _, g := range findings {
		codes[g.Code] = true
		assert.False(t, g.Blocking)
	}
	assert.True(t, codes[GuardrailWeekendDelivery])
	assert.True(t, codes[GuardrailCustomsRequired], "GB to FR above the customs threshold")
}
