// internal/planner/guardrails.go
package planner

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/models"
)

// Guardrail finding codes.
const (
	GuardrailMarginBelowMinimum = "MARGIN_BELOW_MINIMUM"
	GuardrailCapacityCritical   = "HUB_CAPACITY_CRITICAL"
	GuardrailSLABufferLow       = "SLA_BUFFER_LOW"
	GuardrailProcessingGap      = "PROCESSING_COVERAGE_GAP"
	GuardrailWeekendDelivery    = "WEEKEND_DELIVERY"
	GuardrailCustomsRequired    = "INTERNATIONAL_CUSTOMS"
)

// GuardrailValidator emits structured business-rule findings over an
// evaluated route. Findings annotate, they never throw; only a blocking
// finding marks the route as requiring an explicit override.
type GuardrailValidator struct {
	margins config.MarginConfig
	cfg     config.GuardrailsConfig
}

func NewGuardrailValidator(margins config.MarginConfig, cfg config.GuardrailsConfig) *GuardrailValidator {
	return &GuardrailValidator{margins: margins, cfg: cfg}
}

// Validate returns the findings for one route option.
func (v *GuardrailValidator) Validate(option *models.RouteOption, shipment *models.Shipment, sel Selection) []models.Guardrail {
	var findings []models.Guardrail

	if g := v.checkMargin(option, shipment); g != nil {
		findings = append(findings, *g)
	}
	if g := v.checkCapacity(sel); g != nil {
		findings = append(findings, *g)
	}
	if g := v.checkSLABuffer(option); g != nil {
		findings = append(findings, *g)
	}
	if shipment.Tier == models.Tier3 {
		findings = append(findings, v.checkProcessingCoverage(option)...)
	}
	findings = append(findings, v.informational(option, shipment)...)

	return findings
}

func (v *GuardrailValidator) checkMargin(option *models.RouteOption, shipment *models.Shipment) *models.Guardrail {
	min := v.margins.Tier2MinPct
	if shipment.Tier == models.Tier3 {
		min = v.margins.Tier3MinPct
	}
	if option.Cost.MarginPercentage >= min {
		return nil
	}
	return &models.Guardrail{
		Code:       GuardrailMarginBelowMinimum,
		Message:    fmt.Sprintf("margin %.1f%% is below the tier minimum of %.0f%%", option.Cost.MarginPercentage, min),
		Blocking:   true,
		Actionable: "requires pricing override approval",
	}
}

func (v *GuardrailValidator) checkCapacity(sel Selection) *models.Guardrail {
	ratio := sel.Hub.Capacity.AuthRatio() * 100
	if ratio >= v.cfg.CapacityCriticalPct {
		return nil
	}
	return &models.Guardrail{
		Code:    GuardrailCapacityCritical,
		Message: fmt.Sprintf("hub %s authentication capacity at %.0f%%", sel.Hub.ID, ratio),
	}
}

func (v *GuardrailValidator) checkSLABuffer(option *models.RouteOption) *models.Guardrail {
	if option.Schedule.SLATargetDate.IsZero() || !option.Schedule.MeetsSLA {
		return nil
	}
	if option.Schedule.SLABufferDays >= v.cfg.SLABufferMinDays {
		return nil
	}
	return &models.Guardrail{
		Code:       GuardrailSLABufferLow,
		Message:    fmt.Sprintf("only %.1f days of SLA buffer remain", option.Schedule.SLABufferDays),
		Actionable: "consider an express service level or an earlier pickup window",
	}
}

// checkProcessingCoverage verifies a tier-3 route actually performs
// authentication and sewing somewhere along its legs.
func (v *GuardrailValidator) checkProcessingCoverage(option *models.RouteOption) []models.Guardrail {
	var hasAuth, hasSewing bool
	for _, leg := range option.Legs {
		if leg.HasProcessing(models.ProcessingAuthentication) {
			hasAuth = true
		}
		if leg.HasProcessing(models.ProcessingSewing) {
			hasSewing = true
		}
	}

	var findings []models.Guardrail
	if !hasAuth {
		findings = append(findings, models.Guardrail{
			Code:    GuardrailProcessingGap,
			Message: "no leg carries authentication processing",
		})
	}
	if !hasSewing {
		findings = append(findings, models.Guardrail{
			Code:    GuardrailProcessingGap,
			Message: "no leg carries sewing processing",
		})
	}
	return findings
}

func (v *GuardrailValidator) informational(option *models.RouteOption, shipment *models.Shipment) []models.Guardrail {
	var findings []models.Guardrail

	if wd := option.Schedule.EstimatedDelivery.Weekday(); !option.Schedule.EstimatedDelivery.IsZero() && (wd == time.Saturday || wd == time.Sunday) {
		findings = append(findings, models.Guardrail{
			Code:    GuardrailWeekendDelivery,
			Message: "estimated delivery falls on a weekend",
		})
	}

	if shipment.International() && shipment.DeclaredValue.GreaterThan(decimal.NewFromFloat(v.cfg.HighValueCustomsEUR)) {
		findings = append(findings, models.Guardrail{
			Code:    GuardrailCustomsRequired,
			Message: "cross-border shipment above the customs declaration threshold",
		})
	}
	return findings
}

// IsBlocked reports whether any finding blocks the route.
func IsBlocked(findings []models.Guardrail) bool {
	for _, g := range findings {
		if g.Blocking {
			return true
		}
	}
	return false
}
