// internal/planner/costing.go
package planner

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/models"
	"aucta-logistics/internal/pricebook"
)

// CostAggregator rolls leg, hub, insurance and surcharge costs up into a
// CostBreakdown with the tier margin applied. All arithmetic is decimal;
// everything is in the reference currency by the time it lands here.
type CostAggregator struct {
	margins    config.MarginConfig
	surcharges config.SurchargeConfig
}

func NewCostAggregator(margins config.MarginConfig, surcharges config.SurchargeConfig) *CostAggregator {
	return &CostAggregator{margins: margins, surcharges: surcharges}
}

// Aggregate computes the breakdown for resolved, scheduled legs. The cost
// identity holds by construction:
// total = labor + transport + hub fees + insurance + surcharges.
func (a *CostAggregator) Aggregate(legs []models.Leg, schedule models.Schedule, shipment *models.Shipment, sel Selection) models.CostBreakdown {
	var labor, transport decimal.Decimal
	for _, leg := range legs {
		labor = labor.Add(leg.LaborCost)
		transport = transport.Add(leg.TransportCost)
	}

	hubFees := a.hubFees(shipment, sel)
	insurance := a.insurance(shipment)
	surcharges := a.surchargeLines(labor, transport, schedule, shipment)

	total := labor.Add(transport).Add(hubFees).Add(insurance).Add(surcharges.Sum())
	multiplier := decimal.NewFromFloat(a.margins.Multiplier(shipment.Tier == models.Tier3))
	clientPrice := total.Mul(multiplier).Round(2)
	margin := clientPrice.Sub(total)

	var marginPct float64
	if clientPrice.IsPositive() {
		marginPct, _ = margin.Div(clientPrice).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	return models.CostBreakdown{
		Labor:            labor,
		Transport:        transport,
		HubFees:          hubFees,
		Insurance:        insurance,
		Surcharges:       surcharges,
		Total:            total,
		ClientPrice:      clientPrice,
		Margin:           margin,
		MarginPercentage: marginPct,
	}
}

// hubFees sums the service fees of the selected hubs, converted to the
// reference currency. Authentication, QA and the consumable unit are
// charged at the authentication hub; sewing at the couturier hub.
func (a *CostAggregator) hubFees(shipment *models.Shipment, sel Selection) decimal.Decimal {
	hub := sel.Hub
	fee := hub.Fees.AuthFee(shipment.Tier).Add(hub.Fees.QAFee)
	if shipment.Tier == models.Tier3 {
		fee = fee.Add(hub.Fees.NFCUnitCost)
	} else {
		fee = fee.Add(hub.Fees.TagUnitCost)
	}
	total := pricebook.ToEUR(fee, hub.Currency)

	if shipment.Tier == models.Tier3 && sel.Cou != nil {
		total = total.Add(pricebook.ToEUR(sel.Cou.Fees.SewingFee, sel.Cou.Currency))
	}
	return total.Round(2)
}

func (a *CostAggregator) insurance(shipment *models.Shipment) decimal.Decimal {
	pct := decimal.NewFromFloat(a.surcharges.InsurancePct).Div(decimal.NewFromInt(100))
	premium := shipment.DeclaredValue.Mul(pct).Round(2)
	floor := decimal.NewFromFloat(a.surcharges.InsuranceFloor)
	if premium.LessThan(floor) {
		return floor
	}
	return premium
}

// surchargeLines computes the itemised surcharges. Fuel is a percentage
// of the transport subtotal only, computed after everything else.
func (a *CostAggregator) surchargeLines(labor, transport decimal.Decimal, schedule models.Schedule, shipment *models.Shipment) models.Surcharges {
	var s models.Surcharges

	if a.inPeakWindow(schedule.Pickup) {
		pct := decimal.NewFromFloat(a.surcharges.PeakSeasonPct).Div(decimal.NewFromInt(100))
		s.PeakSeason = labor.Mul(pct).Round(2)
	}

	if wd := schedule.EstimatedDelivery.Weekday(); wd == time.Saturday || wd == time.Sunday {
		s.WeekendDelivery = decimal.NewFromFloat(a.surcharges.WeekendFlatFee)
	}

	if shipment.Fragility == models.FragilityHigh {
		pct := decimal.NewFromFloat(a.surcharges.FragilePct).Div(decimal.NewFromInt(100))
		s.FragileHandling = shipment.DeclaredValue.Mul(pct).Round(2)
	}

	fuelPct := decimal.NewFromFloat(a.surcharges.FuelPct).Div(decimal.NewFromInt(100))
	s.Fuel = transport.Mul(fuelPct).Round(2)

	return s
}

// inPeakWindow checks the date against the configured "MM-DD..MM-DD"
// windows. Windows never wrap the year end.
func (a *CostAggregator) inPeakWindow(t time.Time) bool {
	day := monthDay{int(t.Month()), t.Day()}
	for _, window := range a.surcharges.PeakWindows {
		parts := strings.Split(window, "..")
		if len(parts) != 2 {
			continue
		}
		from, okFrom := parseMonthDay(parts[0])
		to, okTo := parseMonthDay(parts[1])
		if !okFrom || !okTo {
			continue
		}
		if !day.before(from) && !to.before(day) {
			return true
		}
	}
	return false
}

type monthDay struct {
	month int
	day   int
}

func (m monthDay) before(other monthDay) bool {
	if m.month != other.month {
		return m.month < other.month
	}
	return m.day < other.day
}

func parseMonthDay(s string) (monthDay, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return monthDay{}, false
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return monthDay{}, false
	}
	return monthDay{month, day}, true
}
