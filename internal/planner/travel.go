// internal/planner/travel.go
package planner

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/errors"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/geo"
	"aucta-logistics/internal/models"
	"aucta-logistics/internal/pricebook"
	"aucta-logistics/internal/pricing"
)

// Mode thresholds in km.
const (
	flightThresholdKM = 500.0
	groundThresholdKM = 150.0
)

// TravelPlanner resolves one leg into transport segments, cost and
// duration. It is the only place transport pricing is requested from; hub
// transfer legs are priced off the hub fee schedule instead.
type TravelPlanner struct {
	pricing *pricing.Cache
	labor   config.LaborConfig
	sched   config.ScheduleConfig
	log     logger.Logger
}

func NewTravelPlanner(cache *pricing.Cache, labor config.LaborConfig, sched config.ScheduleConfig, log logger.Logger) *TravelPlanner {
	return &TravelPlanner{pricing: cache, labor: labor, sched: sched, log: log}
}

// ResolveLeg enriches the leg in place with segments, transport cost,
// labor cost and duration. A NewLegUnresolvableError marks only the
// owning route option infeasible; sibling templates continue.
func (p *TravelPlanner) ResolveLeg(ctx context.Context, sessionID string, leg *models.Leg, shipment *models.Shipment, hubs []models.Hub, departAt time.Time, forceRefresh bool) error {
	switch leg.Type {
	case models.LegWhiteGlove:
		return p.resolveWhiteGlove(ctx, sessionID, leg, departAt, forceRefresh)
	case models.LegDHL:
		return p.resolveDHL(ctx, sessionID, leg, shipment, departAt, forceRefresh)
	case models.LegInternalRollout:
		return p.resolveRollout(leg, hubs)
	}
	return errors.NewLegUnresolvableError(leg.From.City, leg.To.City, "unknown leg type "+string(leg.Type))
}

func (p *TravelPlanner) resolveWhiteGlove(ctx context.Context, sessionID string, leg *models.Leg, departAt time.Time, forceRefresh bool) error {
	dist, ok := geo.CityDistance(leg.From.City, leg.To.City)
	if !ok {
		return errors.NewLegUnresolvableError(leg.From.City, leg.To.City, "city not in the served gazetteer")
	}

	mode := p.selectMode(dist, leg.From.City, leg.To.City)
	quote := p.pricing.Resolve(ctx, sessionID, serviceFor(mode), pricing.QuoteParams{
		Origin:      leg.From.City,
		Destination: leg.To.City,
		DepartAt:    departAt,
	}, forceRefresh)

	outboundCost := pricebook.ToEUR(quote.Amount, quote.Currency)
	returnCost := outboundCost.Mul(decimal.NewFromFloat(p.labor.WGReturnDiscount)).Round(2)

	pickup := time.Duration(p.sched.PickupBufferMinutes) * time.Minute
	delivery := time.Duration(p.sched.DeliveryBufferMinutes) * time.Minute

	leg.Segments = []models.Segment{
		{
			Mode:       mode,
			From:       leg.From.City,
			To:         leg.To.City,
			DistanceKM: dist,
			Duration:   quote.Duration,
			Cost:       outboundCost,
			Source:     quote.Source,
			Fresh:      quote.Fresh,
			Provider:   quote.Provider,
		},
		{
			// The operator always returns to base; the closing segment is
			// never omitted.
			Mode:       mode,
			From:       leg.To.City,
			To:         leg.From.City,
			DistanceKM: dist,
			Duration:   quote.Duration,
			Cost:       returnCost,
			Source:     quote.Source,
			Fresh:      quote.Fresh,
			Provider:   quote.Provider,
			Return:     true,
		},
	}
	leg.TransportCost = outboundCost.Add(returnCost)
	leg.Duration = pickup + quote.Duration + delivery

	// The operator is paid for the round trip, buffers included.
	laborHours := (pickup + delivery + 2*quote.Duration).Hours()
	leg.LaborCost = p.laborCost(laborHours)
	return nil
}

func (p *TravelPlanner) resolveDHL(ctx context.Context, sessionID string, leg *models.Leg, shipment *models.Shipment, departAt time.Time, forceRefresh bool) error {
	product := leg.ServiceLevel
	if product == "" {
		product = "standard"
	}

	quote := p.pricing.Resolve(ctx, sessionID, models.ServiceParcel, pricing.QuoteParams{
		Origin:      leg.From.City,
		Destination: leg.To.City,
		DepartAt:    departAt,
		WeightKG:    shipment.WeightKG,
		Product:     product,
	}, forceRefresh)

	dist, _ := geo.CityDistance(leg.From.City, leg.To.City)
	cost := pricebook.ToEUR(quote.Amount, quote.Currency)

	pickup := time.Duration(p.sched.PickupBufferMinutes) * time.Minute
	delivery := time.Duration(p.sched.DeliveryBufferMinutes) * time.Minute

	leg.Segments = []models.Segment{{
		Mode:       models.ModeParcel,
		From:       leg.From.City,
		To:         leg.To.City,
		DistanceKM: dist,
		Duration:   quote.Duration,
		Cost:       cost,
		Source:     quote.Source,
		Fresh:      quote.Fresh,
		Provider:   quote.Provider,
	}}
	leg.TransportCost = cost
	// The carrier handover buffer lives in the scheduler; pickup and
	// delivery handling apply to every leg regardless of carrier.
	leg.Duration = pickup + quote.Duration + delivery
	leg.LaborCost = decimal.Zero
	return nil
}

// resolveRollout prices the scheduled inter-hub transfer off the origin
// hub's flat rollout rate. No external pricing is involved.
func (p *TravelPlanner) resolveRollout(leg *models.Leg, hubs []models.Hub) error {
	dist, ok := geo.CityDistance(leg.From.City, leg.To.City)
	if !ok {
		return errors.NewLegUnresolvableError(leg.From.City, leg.To.City, "hub city not in the served gazetteer")
	}

	hub, found := pricebook.FindByID(hubs, leg.From.HubID)
	if !found {
		return errors.NewLegUnresolvableError(leg.From.City, leg.To.City, "origin hub missing from snapshot")
	}

	cost := pricebook.ToEUR(hub.Fees.InternalRolloutCost, hub.Currency)
	transit := time.Duration((0.5 + dist/70.0) * float64(time.Hour))
	pickup := time.Duration(p.sched.PickupBufferMinutes) * time.Minute
	delivery := time.Duration(p.sched.DeliveryBufferMinutes) * time.Minute

	leg.Segments = []models.Segment{{
		Mode:       models.ModeGround,
		From:       leg.From.City,
		To:         leg.To.City,
		DistanceKM: dist,
		Duration:   transit,
		Cost:       cost,
		Source:     models.SourceLive,
		Fresh:      true,
		Provider:   "internal-rollout",
	}}
	leg.TransportCost = cost
	leg.Duration = pickup + transit + delivery
	leg.LaborCost = decimal.Zero
	return nil
}

// selectMode applies the distance thresholds: long hauls fly, mid-range
// takes the train when a known rail route exists, everything else goes by
// road.
func (p *TravelPlanner) selectMode(dist float64, from, to string) models.TransportMode {
	switch {
	case dist > flightThresholdKM:
		return models.ModeFlight
	case dist > groundThresholdKM && geo.HasRailRoute(from, to):
		return models.ModeTrain
	default:
		return models.ModeGround
	}
}

func serviceFor(mode models.TransportMode) models.ServiceType {
	switch mode {
	case models.ModeFlight:
		return models.ServiceFlight
	case models.ModeTrain:
		return models.ServiceTrain
	default:
		return models.ServiceGround
	}
}

// laborCost bills operator hours: base rate up to the regular day,
// overtime past it, a per-diem on long days and an overnight allowance on
// very long ones.
func (p *TravelPlanner) laborCost(hours float64) decimal.Decimal {
	billable := math.Min(hours, p.labor.RegularHours) * p.labor.BaseHourlyRate
	if hours > p.labor.RegularHours {
		billable += (hours - p.labor.RegularHours) * p.labor.BaseHourlyRate * p.labor.OvertimeFactor
	}
	if hours > p.labor.PerDiemHours {
		billable += p.labor.PerDiem
	}
	if hours > p.labor.OvernightHours {
		billable += p.labor.OvernightAllow
	}
	return decimal.NewFromFloat(billable).Round(2)
}
