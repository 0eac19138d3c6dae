// internal/pricing/fallback.go
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/geo"
	"aucta-logistics/internal/models"
)

// Static per-km rates and bases for the fallback tables, EUR.
const (
	fallbackFlightBase  = 120.0
	fallbackFlightPerKM = 0.35
	fallbackTrainBase   = 25.0
	fallbackTrainPerKM  = 0.18
	fallbackGroundBase  = 40.0
	fallbackGroundPerKM = 1.10
	fallbackParcelBase  = 22.0
	fallbackParcelPerKG = 0.90
	expressMultiplier   = 1.6

	// Used when both endpoints are outside the gazetteer. The planner
	// rejects such legs earlier; this keeps the table total anyway.
	fallbackDefaultKM = 600.0
)

// FallbackQuote prices a request from the static tables. Deterministic by
// construction: same params, same quote. Always labeled source=fallback,
// fresh=false.
func FallbackQuote(service models.ServiceType, params QuoteParams) *Quote {
	if service == models.ServiceParcel {
		return parcelFallback(params)
	}

	dist, ok := geo.CityDistance(params.Origin, params.Destination)
	if !ok {
		dist = fallbackDefaultKM
	}

	var amount float64
	var duration time.Duration
	switch service {
	case models.ServiceFlight:
		amount = fallbackFlightBase + fallbackFlightPerKM*dist
		duration = time.Duration((2.0 + dist/700.0) * float64(time.Hour))
	case models.ServiceTrain:
		amount = fallbackTrainBase + fallbackTrainPerKM*dist
		duration = time.Duration((0.5 + dist/160.0) * float64(time.Hour))
	default: // ground
		amount = fallbackGroundBase + fallbackGroundPerKM*dist
		duration = time.Duration((0.5 + dist/70.0) * float64(time.Hour))
	}

	return &Quote{
		Service:  service,
		Amount:   decimal.NewFromFloat(amount).Round(2),
		Currency: "EUR",
		Duration: duration,
		Provider: "static-table",
		Source:   models.SourceFallback,
		Fresh:    false,
	}
}

func parcelFallback(params QuoteParams) *Quote {
	bucket := WeightBucket(params.WeightKG)
	amount := fallbackParcelBase + fallbackParcelPerKG*bucket
	duration := 48 * time.Hour
	if params.Product == "express" {
		amount *= expressMultiplier
		duration = 24 * time.Hour
	}
	return &Quote{
		Service:  models.ServiceParcel,
		Amount:   decimal.NewFromFloat(amount).Round(2),
		Currency: "EUR",
		Duration: duration,
		Provider: "static-table",
		Source:   models.SourceFallback,
		Fresh:    false,
	}
}
