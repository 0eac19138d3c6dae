// internal/pricing/pricing.go

// Package pricing implements the external pricing discipline of the
// planner: TTL caching on bucketed keys, a per-session hard call cap, an
// ordered live-provider fallback chain and deterministic static fallback
// tables. Degrading to cached or static prices is a designed path, not an
// error, and every quote is labeled with its source and freshness.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/models"
)

// QuoteParams identifies one transport pricing request before bucketing.
type QuoteParams struct {
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartAt       time.Time `json:"departAt"`
	WeightKG       float64   `json:"weightKg,omitempty"`
	Product        string    `json:"product,omitempty"` // parcel product, e.g. "standard", "express"
	OriginPostcode string    `json:"originPostcode,omitempty"`
	DestPostcode   string    `json:"destPostcode,omitempty"`
}

// Quote is one priced transport answer, always labeled with provenance.
type Quote struct {
	Service  models.ServiceType `json:"service"`
	Amount   decimal.Decimal    `json:"amount"`
	Currency string             `json:"currency"`
	Duration time.Duration      `json:"duration"`
	Provider string             `json:"provider"`
	Source   models.QuoteSource `json:"source"`
	Fresh    bool               `json:"fresh"`
}

// Decision is the outcome of one budget check for a prospective API call.
type Decision struct {
	ShouldCall bool               `json:"shouldCall"`
	Reason     models.CheckReason `json:"reason"`
	Cached     *Quote             `json:"cachedData,omitempty"`
	StaleParts []string           `json:"staleParts,omitempty"`
}

// quotePayload is the cached wire form of a quote. Source and freshness
// are provenance of the lookup, not of the stored payload, so they are
// reattached on read.
type quotePayload struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	DurationHours float64         `json:"durationHours"`
	Provider      string          `json:"provider"`
}
