// internal/models/hub.go
package models

import "github.com/shopspring/decimal"

// FeeSchedule holds the per-service fees a hub charges, in the hub currency.
type FeeSchedule struct {
	AuthFeeTier2        decimal.Decimal `json:"authFeeTier2"`
	AuthFeeTier3        decimal.Decimal `json:"authFeeTier3"`
	SewingFee           decimal.Decimal `json:"sewingFee"`
	QAFee               decimal.Decimal `json:"qaFee"`
	TagUnitCost         decimal.Decimal `json:"tagUnitCost"`
	NFCUnitCost         decimal.Decimal `json:"nfcUnitCost"`
	InternalRolloutCost decimal.Decimal `json:"internalRolloutCost"`
}

// AuthFee returns the authentication fee for the given tier.
func (f FeeSchedule) AuthFee(tier Tier) decimal.Decimal {
	if tier == Tier3 {
		return f.AuthFeeTier3
	}
	return f.AuthFeeTier2
}

// HubCapacity holds the per-date capacity counters of a hub snapshot.
type HubCapacity struct {
	AuthAvailable   int `json:"authAvailable"`
	AuthTotal       int `json:"authTotal"`
	SewingAvailable int `json:"sewingAvailable"`
	SewingTotal     int `json:"sewingTotal"`
}

// AuthRatio is available/total authentication capacity, 0 when unknown.
func (c HubCapacity) AuthRatio() float64 {
	if c.AuthTotal <= 0 {
		return 0
	}
	return float64(c.AuthAvailable) / float64(c.AuthTotal)
}

// HubInventory holds stock counters for consumables.
type HubInventory struct {
	NFCStock int `json:"nfcStock"`
	TagStock int `json:"tagStock"`
}

// Hub is one authentication/couturier facility from the hub snapshot.
// The planner only ever reads hubs; reservation (capacity and stock
// decrement) is owned by the hub-inventory service.
type Hub struct {
	ID                  string       `json:"id"`
	Code                string       `json:"code"`
	City                string       `json:"city"`
	Country             string       `json:"country"`
	Currency            string       `json:"currency"`
	Fees                FeeSchedule  `json:"fees"`
	Capacity            HubCapacity  `json:"capacity"`
	Inventory           HubInventory `json:"inventory"`
	HasSewingCapability bool         `json:"hasSewingCapability"`
	CapacityMultiplier  float64      `json:"capacityMultiplier,omitempty"`
	Active              bool         `json:"active"`
}
