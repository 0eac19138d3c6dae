// internal/pricebook/pricebook.go

// Package pricebook is the static, overridable registry of hub attributes:
// fee schedules, capabilities, capacity and stock defaults, plus the FX
// table used to convert hub fees into the reference currency (EUR).
package pricebook

import (
	"github.com/shopspring/decimal"

	"aucta-logistics/internal/models"
)

// referenceCurrency is the currency every fee is converted into before
// cross-hub comparison and aggregation.
const ReferenceCurrency = "EUR"

// fxToEUR is a static conversion table. Rates are operational constants,
// refreshed with releases, not a live FX feed.
var fxToEUR = map[string]float64{
	"EUR": 1.0,
	"GBP": 1.17,
	"CHF": 1.04,
	"USD": 0.92,
}

// ToEUR converts an amount in the given currency to EUR. Unknown
// currencies are treated as EUR so a bad snapshot degrades instead of
// failing the calculation.
func ToEUR(amount decimal.Decimal, currency string) decimal.Decimal {
	rate, ok := fxToEUR[currency]
	if !ok || currency == ReferenceCurrency {
		return amount
	}
	return amount.Mul(decimal.NewFromFloat(rate))
}

func fees(auth2, auth3, sewing, qa, tag, nfc, rollout float64) models.FeeSchedule {
	return models.FeeSchedule{
		AuthFeeTier2:        decimal.NewFromFloat(auth2),
		AuthFeeTier3:        decimal.NewFromFloat(auth3),
		SewingFee:           decimal.NewFromFloat(sewing),
		QAFee:               decimal.NewFromFloat(qa),
		TagUnitCost:         decimal.NewFromFloat(tag),
		NFCUnitCost:         decimal.NewFromFloat(nfc),
		InternalRolloutCost: decimal.NewFromFloat(rollout),
	}
}

// Defaults returns the built-in hub registry. Snapshot rows from the
// hub-inventory service override these per hub ID; a missing or partial
// snapshot leaves the defaults in effect.
func Defaults() []models.Hub {
	return []models.Hub{
		{
			ID: "HUB-PAR-01", Code: "PAR1", City: "Paris", Country: "FR", Currency: "EUR",
			Fees:                fees(85, 140, 90, 35, 4, 12, 45),
			Capacity:            models.HubCapacity{AuthAvailable: 18, AuthTotal: 24, SewingAvailable: 8, SewingTotal: 12},
			Inventory:           models.HubInventory{NFCStock: 140, TagStock: 260},
			HasSewingCapability: true,
			CapacityMultiplier:  1.0,
			Active:              true,
		},
		{
			ID: "HUB-MIL-01", Code: "MIL1", City: "Milan", Country: "IT", Currency: "EUR",
			Fees:                fees(80, 135, 85, 30, 4, 11, 40),
			Capacity:            models.HubCapacity{AuthAvailable: 14, AuthTotal: 20, SewingAvailable: 10, SewingTotal: 14},
			Inventory:           models.HubInventory{NFCStock: 120, TagStock: 220},
			HasSewingCapability: true,
			CapacityMultiplier:  1.0,
			Active:              true,
		},
		{
			ID: "HUB-LON-01", Code: "LON1", City: "London", Country: "GB", Currency: "GBP",
			Fees:                fees(75, 125, 0, 32, 4, 11, 50),
			Capacity:            models.HubCapacity{AuthAvailable: 16, AuthTotal: 22},
			Inventory:           models.HubInventory{NFCStock: 90, TagStock: 240},
			HasSewingCapability: false,
			CapacityMultiplier:  1.0,
			Active:              true,
		},
		{
			ID: "HUB-ZRH-01", Code: "ZRH1", City: "Zurich", Country: "CH", Currency: "CHF",
			Fees:                fees(110, 175, 120, 45, 5, 14, 60),
			Capacity:            models.HubCapacity{AuthAvailable: 10, AuthTotal: 12, SewingAvailable: 4, SewingTotal: 6},
			Inventory:           models.HubInventory{NFCStock: 70, TagStock: 130},
			HasSewingCapability: true,
			CapacityMultiplier:  0.9,
			Active:              true,
		},
		{
			ID: "HUB-MAD-01", Code: "MAD1", City: "Madrid", Country: "ES", Currency: "EUR",
			Fees:                fees(70, 120, 75, 28, 3, 10, 38),
			Capacity:            models.HubCapacity{AuthAvailable: 12, AuthTotal: 18, SewingAvailable: 6, SewingTotal: 10},
			Inventory:           models.HubInventory{NFCStock: 100, TagStock: 200},
			HasSewingCapability: true,
			CapacityMultiplier:  1.0,
			Active:              true,
		},
		{
			ID: "HUB-FRA-01", Code: "FRA1", City: "Frankfurt", Country: "DE", Currency: "EUR",
			Fees:                fees(90, 150, 0, 36, 4, 12, 48),
			Capacity:            models.HubCapacity{AuthAvailable: 15, AuthTotal: 20},
			Inventory:           models.HubInventory{NFCStock: 110, TagStock: 210},
			HasSewingCapability: false,
			CapacityMultiplier:  1.0,
			Active:              true,
		},
	}
}

// LastResortPair returns the built-in default hub pair used when even
// relaxed filtering finds nothing. Degrade, don't fail.
func LastResortPair() (models.Hub, models.Hub) {
	defaults := Defaults()
	var par, mil models.Hub
	for _, h := range defaults {
		switch h.ID {
		case "HUB-PAR-01":
			par = h
		case "HUB-MIL-01":
			mil = h
		}
	}
	return par, mil
}

// Merge overlays snapshot rows on the defaults, keyed by hub ID. Snapshot
// hubs unknown to the defaults are appended as-is. A nil or empty snapshot
// returns the defaults unchanged.
func Merge(snapshot []models.Hub) []models.Hub {
	defaults := Defaults()
	if len(snapshot) == 0 {
		return defaults
	}

	byID := make(map[string]int, len(defaults))
	for i, h := range defaults {
		byID[h.ID] = i
	}

	merged := make([]models.Hub, len(defaults))
	copy(merged, defaults)

	for _, snap := range snapshot {
		i, known := byID[snap.ID]
		if !known {
			merged = append(merged, snap)
			continue
		}
		merged[i] = overlay(merged[i], snap)
	}
	return merged
}

// overlay replaces the counters a snapshot actually carries and keeps
// default fees for zero-valued snapshot fields. Partial rows are expected.
func overlay(base, snap models.Hub) models.Hub {
	out := base

	out.Capacity = snap.Capacity
	out.Inventory = snap.Inventory
	out.Active = snap.Active
	if snap.HasSewingCapability {
		out.HasSewingCapability = true
	}
	if snap.CapacityMultiplier > 0 {
		out.CapacityMultiplier = snap.CapacityMultiplier
	}
	if snap.Currency != "" {
		out.Currency = snap.Currency
	}
	if snap.City != "" {
		out.City = snap.City
	}
	if snap.Country != "" {
		out.Country = snap.Country
	}
	if !snap.Fees.AuthFeeTier2.IsZero() {
		out.Fees.AuthFeeTier2 = snap.Fees.AuthFeeTier2
	}
	if !snap.Fees.AuthFeeTier3.IsZero() {
		out.Fees.AuthFeeTier3 = snap.Fees.AuthFeeTier3
	}
	if !snap.Fees.SewingFee.IsZero() {
		out.Fees.SewingFee = snap.Fees.SewingFee
	}
	if !snap.Fees.QAFee.IsZero() {
		out.Fees.QAFee = snap.Fees.QAFee
	}
	if !snap.Fees.TagUnitCost.IsZero() {
		out.Fees.TagUnitCost = snap.Fees.TagUnitCost
	}
	if !snap.Fees.NFCUnitCost.IsZero() {
		out.Fees.NFCUnitCost = snap.Fees.NFCUnitCost
	}
	if !snap.Fees.InternalRolloutCost.IsZero() {
		out.Fees.InternalRolloutCost = snap.Fees.InternalRolloutCost
	}

	return out
}

// FindByID returns the hub with the given ID from a merged set.
func FindByID(hubs []models.Hub, id string) (models.Hub, bool) {
	for _, h := range hubs {
		if h.ID == id {
			return h, true
		}
	}
	return models.Hub{}, false
}
