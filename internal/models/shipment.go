// internal/models/shipment.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is the authentication level of a shipment. Tier 2 is tag-based,
// tier 3 requires NFC chips plus a sewing step at a couturier hub.
type Tier int

const (
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// Valid reports whether the tier is one the planner supports.
func (t Tier) Valid() bool {
	return t == Tier2 || t == Tier3
}

// OptionCount is the fixed number of route options returned for the tier.
func (t Tier) OptionCount() int {
	if t == Tier3 {
		return 3
	}
	return 2
}

// Fragility categorises handling requirements of the item.
type Fragility string

const (
	FragilityLow    Fragility = "low"
	FragilityMedium Fragility = "medium"
	FragilityHigh   Fragility = "high"
)

// Party is one endpoint of a shipment (seller or buyer).
type Party struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Dimensions of the packed item in centimetres.
type Dimensions struct {
	LengthCM float64 `json:"lengthCm"`
	WidthCM  float64 `json:"widthCm"`
	HeightCM float64 `json:"heightCm"`
}

// Shipment is the immutable input of a route calculation.
type Shipment struct {
	ID                string          `json:"id"`
	Tier              Tier            `json:"tier"`
	Sender            Party           `json:"sender"`
	Buyer             Party           `json:"buyer"`
	DeclaredValue     decimal.Decimal `json:"declaredValue"`
	WeightKG          float64         `json:"weightKg"`
	Dimensions        Dimensions      `json:"dimensions"`
	Fragility         Fragility       `json:"fragility"`
	SLATargetDate     time.Time       `json:"slaTargetDate"`
	PickupWindowStart time.Time       `json:"pickupWindowStart,omitempty"`
}

// International reports whether sender and buyer are in different countries.
func (s *Shipment) International() bool {
	return s.Sender.Country != "" && s.Buyer.Country != "" && s.Sender.Country != s.Buyer.Country
}
