// internal/models/route.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateID identifies one of the five fixed route templates. Leg
// sequences are only ever built from these skeletons, never ad hoc.
type TemplateID string

const (
	TemplateFullWG      TemplateID = "FULL_WG"
	TemplateHybridWGDHL TemplateID = "HYBRID_WG_DHL"
	TemplateHybridDHLWG TemplateID = "HYBRID_DHL_WG"
	TemplateWGEndToEnd  TemplateID = "WG_END_TO_END"
	TemplateDHLEndToEnd TemplateID = "DHL_END_TO_END"
)

// LegType is the carrier family of a leg.
type LegType string

const (
	LegWhiteGlove      LegType = "white-glove"
	LegDHL             LegType = "dhl"
	LegInternalRollout LegType = "internal-rollout"
)

// EndpointKind tells what a leg endpoint is.
type EndpointKind string

const (
	EndpointSeller EndpointKind = "seller"
	EndpointBuyer  EndpointKind = "buyer"
	EndpointHub    EndpointKind = "hub"
)

// Endpoint is one end of a leg.
type Endpoint struct {
	Kind    EndpointKind `json:"kind"`
	HubID   string       `json:"hubId,omitempty"`
	Address string       `json:"address,omitempty"`
	City    string       `json:"city"`
	Country string       `json:"country,omitempty"`
}

// ProcessingStep is work performed at the destination hub of a leg.
type ProcessingStep string

const (
	ProcessingAuthentication ProcessingStep = "authentication"
	ProcessingSewing         ProcessingStep = "sewing"
	ProcessingQA             ProcessingStep = "qa"
	ProcessingTagging        ProcessingStep = "tagging"
)

// TransportMode is the physical mode of one resolved segment.
type TransportMode string

const (
	ModeFlight TransportMode = "flight"
	ModeTrain  TransportMode = "train"
	ModeGround TransportMode = "ground"
	ModeParcel TransportMode = "parcel"
)

// QuoteSource labels where a price came from so degraded data is never
// silently substituted for live data.
type QuoteSource string

const (
	SourceLive     QuoteSource = "live"
	SourceCache    QuoteSource = "cache"
	SourceFallback QuoteSource = "fallback"
)

// Segment is one resolved transport movement inside a leg.
type Segment struct {
	Mode       TransportMode   `json:"mode"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	DistanceKM float64         `json:"distanceKm"`
	Duration   time.Duration   `json:"duration"`
	Cost       decimal.Decimal `json:"cost"`
	Source     QuoteSource     `json:"source"`
	Fresh      bool            `json:"fresh"`
	Provider   string          `json:"provider,omitempty"`
	Return     bool            `json:"return,omitempty"`
}

// LegWindow is the scheduled execution window of a leg.
type LegWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Leg is one movement of a route, created by the leg builder and
// enriched by the travel planner and scheduler.
type Leg struct {
	Order         int              `json:"order"`
	Type          LegType          `json:"type"`
	From          Endpoint         `json:"from"`
	To            Endpoint         `json:"to"`
	Carrier       string           `json:"carrier"`
	ServiceLevel  string           `json:"serviceLevel,omitempty"`
	Processing    []ProcessingStep `json:"processing,omitempty"`
	Segments      []Segment        `json:"segments,omitempty"`
	LaborCost     decimal.Decimal  `json:"laborCost"`
	TransportCost decimal.Decimal  `json:"transportCost"`
	Duration      time.Duration    `json:"duration"`
	Window        LegWindow        `json:"window"`
}

// HasProcessing reports whether the leg carries the given step.
func (l *Leg) HasProcessing(step ProcessingStep) bool {
	for _, p := range l.Processing {
		if p == step {
			return true
		}
	}
	return false
}

// Surcharges itemises the route-level cost additions.
type Surcharges struct {
	PeakSeason      decimal.Decimal `json:"peakSeason"`
	WeekendDelivery decimal.Decimal `json:"weekendDelivery"`
	FragileHandling decimal.Decimal `json:"fragileHandling"`
	Fuel            decimal.Decimal `json:"fuel"`
}

// Sum of all surcharge lines.
func (s Surcharges) Sum() decimal.Decimal {
	return s.PeakSeason.Add(s.WeekendDelivery).Add(s.FragileHandling).Add(s.Fuel)
}

// CostBreakdown rolls one route option up into internal cost and client price.
type CostBreakdown struct {
	Labor            decimal.Decimal `json:"labor"`
	Transport        decimal.Decimal `json:"transport"`
	HubFees          decimal.Decimal `json:"hubFees"`
	Insurance        decimal.Decimal `json:"insurance"`
	Surcharges       Surcharges      `json:"surcharges"`
	Total            decimal.Decimal `json:"total"`
	ClientPrice      decimal.Decimal `json:"clientPrice"`
	Margin           decimal.Decimal `json:"margin"`
	MarginPercentage float64         `json:"marginPercentage"`
}

// Schedule is the timeline of a route option.
type Schedule struct {
	Pickup            time.Time `json:"pickup"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
	TotalDays         int       `json:"totalDays"`
	SLATargetDate     time.Time `json:"slaTargetDate"`
	MeetsSLA          bool      `json:"meetsSla"`
	SLABufferDays     float64   `json:"slaBufferDays"`
}

// Score holds the normalised component scores of one ranked option.
type Score struct {
	Time  float64 `json:"time"`
	Cost  float64 `json:"cost"`
	Risk  float64 `json:"risk"`
	Total float64 `json:"total"`
}

// Guardrail is a structured business-rule finding on a scored route.
// Findings are annotations, not errors; only Blocking ones stop the
// route from proceeding without an explicit override.
type Guardrail struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Blocking   bool   `json:"blocking"`
	Actionable string `json:"actionable,omitempty"`
}

// RouteOption is one fully evaluated candidate route.
type RouteOption struct {
	ID               string        `json:"id"`
	Tier             Tier          `json:"tier"`
	Template         TemplateID    `json:"template"`
	Label            string        `json:"label"`
	HubID            string        `json:"hubId"`
	HubCou           string        `json:"hubCou,omitempty"`
	Legs             []Leg         `json:"legs"`
	Cost             CostBreakdown `json:"cost"`
	Schedule         Schedule      `json:"schedule"`
	Score            Score         `json:"score"`
	Grade            string        `json:"grade"`
	Guardrails       []Guardrail   `json:"guardrails,omitempty"`
	Feasible         bool          `json:"feasible"`
	Blocked          bool          `json:"isBlocked"`
	InfeasibleReason string        `json:"infeasibleReason,omitempty"`
}

// HasGuardrail reports whether a finding with the given code is present.
func (r *RouteOption) HasGuardrail(code string) bool {
	for _, g := range r.Guardrails {
		if g.Code == code {
			return true
		}
	}
	return false
}
