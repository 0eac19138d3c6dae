// internal/planner/templates.go

// Package planner contains the route calculation engine: template catalog,
// hub selection, leg building, transport resolution, scheduling, costing,
// scoring and guardrail validation.
package planner

import (
	"fmt"

	"aucta-logistics/internal/models"
)

// Template is one fixed route skeleton. Routes are only ever built from
// this catalog; leg sequences are never generated at runtime.
type Template struct {
	ID    models.TemplateID
	Label string
	Tier  models.Tier
	// Skeleton is the ordered carrier family of each leg, inter-hub
	// transfer included. The transfer leg collapses away when one hub
	// plays both roles.
	Skeleton []models.LegType
}

var catalog = []Template{
	{
		ID:       models.TemplateFullWG,
		Label:    "Full white-glove",
		Tier:     models.Tier3,
		Skeleton: []models.LegType{models.LegWhiteGlove, models.LegInternalRollout, models.LegWhiteGlove},
	},
	{
		ID:       models.TemplateHybridWGDHL,
		Label:    "White-glove collection, DHL delivery",
		Tier:     models.Tier3,
		Skeleton: []models.LegType{models.LegWhiteGlove, models.LegInternalRollout, models.LegDHL},
	},
	{
		ID:       models.TemplateHybridDHLWG,
		Label:    "DHL collection, white-glove delivery",
		Tier:     models.Tier3,
		Skeleton: []models.LegType{models.LegDHL, models.LegInternalRollout, models.LegWhiteGlove},
	},
	{
		ID:       models.TemplateWGEndToEnd,
		Label:    "White-glove end to end",
		Tier:     models.Tier2,
		Skeleton: []models.LegType{models.LegWhiteGlove, models.LegWhiteGlove},
	},
	{
		ID:       models.TemplateDHLEndToEnd,
		Label:    "DHL end to end",
		Tier:     models.Tier2,
		Skeleton: []models.LegType{models.LegDHL, models.LegDHL},
	},
}

// Catalog returns all route templates.
func Catalog() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// TemplatesForTier returns the templates allowed for the tier: three for
// tier 3, two for tier 2.
func TemplatesForTier(tier models.Tier) []Template {
	var out []Template
	for _, t := range catalog {
		if t.Tier == tier {
			out = append(out, t)
		}
	}
	return out
}

// TemplateByID looks a template up in the catalog.
func TemplateByID(id models.TemplateID) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ValidateRoutePattern re-checks built legs against the template's
// structural predicate. A route failing this check is discarded by the
// caller, never auto-corrected.
func ValidateRoutePattern(legs []models.Leg, tier models.Tier, id models.TemplateID) error {
	tpl, ok := TemplateByID(id)
	if !ok || tpl.Tier != tier {
		return fmt.Errorf("template %s is not allowed for tier %d", id, tier)
	}

	// A parcel carrier never moves goods between two hubs.
	for _, leg := range legs {
		if leg.Type == models.LegDHL && leg.From.Kind == models.EndpointHub && leg.To.Kind == models.EndpointHub {
			return fmt.Errorf("leg %d: hub-to-hub transfers must use internal rollout, not dhl", leg.Order)
		}
	}

	if tier == models.Tier2 {
		if len(legs) != 2 {
			return fmt.Errorf("tier 2 routes have exactly 2 legs, got %d", len(legs))
		}
		family := legs[0].Type
		for _, leg := range legs {
			if leg.Type != family {
				return fmt.Errorf("tier 2 routes use a single carrier family, got %s and %s", family, leg.Type)
			}
			if leg.HasProcessing(models.ProcessingSewing) {
				return fmt.Errorf("leg %d: sewing processing is not available on tier 2", leg.Order)
			}
		}
	}

	if !matchesSkeleton(legs, tpl.Skeleton) {
		return fmt.Errorf("legs do not match the %s skeleton", id)
	}
	return nil
}

// matchesSkeleton accepts the full skeleton or, for tier-3 routes handled
// by a single hub, the skeleton with its internal-rollout leg collapsed.
func matchesSkeleton(legs []models.Leg, skeleton []models.LegType) bool {
	if typesMatch(legs, skeleton) {
		return true
	}

	collapsed := make([]models.LegType, 0, len(skeleton))
	for _, t := range skeleton {
		if t == models.LegInternalRollout {
			continue
		}
		collapsed = append(collapsed, t)
	}
	if len(collapsed) == len(skeleton) {
		return false
	}
	return typesMatch(legs, collapsed)
}

func typesMatch(legs []models.Leg, types []models.LegType) bool {
	if len(legs) != len(types) {
		return false
	}
	for i, leg := range legs {
		if leg.Type != types[i] {
			return false
		}
	}
	return true
}
