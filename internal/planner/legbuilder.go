// internal/planner/legbuilder.go
package planner

import (
	"aucta-logistics/internal/models"
)

const (
	carrierWhiteGlove = "AUCTA-WG"
	carrierDHL        = "DHL"
	carrierInternal   = "AUCTA-ROLLOUT"
)

// LegBuilder assembles the ordered legs of one template, wiring in the
// hubs picked by the selector. Legs come out structural only; the travel
// planner and scheduler enrich them with segments, costs and windows.
type LegBuilder struct{}

func NewLegBuilder() *LegBuilder {
	return &LegBuilder{}
}

// Build produces the leg sequence for one template. The switch is
// exhaustive over the catalog; an unknown template yields nil and is
// discarded by the validation pass that follows.
func (b *LegBuilder) Build(id models.TemplateID, shipment *models.Shipment, sel Selection) []models.Leg {
	seller := sellerEndpoint(shipment)
	buyer := buyerEndpoint(shipment)
	hub := hubEndpoint(sel.Hub)

	switch id {
	case models.TemplateFullWG:
		return b.tier3Legs(shipment, sel, models.LegWhiteGlove, models.LegWhiteGlove)
	case models.TemplateHybridWGDHL:
		return b.tier3Legs(shipment, sel, models.LegWhiteGlove, models.LegDHL)
	case models.TemplateHybridDHLWG:
		return b.tier3Legs(shipment, sel, models.LegDHL, models.LegWhiteGlove)
	case models.TemplateWGEndToEnd:
		return []models.Leg{
			newLeg(1, models.LegWhiteGlove, seller, hub, []models.ProcessingStep{models.ProcessingAuthentication, models.ProcessingQA, models.ProcessingTagging}),
			newLeg(2, models.LegWhiteGlove, hub, buyer, nil),
		}
	case models.TemplateDHLEndToEnd:
		return []models.Leg{
			newLeg(1, models.LegDHL, seller, hub, []models.ProcessingStep{models.ProcessingAuthentication, models.ProcessingQA, models.ProcessingTagging}),
			newLeg(2, models.LegDHL, hub, buyer, nil),
		}
	}
	return nil
}

// tier3Legs builds collection, inter-hub transfer and delivery. When one
// hub plays both roles the transfer leg collapses and all processing lands
// on the single hub leg.
func (b *LegBuilder) tier3Legs(shipment *models.Shipment, sel Selection, collect, deliver models.LegType) []models.Leg {
	seller := sellerEndpoint(shipment)
	buyer := buyerEndpoint(shipment)
	hub := hubEndpoint(sel.Hub)

	if sel.Cou == nil || sel.Cou.ID == sel.Hub.ID {
		return []models.Leg{
			newLeg(1, collect, seller, hub, []models.ProcessingStep{
				models.ProcessingAuthentication,
				models.ProcessingSewing,
				models.ProcessingQA,
			}),
			newLeg(2, deliver, hub, buyer, nil),
		}
	}

	cou := hubEndpoint(*sel.Cou)
	return []models.Leg{
		newLeg(1, collect, seller, hub, []models.ProcessingStep{models.ProcessingAuthentication, models.ProcessingQA}),
		newLeg(2, models.LegInternalRollout, hub, cou, []models.ProcessingStep{models.ProcessingSewing}),
		newLeg(3, deliver, cou, buyer, nil),
	}
}

func newLeg(order int, legType models.LegType, from, to models.Endpoint, processing []models.ProcessingStep) models.Leg {
	leg := models.Leg{
		Order:      order,
		Type:       legType,
		From:       from,
		To:         to,
		Processing: processing,
	}
	switch legType {
	case models.LegWhiteGlove:
		leg.Carrier = carrierWhiteGlove
	case models.LegDHL:
		leg.Carrier = carrierDHL
		leg.ServiceLevel = "standard"
	case models.LegInternalRollout:
		leg.Carrier = carrierInternal
	}
	return leg
}

func sellerEndpoint(s *models.Shipment) models.Endpoint {
	return models.Endpoint{
		Kind:    models.EndpointSeller,
		Address: s.Sender.Address,
		City:    s.Sender.City,
		Country: s.Sender.Country,
	}
}

func buyerEndpoint(s *models.Shipment) models.Endpoint {
	return models.Endpoint{
		Kind:    models.EndpointBuyer,
		Address: s.Buyer.Address,
		City:    s.Buyer.City,
		Country: s.Buyer.Country,
	}
}

func hubEndpoint(h models.Hub) models.Endpoint {
	return models.Endpoint{
		Kind:    models.EndpointHub,
		HubID:   h.ID,
		City:    h.City,
		Country: h.Country,
	}
}
