// internal/planner/hubselector.go
package planner

import (
	"sort"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/errors"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/geo"
	"aucta-logistics/internal/models"
	"aucta-logistics/internal/pricebook"
)

// Selection is the hub assignment for one route: the authentication hub
// and, for tier 3, the couturier hub (which may coincide with it).
type Selection struct {
	Hub models.Hub
	Cou *models.Hub
}

// HubSelector filters and scores hubs against a shipment. Selection is
// read-only against the snapshot; reservation belongs to the
// hub-inventory service.
type HubSelector struct {
	cfg config.SelectionConfig
	log logger.Logger
}

func NewHubSelector(cfg config.SelectionConfig, log logger.Logger) *HubSelector {
	return &HubSelector{cfg: cfg, log: log}
}

// Select picks the hub (and tier-3 couturier hub) for the shipment.
// Filtering degrades in stages before failing: tier constraints, then any
// active hub, then the built-in last-resort pair. NewHubUnavailableError
// is returned only when even the last resort is empty.
func (s *HubSelector) Select(shipment *models.Shipment, hubs []models.Hub) (Selection, error) {
	candidates := s.filter(shipment, hubs)

	if len(candidates) == 0 {
		candidates = activeOnly(hubs)
		if len(candidates) > 0 {
			s.log.Warn("no hub meets tier constraints, relaxed to active hubs", map[string]interface{}{
				"shipmentId": shipment.ID,
				"tier":       int(shipment.Tier),
			})
		}
	}

	if len(candidates) == 0 {
		par, mil := pricebook.LastResortPair()
		candidates = []models.Hub{par, mil}
		s.log.Warn("hub snapshot empty, using last-resort pair", map[string]interface{}{
			"shipmentId": shipment.ID,
		})
	}

	if len(candidates) == 0 || candidates[0].ID == "" {
		return Selection{}, errors.NewHubUnavailableError("no active hub available, last-resort pair empty")
	}

	ranked := s.rank(shipment, candidates)
	best := ranked[0]

	if shipment.Tier != models.Tier3 {
		return Selection{Hub: best}, nil
	}

	cou := s.selectCouturier(shipment, best, ranked, hubs)
	return Selection{Hub: best, Cou: &cou}, nil
}

// filter applies the hard tier constraints.
func (s *HubSelector) filter(shipment *models.Shipment, hubs []models.Hub) []models.Hub {
	var out []models.Hub
	for _, h := range hubs {
		if !h.Active || h.Capacity.AuthAvailable <= 0 {
			continue
		}
		if shipment.Tier == models.Tier3 {
			if h.Inventory.NFCStock <= 0 {
				continue
			}
		} else if h.Inventory.TagStock <= 0 {
			continue
		}
		out = append(out, h)
	}
	return out
}

func activeOnly(hubs []models.Hub) []models.Hub {
	var out []models.Hub
	for _, h := range hubs {
		if h.Active {
			out = append(out, h)
		}
	}
	return out
}

type scoredHub struct {
	hub   models.Hub
	score float64
}

// rank orders candidates best first.
func (s *HubSelector) rank(shipment *models.Shipment, candidates []models.Hub) []models.Hub {
	distances := make([]float64, len(candidates))
	fees := make([]float64, len(candidates))
	var maxDist, maxFee float64

	for i, h := range candidates {
		distances[i] = routeDistance(shipment, h)
		fees[i] = s.serviceFeeEUR(shipment, h)
		if distances[i] > maxDist {
			maxDist = distances[i]
		}
		if fees[i] > maxFee {
			maxFee = fees[i]
		}
	}

	scored := make([]scoredHub, len(candidates))
	for i, h := range candidates {
		scored[i] = scoredHub{hub: h, score: s.score(shipment, h, distances[i], maxDist, fees[i], maxFee)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].hub.ID < scored[j].hub.ID
	})

	out := make([]models.Hub, len(scored))
	for i, sh := range scored {
		out[i] = sh.hub
	}
	return out
}

func (s *HubSelector) score(shipment *models.Shipment, h models.Hub, dist, maxDist, fee, maxFee float64) float64 {
	var score float64

	if maxDist > 0 {
		score += s.cfg.DistanceWeight * 100 * (maxDist - dist) / maxDist
	}
	if maxFee > 0 {
		score += s.cfg.CostWeight * 100 * (maxFee - fee) / maxFee
	}
	score += s.cfg.CapacityWeight * 100 * h.Capacity.AuthRatio()

	stock := h.Inventory.TagStock
	if shipment.Tier == models.Tier3 {
		stock = h.Inventory.NFCStock
	}
	score += s.cfg.StockWeight * 100 * clamp01(float64(stock)/100)

	if shipment.Tier == models.Tier3 && !h.HasSewingCapability {
		score -= s.cfg.NoSewingPenalty
	}
	if h.Capacity.AuthRatio() < s.cfg.LowCapacityRatio {
		score -= s.cfg.LowCapacityPen
	}
	if fee > s.cfg.HighFeeThreshold {
		score -= s.cfg.HighFeePenalty
	}

	mult := h.CapacityMultiplier
	if mult <= 0 {
		mult = 1.0
	}
	return score * mult
}

// selectCouturier picks the sewing hub for a tier-3 route: the best-ranked
// sewing-capable hub with capacity, preferring one distinct from the
// authentication hub.
func (s *HubSelector) selectCouturier(shipment *models.Shipment, hub models.Hub, ranked []models.Hub, all []models.Hub) models.Hub {
	capable := func(h models.Hub) bool {
		return h.HasSewingCapability && h.Capacity.SewingAvailable > 0
	}

	var same *models.Hub
	for i := range ranked {
		h := ranked[i]
		if !capable(h) {
			continue
		}
		if h.ID != hub.ID {
			return h
		}
		if same == nil {
			same = &ranked[i]
		}
	}
	if same != nil {
		return *same
	}

	// Relax the capacity requirement before giving up.
	for _, h := range all {
		if h.Active && h.HasSewingCapability {
			return h
		}
	}

	_, mil := pricebook.LastResortPair()
	s.log.Warn("no sewing-capable hub in snapshot, using last-resort couturier", map[string]interface{}{
		"shipmentId": shipment.ID,
		"hubCou":     mil.ID,
	})
	return mil
}

// routeDistance is the total sender→hub→buyer distance. Unknown cities
// score as far away rather than failing selection.
func routeDistance(shipment *models.Shipment, h models.Hub) float64 {
	const unknownKM = 1500.0

	toHub, ok := geo.CityDistance(shipment.Sender.City, h.City)
	if !ok {
		toHub = unknownKM
	}
	toBuyer, ok := geo.CityDistance(h.City, shipment.Buyer.City)
	if !ok {
		toBuyer = unknownKM
	}
	return toHub + toBuyer
}

// serviceFeeEUR is the total fee the hub would charge this shipment,
// converted to the reference currency.
func (s *HubSelector) serviceFeeEUR(shipment *models.Shipment, h models.Hub) float64 {
	fee := h.Fees.AuthFee(shipment.Tier).Add(h.Fees.QAFee)
	if shipment.Tier == models.Tier3 {
		fee = fee.Add(h.Fees.SewingFee).Add(h.Fees.NFCUnitCost)
	} else {
		fee = fee.Add(h.Fees.TagUnitCost)
	}
	eur := pricebook.ToEUR(fee, h.Currency)
	f, _ := eur.Round(2).Float64()
	return f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
