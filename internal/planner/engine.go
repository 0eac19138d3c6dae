// internal/planner/engine.go
package planner

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/errors"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/common/metrics"
	"aucta-logistics/internal/models"
	"aucta-logistics/internal/pricebook"
	"aucta-logistics/internal/pricing"
)

// Options tunes one calculation request.
type Options struct {
	// HardCap overrides the configured session call cap when > 0.
	HardCap int
	// ForceRefresh makes live pricing calls even on fresh cache hits.
	ForceRefresh bool
}

// Result is the outcome of one calculation: the ranked options and the
// session's pricing cost report.
type Result struct {
	Options []models.RouteOption `json:"routeOptions"`
	Report  models.SessionReport `json:"sessionReport"`
}

// Engine orchestrates one route calculation: hub selection, template
// evaluation, scoring and guardrails. It owns no global state; the
// pricing cache and session store are passed in by handle.
type Engine struct {
	cfg        *config.Config
	pricing    *pricing.Cache
	selector   *HubSelector
	builder    *LegBuilder
	travel     *TravelPlanner
	scheduler  *Scheduler
	costs      *CostAggregator
	guardrails *GuardrailValidator
	scorer     *RouteScorer
	log        logger.Logger
}

func NewEngine(cfg *config.Config, cache *pricing.Cache, log logger.Logger) *Engine {
	p := cfg.Planner
	return &Engine{
		cfg:        cfg,
		pricing:    cache,
		selector:   NewHubSelector(p.Selection, log),
		builder:    NewLegBuilder(),
		travel:     NewTravelPlanner(cache, p.Labor, p.Schedule, log),
		scheduler:  NewScheduler(p.Schedule),
		costs:      NewCostAggregator(p.Margins, p.Surcharges),
		guardrails: NewGuardrailValidator(p.Margins, p.Guardrails),
		scorer:     NewRouteScorer(p.Scoring),
		log:        log,
	}
}

// Calculate runs the full pipeline for one shipment against a hub
// snapshot. The snapshot may be nil or partial; built-in defaults cover
// the gaps. Fatal outcomes are validation failures and hub exhaustion;
// everything else degrades into labeled, possibly infeasible options.
func (e *Engine) Calculate(ctx context.Context, shipment *models.Shipment, snapshot []models.Hub, opts Options) (*Result, error) {
	started := time.Now()

	if err := validateShipment(shipment); err != nil {
		return nil, err
	}

	hubs := pricebook.Merge(snapshot)
	sel, err := e.selector.Select(shipment, hubs)
	if err != nil {
		return nil, err
	}

	hardCap := opts.HardCap
	if hardCap <= 0 {
		hardCap = e.cfg.Pricing.SessionHardCap
	}
	sessionID := e.pricing.Sessions().Open(hardCap)
	defer e.pricing.Sessions().Discard(sessionID)

	e.log.Info("route calculation started", map[string]interface{}{
		"shipmentId": shipment.ID,
		"tier":       int(shipment.Tier),
		"hubId":      sel.Hub.ID,
		"sessionId":  sessionID,
	})

	templates := TemplatesForTier(shipment.Tier)
	candidates := make([]models.RouteOption, len(templates))

	// Template evaluations only read the snapshot and the caches, so they
	// run concurrently. Ranking happens once afterwards, so the result is
	// identical to sequential evaluation.
	var wg sync.WaitGroup
	for i, tpl := range templates {
		wg.Add(1)
		go func(i int, tpl Template) {
			defer wg.Done()
			candidates[i] = e.evaluateTemplate(ctx, sessionID, tpl, shipment, hubs, sel, opts.ForceRefresh)
		}(i, tpl)
	}
	wg.Wait()

	ranked := e.scorer.ScoreAndRank(candidates, shipment)
	report := e.pricing.Sessions().Report(sessionID)

	tierLabel := strconv.Itoa(int(shipment.Tier))
	metrics.RoutesCalculated.WithLabelValues(tierLabel).Inc()
	metrics.CalculationDuration.WithLabelValues(tierLabel).Observe(time.Since(started).Seconds())

	e.log.Info("route calculation finished", map[string]interface{}{
		"shipmentId":   shipment.ID,
		"options":      len(ranked),
		"pricingCalls": report.TotalCalls,
		"durationMs":   time.Since(started).Milliseconds(),
	})

	return &Result{Options: ranked, Report: report}, nil
}

// evaluateTemplate builds and fully evaluates one candidate route. Leg
// resolution failures mark this option infeasible and never abort the
// sibling evaluations.
func (e *Engine) evaluateTemplate(ctx context.Context, sessionID string, tpl Template, shipment *models.Shipment, hubs []models.Hub, sel Selection, forceRefresh bool) models.RouteOption {
	option := models.RouteOption{
		ID:       uuid.NewString(),
		Tier:     shipment.Tier,
		Template: tpl.ID,
		Label:    tpl.Label,
		HubID:    sel.Hub.ID,
		Feasible: true,
	}
	if sel.Cou != nil {
		option.HubCou = sel.Cou.ID
	}

	legs := e.builder.Build(tpl.ID, shipment, sel)
	if err := ValidateRoutePattern(legs, shipment.Tier, tpl.ID); err != nil {
		metrics.OptionsDiscarded.WithLabelValues(string(tpl.ID), "pattern").Inc()
		option.Feasible = false
		option.InfeasibleReason = err.Error()
		return option
	}

	departAt := e.scheduler.PickupStart(shipment)
	for i := range legs {
		if err := e.travel.ResolveLeg(ctx, sessionID, &legs[i], shipment, hubs, departAt, forceRefresh); err != nil {
			metrics.OptionsDiscarded.WithLabelValues(string(tpl.ID), "leg_unresolvable").Inc()
			e.log.Warn("leg unresolvable, discarding option", map[string]interface{}{
				"template": string(tpl.ID),
				"from":     legs[i].From.City,
				"to":       legs[i].To.City,
				"error":    err.Error(),
			})
			option.Feasible = false
			option.InfeasibleReason = err.Error()
			option.Legs = legs
			return option
		}
	}

	scheduled, schedule := e.scheduler.BuildSchedule(legs, shipment)
	option.Legs = scheduled
	option.Schedule = schedule
	if !schedule.MeetsSLA {
		metrics.OptionsDiscarded.WithLabelValues(string(tpl.ID), "sla_missed").Inc()
		option.Feasible = false
		option.InfeasibleReason = "estimated delivery exceeds the SLA target date"
	}

	option.Cost = e.costs.Aggregate(scheduled, schedule, shipment, sel)
	option.Guardrails = e.guardrails.Validate(&option, shipment, sel)
	option.Blocked = IsBlocked(option.Guardrails)
	return option
}

func validateShipment(s *models.Shipment) error {
	if s == nil {
		return errors.NewValidationError("shipment is required")
	}
	if !s.Tier.Valid() {
		return errors.NewValidationError(fmt.Sprintf("unsupported tier %d", int(s.Tier)))
	}
	if s.Sender.City == "" || s.Buyer.City == "" {
		return errors.NewValidationError("sender and buyer city are required")
	}
	if s.DeclaredValue.IsNegative() {
		return errors.NewValidationError("declared value must not be negative")
	}
	return nil
}
