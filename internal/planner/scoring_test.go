// internal/planner/scoring_test.go
package planner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/models"
)

func newTestScorer() *RouteScorer {
	return NewRouteScorer(config.Default().Planner.Scoring)
}

func candidate(template models.TemplateID, days int, total float64, feasible bool) models.RouteOption {
	return models.RouteOption{
		ID:       string(template) + "-test",
		Tier:     models.Tier3,
		Template: template,
		Legs:     []models.Leg{{Order: 1}, {Order: 2}},
		Schedule: models.Schedule{TotalDays: days, MeetsSLA: true},
		Cost:     models.CostBreakdown{Total: decimal.NewFromFloat(total)},
		Feasible: feasible,
	}
}

func TestRouteScorer_RanksBestFirst(t *testing.T) {
	shipment := testShipment(models.Tier3, "London", "Nice")
	shipment.Buyer.Country = shipment.Sender.Country // keep risk factors out of the comparison
	options := []models.RouteOption{
		candidate(models.TemplateFullWG, 5, 3000, true),
		candidate(models.TemplateHybridWGDHL, 3, 2400, true),
		candidate(models.TemplateHybridDHLWG, 4, 2600, true),
	}

	ranked := newTestScorer().ScoreAndRank(options, shipment)
	require.Len(t, ranked, 3)

	assert.Equal(t, models.TemplateHybridWGDHL, ranked[0].Template, "fastest and cheapest wins")
	assert.True(t, ranked[0].Score.Total >= ranked[1].Score.Total)
	assert.True(t, ranked[1].Score.Total >= ranked[2].Score.Total)
}

func TestRouteScorer_DropsInfeasibleAndTruncates(t *testing.T) {
	shipment := testShipment(models.Tier2, "London", "Paris")
	options := []models.RouteOption{
		candidate(models.TemplateWGEndToEnd, 3, 2000, true),
		candidate(models.TemplateDHLEndToEnd, 4, 900, true),
		candidate(models.TemplateFullWG, 2, 1500, false),
	}

	ranked := newTestScorer().ScoreAndRank(options, shipment)
	require.Len(t, ranked, 2, "infeasible options are removed, tier 2 caps at two")
	for _, o := range ranked {
		assert.True(t, o.Feasible)
	}
}

func TestRouteScorer_RiskDecrements(t *testing.T) {
	scorer := newTestScorer()

	domestic := testShipment(models.Tier3, "Paris", "Lyon")
	domestic.Buyer.Country = "FR"
	domestic.Sender.Country = "FR"
	domestic.DeclaredValue = decimal.NewFromInt(450)

	clean := candidate(models.TemplateFullWG, 3, 1000, true)
	assert.Equal(t, 100.0, scorer.riskScore(&clean, domestic))

	warned := clean
	warned.Guardrails = []models.Guardrail{{Code: GuardrailSLABufferLow}}
	assert.Equal(t, 75.0, scorer.riskScore(&warned, domestic))

	blocked := clean
	blocked.Guardrails = []models.Guardrail{{Code: GuardrailMarginBelowMinimum, Blocking: true}}
	assert.Equal(t, 50.0, scorer.riskScore(&blocked, domestic))

	multiHop := clean
	multiHop.Legs = append(multiHop.Legs, models.Leg{Order: 3})
	assert.Equal(t, 90.0, scorer.riskScore(&multiHop, domestic))

	international := testShipment(models.Tier3, "London", "Nice")
	international.DeclaredValue = decimal.NewFromInt(20000)
	pricey := clean
	assert.Equal(t, 75.0, scorer.riskScore(&pricey, international), "international and high-value decrements stack")
}

func TestRouteScorer_Grades(t *testing.T) {
	scorer := newTestScorer()
	assert.Equal(t, "A", scorer.grade(85))
	assert.Equal(t, "A", scorer.grade(80))
	assert.Equal(t, "B", scorer.grade(65))
	assert.Equal(t, "C", scorer.grade(30))
}

func TestRouteScorer_EmptyWhenNothingFeasible(t *testing.T) {
	shipment := testShipment(models.Tier3, "London", "Nice")
	options := []models.RouteOption{candidate(models.TemplateFullWG, 3, 1000, false)}

	ranked := newTestScorer().ScoreAndRank(options, shipment)
	assert.Empty(t, ranked)
}
