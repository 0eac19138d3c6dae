// internal/planner/scoring.go
package planner

import (
	"sort"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/models"
)

// RouteScorer normalises time, cost and risk into a weighted total and a
// letter grade, then ranks the candidate set and truncates it to the
// tier's fixed option count.
type RouteScorer struct {
	cfg config.ScoringConfig
}

func NewRouteScorer(cfg config.ScoringConfig) *RouteScorer {
	return &RouteScorer{cfg: cfg}
}

// ScoreAndRank drops infeasible options, scores the survivors relative to
// each other and returns them best first, at most the tier's fixed count.
// Guardrail findings must already be attached; risk scoring reads them.
func (s *RouteScorer) ScoreAndRank(options []models.RouteOption, shipment *models.Shipment) []models.RouteOption {
	feasible := make([]models.RouteOption, 0, len(options))
	for _, o := range options {
		if o.Feasible {
			feasible = append(feasible, o)
		}
	}
	if len(feasible) == 0 {
		return feasible
	}

	var maxDays int
	var maxCost decimal.Decimal
	for _, o := range feasible {
		if o.Schedule.TotalDays > maxDays {
			maxDays = o.Schedule.TotalDays
		}
		if o.Cost.Total.GreaterThan(maxCost) {
			maxCost = o.Cost.Total
		}
	}

	for i := range feasible {
		o := &feasible[i]
		o.Score = models.Score{
			Time: normalised(float64(o.Schedule.TotalDays), float64(maxDays)),
			Cost: normalisedDecimal(o.Cost.Total, maxCost),
			Risk: s.riskScore(o, shipment),
		}
		o.Score.Total = o.Score.Time*s.cfg.TimeWeight +
			o.Score.Cost*s.cfg.CostWeight +
			o.Score.Risk*s.cfg.RiskWeight
		o.Grade = s.grade(o.Score.Total)
	}

	sort.SliceStable(feasible, func(i, j int) bool {
		if feasible[i].Score.Total != feasible[j].Score.Total {
			return feasible[i].Score.Total > feasible[j].Score.Total
		}
		return feasible[i].Cost.Total.LessThan(feasible[j].Cost.Total)
	})

	if max := shipment.Tier.OptionCount(); len(feasible) > max {
		feasible = feasible[:max]
	}
	return feasible
}

// riskScore starts at 100 and decrements for guardrail findings and
// structural risk factors.
func (s *RouteScorer) riskScore(o *models.RouteOption, shipment *models.Shipment) float64 {
	score := 100.0

	for _, g := range o.Guardrails {
		if g.Blocking {
			score -= s.cfg.BlockingRisk
		} else {
			score -= s.cfg.WarningRisk
		}
	}

	if len(o.Legs) > 2 {
		score -= s.cfg.MultiHopRisk
	}
	if shipment.International() {
		score -= s.cfg.IntlRisk
	}
	if shipment.DeclaredValue.GreaterThan(decimal.NewFromFloat(s.cfg.HighValueFloor)) {
		score -= s.cfg.HighValueRisk
	}

	if score < 0 {
		return 0
	}
	return score
}

func (s *RouteScorer) grade(total float64) string {
	switch {
	case total >= s.cfg.GradeAMin:
		return "A"
	case total >= s.cfg.GradeBMin:
		return "B"
	default:
		return "C"
	}
}

// normalised maps a value onto 0..100 against the candidate maximum,
// lower values scoring higher.
func normalised(v, max float64) float64 {
	if max <= 0 {
		return 100
	}
	return 100 * (max - v) / max
}

func normalisedDecimal(v, max decimal.Decimal) float64 {
	if !max.IsPositive() {
		return 100
	}
	ratio, _ := max.Sub(v).Div(max).Float64()
	return 100 * ratio
}
