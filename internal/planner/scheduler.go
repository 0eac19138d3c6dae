// internal/planner/scheduler.go
package planner

import (
	"math"
	"time"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/models"
)

// Scheduler lays the legs of a route onto a timeline: travel and buffer
// time, processing dwell, the daily rollout dispatch cutoff and parcel
// handover buffers, then checks the result against the shipment SLA.
type Scheduler struct {
	cfg config.ScheduleConfig

	// now is swappable in tests.
	now func() time.Time
}

func NewScheduler(cfg config.ScheduleConfig) *Scheduler {
	return &Scheduler{cfg: cfg, now: time.Now}
}

// PickupStart returns the timeline origin: the shipment's pickup window
// start, or a short readiness delay from now when none is given.
func (s *Scheduler) PickupStart(shipment *models.Shipment) time.Time {
	if !shipment.PickupWindowStart.IsZero() {
		return shipment.PickupWindowStart
	}
	return s.now().Add(time.Duration(s.cfg.DefaultPickupDelayHours * float64(time.Hour)))
}

// BuildSchedule stamps each leg's execution window and returns the route
// timeline. Legs must already be resolved (durations set).
func (s *Scheduler) BuildSchedule(legs []models.Leg, shipment *models.Shipment) ([]models.Leg, models.Schedule) {
	cursor := s.PickupStart(shipment)
	pickup := cursor

	out := make([]models.Leg, len(legs))
	copy(out, legs)

	for i := range out {
		leg := &out[i]

		// The internal rollout runs once a day; anything arriving after
		// the cutoff waits for tomorrow's dispatch.
		if leg.Type == models.LegInternalRollout {
			cursor = s.nextRolloutDispatch(cursor)
		}

		start := cursor
		cursor = cursor.Add(leg.Duration)

		if leg.Type == models.LegDHL {
			cursor = cursor.Add(s.dhlBuffer(leg.ServiceLevel))
		}

		cursor = cursor.Add(s.dwell(leg.Processing))
		leg.Window = models.LegWindow{Start: start, End: cursor}
	}

	delivery := pickup
	if len(out) > 0 {
		delivery = out[len(out)-1].Window.End
	}

	totalDays := int(math.Ceil(delivery.Sub(pickup).Hours() / 24))
	if totalDays < 1 {
		totalDays = 1
	}

	schedule := models.Schedule{
		Pickup:            pickup,
		EstimatedDelivery: delivery,
		TotalDays:         totalDays,
		SLATargetDate:     shipment.SLATargetDate,
		MeetsSLA:          true,
	}
	if !shipment.SLATargetDate.IsZero() {
		schedule.MeetsSLA = !delivery.After(shipment.SLATargetDate)
		schedule.SLABufferDays = shipment.SLATargetDate.Sub(delivery).Hours() / 24
	}
	return out, schedule
}

// nextRolloutDispatch snaps forward to the next daily cutoff.
func (s *Scheduler) nextRolloutDispatch(t time.Time) time.Time {
	dispatch := time.Date(t.Year(), t.Month(), t.Day(), s.cfg.RolloutCutoffHour, 0, 0, 0, t.Location())
	if !t.Before(dispatch) {
		dispatch = dispatch.AddDate(0, 0, 1)
	}
	return dispatch
}

func (s *Scheduler) dhlBuffer(serviceLevel string) time.Duration {
	if serviceLevel == "express" {
		return time.Duration(s.cfg.DHLExpressBufferHours * float64(time.Hour))
	}
	return time.Duration(s.cfg.DHLBufferHours * float64(time.Hour))
}

// dwell is the fixed processing time at the leg destination. QA happens
// inside the authentication slot and adds no time of its own.
func (s *Scheduler) dwell(steps []models.ProcessingStep) time.Duration {
	var hours float64
	for _, step := range steps {
		switch step {
		case models.ProcessingAuthentication:
			hours += s.cfg.AuthDwellHours
		case models.ProcessingSewing:
			hours += s.cfg.SewingDwellHours
		case models.ProcessingTagging:
			hours += s.cfg.TaggingDwellHours
		}
	}
	return time.Duration(hours * float64(time.Hour))
}
