// internal/planner/scheduler_test.go
package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/models"
)

func newTestScheduler() *Scheduler {
	s := NewScheduler(config.Default().Planner.Schedule)
	s.now = func() time.Time { return time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC) } // a Monday
	return s
}

func resolvedLeg(order int, legType models.LegType, duration time.Duration, steps ...models.ProcessingStep) models.Leg {
	return models.Leg{
		Order:      order,
		Type:       legType,
		Duration:   duration,
		Processing: steps,
	}
}

func TestScheduler_PickupStartDefaults(t *testing.T) {
	s := newTestScheduler()

	explicit := testShipment(models.Tier2, "London", "Paris")
	explicit.PickupWindowStart = time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, explicit.PickupWindowStart, s.PickupStart(explicit))

	implicit := testShipment(models.Tier2, "London", "Paris")
	implicit.PickupWindowStart = time.Time{}
	assert.Equal(t, s.now().Add(2*time.Hour), s.PickupStart(implicit))
}

func TestScheduler_DwellPerProcessingStep(t *testing.T) {
	s := newTestScheduler()
	shipment := testShipment(models.Tier3, "London", "Nice")
	shipment.PickupWindowStart = time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC)

	legs := []models.Leg{
		resolvedLeg(1, models.LegWhiteGlove, 3*time.Hour,
			models.ProcessingAuthentication, models.ProcessingQA, models.ProcessingTagging),
	}

	scheduled, _ := s.BuildSchedule(legs, shipment)
	// 3h travel + 4h authentication + 2h tagging; QA adds no time of its own.
	assert.Equal(t, shipment.PickupWindowStart.Add(9*time.Hour), scheduled[0].Window.End)
}

func TestScheduler_RolloutWaitsForDailyDispatch(t *testing.T) {
	s := newTestScheduler()
	shipment := testShipment(models.Tier3, "London", "Nice")

	tests := []struct {
		name         string
		pickup       time.Time
		wantDispatch time.Time
	}{
		{
			name:         "arrival before cutoff dispatches same day",
			pickup:       time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC),
			wantDispatch: time.Date(2026, 9, 8, 14, 0, 0, 0, time.UTC),
		},
		{
			name:         "arrival after cutoff waits for tomorrow",
			pickup:       time.Date(2026, 9, 8, 13, 30, 0, 0, time.UTC),
			wantDispatch: time.Date(2026, 9, 9, 14, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipment.PickupWindowStart = tt.pickup
			legs := []models.Leg{
				resolvedLeg(1, models.LegWhiteGlove, 1*time.Hour),
				resolvedLeg(2, models.LegInternalRollout, 5*time.Hour),
			}

			scheduled, _ := s.BuildSchedule(legs, shipment)
			assert.Equal(t, tt.wantDispatch, scheduled[1].Window.Start)
		})
	}
}

func TestScheduler_DHLBuffer(t *testing.T) {
	s := newTestScheduler()
	shipment := testShipment(models.Tier2, "London", "Paris")
	shipment.PickupWindowStart = time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC)

	standard := []models.Leg{resolvedLeg(1, models.LegDHL, 6*time.Hour)}
	scheduled, _ := s.BuildSchedule(standard, shipment)
	assert.Equal(t, shipment.PickupWindowStart.Add(6*time.Hour+24*time.Hour), scheduled[0].Window.End)

	express := []models.Leg{resolvedLeg(1, models.LegDHL, 6*time.Hour)}
	express[0].ServiceLevel = "express"
	scheduled, _ = s.BuildSchedule(express, shipment)
	assert.Equal(t, shipment.PickupWindowStart.Add(6*time.Hour+12*time.Hour), scheduled[0].Window.End)
}

func TestScheduler_SLAFeasibility(t *testing.T) {
	s := newTestScheduler()
	shipment := testShipment(models.Tier2, "London", "Paris")
	shipment.PickupWindowStart = time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC)
	shipment.SLATargetDate = time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	legs := []models.Leg{resolvedLeg(1, models.LegWhiteGlove, 10*time.Hour)}
	_, schedule := s.BuildSchedule(legs, shipment)
	require.True(t, schedule.MeetsSLA)
	assert.Equal(t, 1, schedule.TotalDays)
	assert.InDelta(t, 1.58, schedule.SLABufferDays, 0.01)

	tight := testShipment(models.Tier2, "London", "Paris")
	tight.PickupWindowStart = shipment.PickupWindowStart
	tight.SLATargetDate = time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	_, schedule = s.BuildSchedule(legs, tight)
	assert.False(t, schedule.MeetsSLA)
}
