package calculateroute

import (
	"context"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/errors"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/models"
	"aucta-logistics/internal/planner"
	"aucta-logistics/internal/pricebook"
	"aucta-logistics/internal/pricing"
)

func newTestEngine() *planner.Engine {
	cfg := config.Default()
	cache := pricing.NewCache(pricing.NewMemoryStore(), pricing.NewSessionStore(), cfg.Pricing, logger.NewNoOpLogger())
	return planner.NewEngine(cfg, cache, logger.NewNoOpLogger())
}

func newTestHandler(t *testing.T, hubs SnapshotLoader) *Handler {
	t.Helper()
	handler, err := NewHandler(HandlerOptions{
		AppConfig: config.Default(),
		Logger:    logger.NewNoOpLogger(),
		Dependencies: ServiceDependencies{
			Engine: newTestEngine(),
			Hubs:   hubs,
		},
	})
	require.NoError(t, err)
	return handler
}

type stubSnapshotLoader struct {
	hubs  []models.Hub
	err   error
	calls int
}

func (s *stubSnapshotLoader) LoadSnapshot(_ context.Context, _ time.Time) ([]models.Hub, error) {
	s.calls++
	return s.hubs, s.err
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	t.Run("defaults when unconfigured", func(t *testing.T) {
		cfg := createConfigFromAppConfig(config.Default(), nil)
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 5, cfg.MaxJobsActive)
		assert.Equal(t, 60*time.Second, cfg.Timeout)
	})

	t.Run("worker section overrides defaults", func(t *testing.T) {
		appCfg := config.Default()
		appCfg.Workers = map[string]config.WorkerConfig{
			"calculate-route": {Enabled: true, MaxJobsActive: 3, Timeout: 90000},
		}
		cfg := createConfigFromAppConfig(appCfg, nil)
		assert.Equal(t, 3, cfg.MaxJobsActive)
		assert.Equal(t, 90*time.Second, cfg.Timeout)
	})

	t.Run("custom config wins", func(t *testing.T) {
		custom := &Config{Enabled: false, MaxJobsActive: 1, Timeout: time.Second}
		cfg := createConfigFromAppConfig(config.Default(), custom)
		assert.Same(t, custom, cfg)
	})
}

func TestValidateInput(t *testing.T) {
	valid := map[string]interface{}{
		"shipment": map[string]interface{}{
			"tier":          3,
			"sender":        map[string]interface{}{"city": "London", "country": "GB"},
			"buyer":         map[string]interface{}{"city": "Nice", "country": "FR"},
			"declaredValue": 450,
			"weightKg":      2.5,
		},
		"sessionHardCap": 8,
		"forceRefresh":   false,
		"unrelatedVar":   "left alone",
	}
	assert.NoError(t, ValidateInput(valid))

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing shipment", func(v map[string]interface{}) { delete(v, "shipment") }},
		{"unsupported tier", func(v map[string]interface{}) {
			v["shipment"].(map[string]interface{})["tier"] = 1
		}},
		{"missing buyer city", func(v map[string]interface{}) {
			v["shipment"].(map[string]interface{})["buyer"] = map[string]interface{}{"country": "FR"}
		}},
		{"zero hard cap", func(v map[string]interface{}) { v["sessionHardCap"] = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variables := map[string]interface{}{
				"shipment": map[string]interface{}{
					"tier":          3,
					"sender":        map[string]interface{}{"city": "London", "country": "GB"},
					"buyer":         map[string]interface{}{"city": "Nice", "country": "FR"},
					"declaredValue": 450,
				},
				"sessionHardCap": 8,
			}
			tt.mutate(variables)

			err := ValidateInput(variables)
			require.Error(t, err)
			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	handler := newTestHandler(t, nil)

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: `{
		"shipment": {
			"id": "SHP-001",
			"tier": 3,
			"sender": {"city": "London", "country": "GB"},
			"buyer": {"city": "Nice", "country": "FR"},
			"declaredValue": "450",
			"weightKg": 2.5,
			"slaTargetDate": "2026-09-28T00:00:00Z"
		},
		"sessionHardCap": 8,
		"forceRefresh": true
	}`}}

	input, err := handler.parseInput(job)
	require.NoError(t, err)
	assert.Equal(t, "SHP-001", input.Shipment.ID)
	assert.Equal(t, models.Tier3, input.Shipment.Tier)
	assert.Equal(t, "Nice", input.Shipment.Buyer.City)
	assert.True(t, input.Shipment.DeclaredValue.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, 8, input.SessionHardCap)
	assert.True(t, input.ForceRefresh)
}

func TestHandler_ParseInputRejectsBadPayload(t *testing.T) {
	handler := newTestHandler(t, nil)

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: `{"shipment": {"tier": 9}}`}}
	_, err := handler.parseInput(job)
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
}

func TestHandler_Execute(t *testing.T) {
	handler := newTestHandler(t, nil)

	input := &Input{
		Shipment: models.Shipment{
			ID:                "SHP-002",
			Tier:              models.Tier3,
			Sender:            models.Party{City: "London", Country: "GB"},
			Buyer:             models.Party{City: "Nice", Country: "FR"},
			DeclaredValue:     decimal.NewFromInt(450),
			WeightKG:          2.5,
			PickupWindowStart: time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC),
			SLATargetDate:     time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC),
		},
		SessionHardCap: 8,
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, output.RouteOptions, 3)
	assert.Equal(t, 8, output.SessionReport.HardCap)
	assert.False(t, output.CalculatedAt.IsZero())
}

func TestHandler_ExecuteValidationFailure(t *testing.T) {
	handler := newTestHandler(t, nil)

	input := &Input{Shipment: models.Shipment{Tier: models.Tier3, Sender: models.Party{City: "London"}}}
	_, err := handler.Execute(context.Background(), input)
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
}

func TestService_LoadsSnapshotWhenNoneInline(t *testing.T) {
	var snapshot []models.Hub
	for _, h := range pricebook.Defaults() {
		if h.ID != "HUB-MIL-01" {
			h.Active = false
		}
		snapshot = append(snapshot, h)
	}
	loader := &stubSnapshotLoader{hubs: snapshot}
	handler := newTestHandler(t, loader)

	input := &Input{
		Shipment: models.Shipment{
			ID:            "SHP-003",
			Tier:          models.Tier3,
			Sender:        models.Party{City: "London", Country: "GB"},
			Buyer:         models.Party{City: "Nice", Country: "FR"},
			DeclaredValue: decimal.NewFromInt(450),
			WeightKG:      2,
			SLATargetDate: time.Now().AddDate(0, 1, 0),
		},
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)
	require.NotEmpty(t, output.RouteOptions)
	for _, option := range output.RouteOptions {
		assert.Equal(t, "HUB-MIL-01", option.HubID)
	}
}

func TestService_InlineSnapshotSkipsLoader(t *testing.T) {
	loader := &stubSnapshotLoader{}
	handler := newTestHandler(t, loader)

	input := &Input{
		Shipment: models.Shipment{
			ID:            "SHP-004",
			Tier:          models.Tier2,
			Sender:        models.Party{City: "Paris", Country: "FR"},
			Buyer:         models.Party{City: "Lyon", Country: "FR"},
			DeclaredValue: decimal.NewFromInt(300),
			WeightKG:      1,
			SLATargetDate: time.Now().AddDate(0, 1, 0),
		},
		HubSnapshot: pricebook.Defaults(),
	}

	_, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Zero(t, loader.calls)
}

func TestService_SnapshotLoadFailurePropagates(t *testing.T) {
	loader := &stubSnapshotLoader{err: errors.NewSnapshotLoadFailedError(assert.AnError)}
	handler := newTestHandler(t, loader)

	input := &Input{
		Shipment: models.Shipment{
			Tier:          models.Tier2,
			Sender:        models.Party{City: "Paris", Country: "FR"},
			Buyer:         models.Party{City: "Lyon", Country: "FR"},
			DeclaredValue: decimal.NewFromInt(300),
		},
	}

	_, err := handler.Execute(context.Background(), input)
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSnapshotLoadFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
