package calculateroute

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/models"
	"aucta-logistics/internal/planner"
)

type Service struct {
	config *Config
	engine *planner.Engine
	hubs   SnapshotLoader
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		engine: deps.Engine,
		hubs:   deps.Hubs,
		logger: deps.Logger,
	}
}

// Execute runs one route calculation. An inline hubSnapshot variable wins
// over the database; with neither, the pricebook defaults carry the
// calculation on their own.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	snapshot := input.HubSnapshot
	if len(snapshot) == 0 && s.hubs != nil {
		loaded, err := s.hubs.LoadSnapshot(ctx, time.Now().UTC())
		if err != nil {
			// Retryable: the snapshot service may recover before the
			// job's retries run out.
			return nil, err
		}
		snapshot = loaded
	}

	result, err := s.engine.Calculate(ctx, &input.Shipment, snapshot, planner.Options{
		HardCap:      input.SessionHardCap,
		ForceRefresh: input.ForceRefresh,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Route calculation completed", map[string]interface{}{
		"shipmentId":   input.Shipment.ID,
		"tier":         int(input.Shipment.Tier),
		"options":      len(result.Options),
		"pricingCalls": result.Report.TotalCalls,
	})

	return &Output{
		RouteOptions:  result.Options,
		SessionReport: result.Report,
		CalculatedAt:  time.Now().UTC(),
	}, nil
}

// HealthCheck verifies the engine can produce options from pure defaults.
func (s *Service) HealthCheck(ctx context.Context) error {
	probe := &models.Shipment{
		ID:            "healthcheck",
		Tier:          models.Tier2,
		Sender:        models.Party{City: "Paris", Country: "FR"},
		Buyer:         models.Party{City: "Lyon", Country: "FR"},
		DeclaredValue: decimal.NewFromInt(100),
		WeightKG:      1,
	}
	_, err := s.engine.Calculate(ctx, probe, nil, planner.Options{HardCap: 1})
	return err
}
