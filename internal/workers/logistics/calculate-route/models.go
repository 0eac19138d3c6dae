package calculateroute

import (
	"context"
	"time"

	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/models"
	"aucta-logistics/internal/planner"
)

// Input is the variable payload of one route-calculation job.
type Input struct {
	Shipment       models.Shipment `json:"shipment"`
	HubSnapshot    []models.Hub    `json:"hubSnapshot,omitempty"`
	SessionHardCap int             `json:"sessionHardCap,omitempty"`
	ForceRefresh   bool            `json:"forceRefresh,omitempty"`
}

// Output is written back to the process instance on completion.
type Output struct {
	RouteOptions  []models.RouteOption `json:"routeOptions"`
	SessionReport models.SessionReport `json:"sessionReport"`
	CalculatedAt  time.Time            `json:"calculatedAt"`
}

// SnapshotLoader loads the hub capacity snapshot for a calculation date.
// Satisfied by hubstore.Repository.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, date time.Time) ([]models.Hub, error)
}

type ServiceDependencies struct {
	Engine *planner.Engine
	Hubs   SnapshotLoader
	Logger logger.Logger
}
