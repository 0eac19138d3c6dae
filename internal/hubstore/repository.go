// internal/hubstore/repository.go

// Package hubstore is the read-only adapter to the hub-inventory service's
// database. The planner only ever loads snapshots here; reservation
// (atomic capacity/stock decrement) stays with the hub-inventory service.
package hubstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/common/errors"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/models"
)

type Repository struct {
	db  *sql.DB
	log logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

const snapshotQuery = `
SELECT h.id, h.code, h.city, h.country, h.currency,
       h.auth_fee_tier2, h.auth_fee_tier3, h.sewing_fee, h.qa_fee,
       h.tag_unit_cost, h.nfc_unit_cost, h.internal_rollout_cost,
       c.auth_available, c.auth_total, c.sewing_available, c.sewing_total,
       h.nfc_stock, h.tag_stock, h.has_sewing_capability, h.active
FROM hubs h
JOIN hub_capacity c ON c.hub_id = h.id AND c.capacity_date = $1
WHERE h.active = true`

// LoadSnapshot loads per-hub fee, capacity and stock counters for the
// given date. Missing rows are fine; the pricebook defaults cover gaps.
func (r *Repository) LoadSnapshot(ctx context.Context, date time.Time) ([]models.Hub, error) {
	rows, err := r.db.QueryContext(ctx, snapshotQuery, date.Format("2006-01-02"))
	if err != nil {
		return nil, errors.NewSnapshotLoadFailedError(err)
	}
	defer rows.Close()

	var hubs []models.Hub
	for rows.Next() {
		var (
			h                                           models.Hub
			auth2, auth3, sewing, qa, tag, nfc, rollout float64
		)
		err := rows.Scan(
			&h.ID, &h.Code, &h.City, &h.Country, &h.Currency,
			&auth2, &auth3, &sewing, &qa,
			&tag, &nfc, &rollout,
			&h.Capacity.AuthAvailable, &h.Capacity.AuthTotal,
			&h.Capacity.SewingAvailable, &h.Capacity.SewingTotal,
			&h.Inventory.NFCStock, &h.Inventory.TagStock,
			&h.HasSewingCapability, &h.Active,
		)
		if err != nil {
			// A malformed row degrades to the pricebook default for that
			// hub instead of failing the whole snapshot.
			r.log.Warn("skipping malformed hub snapshot row", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		h.Fees = models.FeeSchedule{
			AuthFeeTier2:        decimal.NewFromFloat(auth2),
			AuthFeeTier3:        decimal.NewFromFloat(auth3),
			SewingFee:           decimal.NewFromFloat(sewing),
			QAFee:               decimal.NewFromFloat(qa),
			TagUnitCost:         decimal.NewFromFloat(tag),
			NFCUnitCost:         decimal.NewFromFloat(nfc),
			InternalRolloutCost: decimal.NewFromFloat(rollout),
		}
		hubs = append(hubs, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewSnapshotLoadFailedError(err)
	}

	return hubs, nil
}
