// internal/hubstore/repository_test.go
package hubstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "aucta-logistics/internal/common/errors"
	"aucta-logistics/internal/common/logger"
)

var snapshotColumns = []string{
	"id", "code", "city", "country", "currency",
	"auth_fee_tier2", "auth_fee_tier3", "sewing_fee", "qa_fee",
	"tag_unit_cost", "nfc_unit_cost", "internal_rollout_cost",
	"auth_available", "auth_total", "sewing_available", "sewing_total",
	"nfc_stock", "tag_stock", "has_sewing_capability", "active",
}

func TestLoadSnapshot_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT h.id").
		WithArgs("2026-09-01").
		WillReturnRows(sqlmock.NewRows(snapshotColumns).
			AddRow("HUB-PAR-01", "PAR1", "Paris", "FR", "EUR",
				85.0, 140.0, 90.0, 35.0, 4.0, 12.0, 45.0,
				18, 24, 8, 12, 140, 260, true, true).
			AddRow("HUB-LON-01", "LON1", "London", "GB", "GBP",
				75.0, 125.0, 0.0, 32.0, 4.0, 11.0, 50.0,
				16, 22, 0, 0, 90, 240, false, true))

	repo := NewRepository(db, logger.NewTestLogger(t))
	hubs, err := repo.LoadSnapshot(context.Background(), date)

	require.NoError(t, err)
	require.Len(t, hubs, 2)
	assert.Equal(t, "HUB-PAR-01", hubs[0].ID)
	assert.True(t, hubs[0].HasSewingCapability)
	assert.Equal(t, 18, hubs[0].Capacity.AuthAvailable)
	assert.Equal(t, "GBP", hubs[1].Currency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_EmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT h.id").
		WillReturnRows(sqlmock.NewRows(snapshotColumns))

	repo := NewRepository(db, logger.NewTestLogger(t))
	hubs, err := repo.LoadSnapshot(context.Background(), time.Now())

	// An empty snapshot is not an error; the caller degrades to defaults.
	require.NoError(t, err)
	assert.Empty(t, hubs)
}

func TestLoadSnapshot_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT h.id").
		WillReturnError(assert.AnError)

	repo := NewRepository(db, logger.NewTestLogger(t))
	_, err = repo.LoadSnapshot(context.Background(), time.Now())

	require.Error(t, err)
	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSnapshotLoadFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
