package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/usecase"
)

func openStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL is not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(ctx, pool))
	return NewPostgresStore(pool)
}

func TestPostgresStoreRecordRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	id := "test-" + usecase.NewID()

	_, err := s.GetRecord(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)

	rec := domain.PersistedShipmentRecord{
		FreightOrderID: id,
		Status:         domain.RecordActive,
		Shipments: []domain.ShipmentDetail{{
			StopID:    "A-B",
			Housebill: "HB1",
			Payload:   domain.ShipmentPayload{ServiceLevel: domain.ServiceNextDay},
		}},
	}
	require.NoError(t, s.PutRecord(ctx, rec))
	rec.Status = domain.RecordCancelled
	require.NoError(t, s.PutRecord(ctx, rec))

	got, err := s.GetRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordCancelled, got.Status)
	assert.Equal(t, domain.ServiceNextDay, got.Shipments[0].Payload.ServiceLevel)
}

func TestPostgresStoreLogs(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	foID := "test-" + usecase.NewID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := domain.LogEntry{ID: usecase.NewID(), FreightOrderID: foID, Process: domain.ProcessCreate, Status: domain.StatusSuccess, CreatedAt: now}
	second := domain.LogEntry{ID: usecase.NewID(), FreightOrderID: foID, Process: domain.ProcessUpdate, Status: domain.StatusPending, CreatedAt: now.Add(time.Second)}
	require.NoError(t, s.PutLog(ctx, first))
	require.NoError(t, s.PutLog(ctx, second))
	second.Status = domain.StatusSuccess
	require.NoError(t, s.PutLog(ctx, second))

	got, err := s.GetLog(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, got.Status)

	all, err := s.LogsFor(ctx, foID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
}
