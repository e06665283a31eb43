package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// PostgresStore записи отправок и журнал в Postgres; документы лежат в jsonb целиком.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

func (r *PostgresStore) GetRecord(ctx context.Context, freightOrderID string) (domain.PersistedShipmentRecord, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `SELECT payload FROM shipment_records WHERE freight_order_id = $1`, freightOrderID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PersistedShipmentRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PersistedShipmentRecord{}, err
	}
	var rec domain.PersistedShipmentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.PersistedShipmentRecord{}, fmt.Errorf("decode record %s: %w", freightOrderID, err)
	}
	return rec, nil
}

func (r *PostgresStore) PutRecord(ctx context.Context, rec domain.PersistedShipmentRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = r.Pool.Exec(ctx, `INSERT INTO shipment_records(freight_order_id, status, payload, updated_at) VALUES($1, $2, $3, now())
        ON CONFLICT (freight_order_id) DO UPDATE SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = now()`,
		rec.FreightOrderID, string(rec.Status), raw)
	return err
}

func (r *PostgresStore) PutLog(ctx context.Context, e domain.LogEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = r.Pool.Exec(ctx, `INSERT INTO shipment_logs(id, freight_order_id, process, status, payload, created_at) VALUES($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, payload = EXCLUDED.payload`,
		e.ID, e.FreightOrderID, string(e.Process), string(e.Status), raw, e.CreatedAt)
	return err
}

func (r *PostgresStore) GetLog(ctx context.Context, id string) (domain.LogEntry, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `SELECT payload FROM shipment_logs WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LogEntry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.LogEntry{}, err
	}
	var e domain.LogEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.LogEntry{}, fmt.Errorf("decode log %s: %w", id, err)
	}
	return e, nil
}

// LogsFor журнал заказа от новых записей к старым.
func (r *PostgresStore) LogsFor(ctx context.Context, freightOrderID string) ([]domain.LogEntry, error) {
	rows, err := r.Pool.Query(ctx, `SELECT payload FROM shipment_logs WHERE freight_order_id = $1 ORDER BY created_at DESC`, freightOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.LogEntry
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var e domain.LogEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			// битую строку пропускаем
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var (
	_ domain.RecordStore = (*PostgresStore)(nil)
	_ domain.AuditLog    = (*PostgresStore)(nil)
)

// EnsureSchema создаёт таблицы, если их нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shipment_records (
  freight_order_id text PRIMARY KEY,
  status text NOT NULL,
  payload jsonb NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS shipment_logs (
  id text PRIMARY KEY,
  freight_order_id text NOT NULL,
  process text NOT NULL,
  status text NOT NULL,
  payload jsonb NOT NULL,
  created_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS shipment_logs_freight_order_idx ON shipment_logs (freight_order_id, created_at);`)
	return err
}
