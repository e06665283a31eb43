package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// MemoryStore хранит записи и журнал в памяти процесса. Используется локально и в тестах.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.PersistedShipmentRecord
	logs    map[string]domain.LogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]domain.PersistedShipmentRecord),
		logs:    make(map[string]domain.LogEntry),
	}
}

func (c *MemoryStore) GetRecord(_ context.Context, id string) (domain.PersistedShipmentRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	if !ok {
		return domain.PersistedShipmentRecord{}, domain.ErrNotFound
	}
	// Копия среза, чтобы вызывающий не менял сохранённое состояние.
	rec.Shipments = append([]domain.ShipmentDetail(nil), rec.Shipments...)
	rec.LastUpdateEvents = append([]domain.UpdateEvent(nil), rec.LastUpdateEvents...)
	rec.CancelledHousebills = append([]string(nil), rec.CancelledHousebills...)
	return rec, nil
}

func (c *MemoryStore) PutRecord(_ context.Context, rec domain.PersistedShipmentRecord) error {
	rec.Shipments = append([]domain.ShipmentDetail(nil), rec.Shipments...)
	rec.LastUpdateEvents = append([]domain.UpdateEvent(nil), rec.LastUpdateEvents...)
	rec.CancelledHousebills = append([]string(nil), rec.CancelledHousebills...)
	c.mu.Lock()
	c.records[rec.FreightOrderID] = rec
	c.mu.Unlock()
	return nil
}

func (c *MemoryStore) PutLog(_ context.Context, e domain.LogEntry) error {
	c.mu.Lock()
	c.logs[e.ID] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryStore) GetLog(_ context.Context, id string) (domain.LogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.logs[id]
	if !ok {
		return domain.LogEntry{}, domain.ErrNotFound
	}
	return e, nil
}

// LogsFor журнал заказа от новых записей к старым.
func (c *MemoryStore) LogsFor(_ context.Context, freightOrderID string) ([]domain.LogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.LogEntry
	for _, e := range c.logs {
		if e.FreightOrderID == freightOrderID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var (
	_ domain.RecordStore = (*MemoryStore)(nil)
	_ domain.AuditLog    = (*MemoryStore)(nil)
)
