package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/shipment"
)

// ProcessShipmentUpdate обработчик очереди обновлений: исполняет отложенный план
// и отправляет подтверждение.
type ProcessShipmentUpdate struct {
	Records    domain.RecordStore
	Dispatcher Dispatcher
	Confirm    ConfirmShipment
	Journal    Journal
}

// Execute возвращает ошибку только если не удалось прочитать или записать журнал,
// тогда сообщение будет доставлено повторно.
func (uc ProcessShipmentUpdate) Execute(ctx context.Context, raw []byte) error {
	log := uc.Journal.logger()
	var job domain.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Warn("bad update job", zap.Error(err))
		return nil
	}
	entry, err := uc.Journal.Log.GetLog(ctx, job.LogID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn("update log not found", zap.String("id", job.LogID))
		return nil
	}
	if err != nil {
		return err
	}
	// Повторная доставка уже обработанного задания.
	if entry.Status != domain.StatusPending {
		log.Info("update already processed", zap.String("id", entry.ID), zap.String("status", string(entry.Status)))
		return nil
	}
	entry.Status = ""
	stepErr := uc.run(ctx, &entry)
	return uc.Journal.Finish(ctx, &entry, stepErr)
}

func (uc ProcessShipmentUpdate) run(ctx context.Context, entry *domain.LogEntry) error {
	rec, err := uc.Records.GetRecord(ctx, entry.FreightOrderID)
	if err != nil {
		return err
	}
	if !rec.Active() {
		return domain.Skipf("freight order %s was cancelled before the update ran", entry.FreightOrderID)
	}

	plan := shipment.Reconcile(entry.FreightOrderID, entry.Payloads, &rec)
	updates, applyErr := uc.Dispatcher.Apply(ctx, &rec, plan)
	entry.ShipmentUpdates = updates
	entry.Housebills = rec.Housebills()
	entry.FileNumbers = rec.FileNumbers()
	if applyErr != nil {
		return applyErr
	}

	if entry.Contact != nil {
		rec.Contact = *entry.Contact
	}
	now := uc.Dispatcher.now()
	rec.LastUpdateEvents = append(rec.LastUpdateEvents, domain.UpdateEvent{ID: entry.ID, Time: now})
	rec.UpdatedAt = now
	if err := uc.Records.PutRecord(ctx, rec); err != nil {
		return err
	}

	if plan.Pending() == 0 {
		return nil
	}
	return uc.Confirm.Send(ctx, rec)
}
