package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/shipment"
)

// Dispatcher исполняет план сверки в WorldTrak строго последовательно.
// Запись сохраняется после каждого успешного шага, поэтому повтор не дублирует созданные отправки.
type Dispatcher struct {
	TMS     domain.TMSGateway
	Records domain.RecordStore
	Logger  *zap.Logger
	Now     domain.Clock
}

func (d Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Apply возвращает итог по всем ключам плана. При первой ошибке оставшиеся ключи
// остаются PENDING, а ошибка возвращается вызывающему.
func (d Dispatcher) Apply(ctx context.Context, rec *domain.PersistedShipmentRecord, plan shipment.Plan) ([]domain.ShipmentUpdate, error) {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	updates := plan.Summary()
	for i, e := range plan.Entries() {
		u := &updates[i]
		if e.Action == domain.ActionUnchanged {
			continue
		}
		if err := d.step(ctx, rec, e, u); err != nil {
			u.Status = domain.StatusFailed
			u.Error = err.Error()
			log.Error("shipment step failed", zap.String("stopId", e.Group.StopID), zap.String("action", string(e.Action)), zap.Error(err))
			return updates, err
		}
		u.Status = domain.StatusSuccess
		log.Info("shipment step done", zap.String("stopId", e.Group.StopID), zap.String("action", string(e.Action)), zap.String("housebill", u.Housebill))
	}
	return updates, nil
}

func (d Dispatcher) step(ctx context.Context, rec *domain.PersistedShipmentRecord, e shipment.Entry, u *domain.ShipmentUpdate) error {
	switch e.Action {
	case domain.ActionObsolete:
		if err := d.cancel(ctx, e.Prior.Housebill); err != nil {
			return err
		}
		rec.Remove(e.Group.StopID)
		return d.persist(ctx, rec)
	case domain.ActionRecreate:
		if e.Prior.Housebill != "" {
			if err := d.cancel(ctx, e.Prior.Housebill); err != nil {
				return err
			}
			cancelled := e.Prior
			cancelled.Housebill = ""
			cancelled.FileNumber = ""
			rec.Upsert(cancelled)
			if err := d.persist(ctx, rec); err != nil {
				return err
			}
		}
		return d.create(ctx, rec, e.Group, u)
	case domain.ActionNew:
		return d.create(ctx, rec, e.Group, u)
	}
	return nil
}

func (d Dispatcher) cancel(ctx context.Context, housebill string) error {
	if housebill == "" {
		return nil
	}
	ok, err := d.TMS.CancelShipment(ctx, housebill)
	if err != nil {
		return fmt.Errorf("cancel housebill %s: %w", housebill, err)
	}
	if !ok {
		return domain.Downstream("worldtrak", fmt.Errorf("cancel housebill %s was rejected", housebill))
	}
	return nil
}

func (d Dispatcher) create(ctx context.Context, rec *domain.PersistedShipmentRecord, g domain.GroupPayload, u *domain.ShipmentUpdate) error {
	created, err := d.TMS.CreateShipment(ctx, g.Payload)
	if err != nil {
		return fmt.Errorf("create shipment %s: %w", g.StopID, err)
	}
	rec.Upsert(domain.ShipmentDetail{
		StopID:     g.StopID,
		From:       g.From,
		To:         g.To,
		Payload:    g.Payload,
		Housebill:  created.Housebill,
		FileNumber: created.FileNumber,
	})
	u.Housebill = created.Housebill
	u.FileNumber = created.FileNumber
	return d.persist(ctx, rec)
}

func (d Dispatcher) persist(ctx context.Context, rec *domain.PersistedShipmentRecord) error {
	rec.UpdatedAt = d.now()
	if err := d.Records.PutRecord(ctx, *rec); err != nil {
		return fmt.Errorf("put record %s: %w", rec.FreightOrderID, err)
	}
	return nil
}
