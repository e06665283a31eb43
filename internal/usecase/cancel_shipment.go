package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// CancelShipment отменяет в WorldTrak все накладные заказа. Запись только помечается
// отменённой и никогда не удаляется.
type CancelShipment struct {
	Records domain.RecordStore
	TMS     domain.TMSGateway
	Journal Journal
}

func (uc CancelShipment) Execute(ctx context.Context, freightOrderID string, raw []byte) (Result, error) {
	entry := uc.Journal.Begin(domain.ProcessCancel, freightOrderID, raw)
	stepErr := uc.run(ctx, &entry, freightOrderID)
	if err := uc.Journal.Finish(ctx, &entry, stepErr); err != nil {
		return resultOf(entry), err
	}
	return resultOf(entry), stepErr
}

func (uc CancelShipment) run(ctx context.Context, entry *domain.LogEntry, freightOrderID string) error {
	if freightOrderID == "" {
		return domain.Validationf("FreightOrderId is required")
	}
	rec, err := uc.Records.GetRecord(ctx, freightOrderID)
	if err != nil {
		return err
	}
	pending := rec.Housebills()
	entry.Housebills = append(append([]string(nil), rec.CancelledHousebills...), pending...)
	entry.FileNumbers = rec.FileNumbers()
	if !rec.Active() {
		return domain.Skipf("freight order %s is already cancelled", freightOrderID)
	}

	entry.Responses = make(map[string]string, len(entry.Housebills))
	for _, hb := range rec.CancelledHousebills {
		entry.Responses[hb] = "cancelled"
	}
	var errs []error
	for _, hb := range pending {
		ok, err := uc.TMS.CancelShipment(ctx, hb)
		switch {
		case err != nil:
			entry.Responses[hb] = err.Error()
			errs = append(errs, fmt.Errorf("cancel housebill %s: %w", hb, err))
		case !ok:
			entry.Responses[hb] = "rejected"
			errs = append(errs, domain.Downstream("worldtrak", fmt.Errorf("cancel housebill %s was rejected", hb)))
		default:
			entry.Responses[hb] = "cancelled"
			// Прогресс фиксируется сразу: повтор не отменяет накладную второй раз.
			rec.MarkCancelled(hb)
			rec.UpdatedAt = uc.Journal.now()
			if err := uc.Records.PutRecord(ctx, rec); err != nil {
				return err
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	rec.Status = domain.RecordCancelled
	rec.UpdatedAt = uc.Journal.now()
	return uc.Records.PutRecord(ctx, rec)
}
