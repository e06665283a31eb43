package usecase

import (
	"context"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/shipment"
)

// UpdateShipment сверяет изменённый заказ с сохранённой записью и ставит изменения в очередь.
type UpdateShipment struct {
	Records       domain.RecordStore
	Journal       Journal
	Queue         domain.JobQueue
	UpdateSubject string
}

func (uc UpdateShipment) Execute(ctx context.Context, req domain.ShipmentRequest, raw []byte) (Result, error) {
	entry := uc.Journal.Begin(domain.ProcessUpdate, req.FreightOrderID, raw)
	stepErr := uc.run(ctx, &entry, req)
	if err := uc.Journal.Finish(ctx, &entry, stepErr); err != nil {
		return resultOf(entry), err
	}
	return resultOf(entry), stepErr
}

func (uc UpdateShipment) run(ctx context.Context, entry *domain.LogEntry, req domain.ShipmentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	prior, err := loadRecord(ctx, uc.Records, req.FreightOrderID)
	if err != nil {
		return err
	}
	if prior == nil || !prior.Active() {
		return domain.Validationf("freight order %s has no active shipments to update", req.FreightOrderID)
	}
	entry.Housebills = prior.Housebills()
	entry.FileNumbers = prior.FileNumbers()

	payloads, err := shipment.BuildPayloads(ctx, req, shipment.GroupItems(req.Items))
	if err != nil {
		return err
	}
	plan := shipment.Reconcile(req.FreightOrderID, payloads, prior)
	contact := req.Contact()
	entry.Payloads = payloads
	entry.ShipmentUpdates = plan.Summary()
	entry.Contact = &contact

	if plan.Pending() == 0 {
		if prior.Contact != contact {
			prior.Contact = contact
			prior.UpdatedAt = uc.Journal.now()
			if err := uc.Records.PutRecord(ctx, *prior); err != nil {
				return err
			}
		}
		return nil
	}

	entry.Status = domain.StatusPending
	if err := uc.Journal.Save(ctx, entry); err != nil {
		return err
	}
	job := domain.Job{LogID: entry.ID, FreightOrderID: req.FreightOrderID}
	if err := uc.Queue.Enqueue(ctx, uc.UpdateSubject, job); err != nil {
		return domain.Downstream("queue", err)
	}
	return nil
}
