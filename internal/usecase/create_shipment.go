package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/shipment"
)

// Result ответ обработчика вызывающему.
type Result struct {
	ID          string        `json:"responseId"`
	Status      domain.Status `json:"status"`
	Message     string        `json:"message"`
	Housebills  []string      `json:"housebills,omitempty"`
	FileNumbers []string      `json:"fileNumbers,omitempty"`
}

func resultOf(e domain.LogEntry) Result {
	msg := e.ErrorMsg
	if msg == "" {
		msg = "Success"
	}
	return Result{ID: e.ID, Status: e.Status, Message: msg, Housebills: e.Housebills, FileNumbers: e.FileNumbers}
}

// CreateShipment создаёт в WorldTrak отправки по новому фрахтовому заказу.
type CreateShipment struct {
	Records        domain.RecordStore
	Dispatcher     Dispatcher
	Journal        Journal
	Queue          domain.JobQueue
	ConfirmSubject string
}

func (uc CreateShipment) Execute(ctx context.Context, req domain.ShipmentRequest, raw []byte) (Result, error) {
	entry := uc.Journal.Begin(domain.ProcessCreate, req.FreightOrderID, raw)
	stepErr := uc.run(ctx, &entry, req)
	if err := uc.Journal.Finish(ctx, &entry, stepErr); err != nil {
		return resultOf(entry), err
	}
	return resultOf(entry), stepErr
}

func (uc CreateShipment) run(ctx context.Context, entry *domain.LogEntry, req domain.ShipmentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	prior, err := loadRecord(ctx, uc.Records, req.FreightOrderID)
	if err != nil {
		return err
	}
	if prior != nil && !prior.Active() {
		prior = nil
	}

	payloads, err := shipment.BuildPayloads(ctx, req, shipment.GroupItems(req.Items))
	if err != nil {
		return err
	}
	entry.Payloads = payloads
	plan := shipment.Reconcile(req.FreightOrderID, payloads, prior)

	if prior != nil {
		entry.Housebills = prior.Housebills()
		entry.FileNumbers = prior.FileNumbers()
		if len(plan.ToRecreate)+len(plan.Obsolete) > 0 {
			return domain.Validationf("freight order %s already has shipments with different details, send an update instead", req.FreightOrderID)
		}
		if len(plan.New) == 0 {
			return domain.Skipf("freight order %s is already created", req.FreightOrderID)
		}
	}

	rec := newRecord(req, uc.Dispatcher.now())
	if prior != nil {
		rec = *prior
	}
	updates, err := uc.Dispatcher.Apply(ctx, &rec, plan)
	entry.ShipmentUpdates = updates
	entry.Housebills = rec.Housebills()
	entry.FileNumbers = rec.FileNumbers()
	if err != nil {
		return err
	}

	job := domain.Job{LogID: entry.ID, FreightOrderID: req.FreightOrderID}
	if err := uc.Queue.Enqueue(ctx, uc.ConfirmSubject, job); err != nil {
		return domain.Downstream("queue", err)
	}
	return nil
}

func newRecord(req domain.ShipmentRequest, now time.Time) domain.PersistedShipmentRecord {
	return domain.PersistedShipmentRecord{
		FreightOrderID:     req.FreightOrderID,
		OrderingPartyLbnID: req.OrderingPartyLbnID,
		OriginatorID:       req.OriginatorID,
		CarrierPartyLbnID:  req.CarrierPartyLbnID,
		Status:             domain.RecordActive,
		Contact:            req.Contact(),
		CreatedAt:          now,
	}
}

// loadRecord возвращает nil без ошибки, если записи нет.
func loadRecord(ctx context.Context, store domain.RecordStore, freightOrderID string) (*domain.PersistedShipmentRecord, error) {
	rec, err := store.GetRecord(ctx, freightOrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
