package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

var fixedNow = time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeRecords struct {
	mu      sync.Mutex
	records map[string]domain.PersistedShipmentRecord
	puts    int
	putErr  error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: map[string]domain.PersistedShipmentRecord{}}
}

func (f *fakeRecords) GetRecord(_ context.Context, id string) (domain.PersistedShipmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return domain.PersistedShipmentRecord{}, domain.ErrNotFound
	}
	rec.Shipments = append([]domain.ShipmentDetail(nil), rec.Shipments...)
	rec.CancelledHousebills = append([]string(nil), rec.CancelledHousebills...)
	return rec, nil
}

func (f *fakeRecords) PutRecord(_ context.Context, rec domain.PersistedShipmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	rec.Shipments = append([]domain.ShipmentDetail(nil), rec.Shipments...)
	rec.CancelledHousebills = append([]string(nil), rec.CancelledHousebills...)
	f.records[rec.FreightOrderID] = rec
	return nil
}

type fakeLog struct {
	mu      sync.Mutex
	entries map[string]domain.LogEntry
}

func newFakeLog() *fakeLog { return &fakeLog{entries: map[string]domain.LogEntry{}} }

func (f *fakeLog) PutLog(_ context.Context, e domain.LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[e.ID] = e
	return nil
}

func (f *fakeLog) GetLog(_ context.Context, id string) (domain.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return domain.LogEntry{}, domain.ErrNotFound
	}
	return e, nil
}

// only возвращает единственную запись журнала.
func (f *fakeLog) only() domain.LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) != 1 {
		panic(fmt.Sprintf("want 1 log entry, got %d", len(f.entries)))
	}
	for _, e := range f.entries {
		return e
	}
	return domain.LogEntry{}
}

type fakeTMS struct {
	mu        sync.Mutex
	next      int
	created   []domain.ShipmentPayload
	cancelled []string
	createErr error
	// failAfter число успешных созданий до ошибки; 0 значит без ограничения.
	failAfter int
	reject    map[string]bool
}

func (f *fakeTMS) CreateShipment(_ context.Context, p domain.ShipmentPayload) (domain.CreatedShipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil && (f.failAfter == 0 || len(f.created) >= f.failAfter) {
		return domain.CreatedShipment{}, f.createErr
	}
	f.next++
	f.created = append(f.created, p)
	return domain.CreatedShipment{
		Housebill:  fmt.Sprintf("HB%03d", f.next),
		FileNumber: fmt.Sprintf("FN%03d", f.next),
	}, nil
}

func (f *fakeTMS) CancelShipment(_ context.Context, housebill string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject[housebill] {
		return false, nil
	}
	f.cancelled = append(f.cancelled, housebill)
	return true, nil
}

type sentConfirmation struct {
	Route domain.Route
	Body  domain.Confirmation
}

type fakeNetwork struct {
	mu            sync.Mutex
	tokenErr      error
	sendErr       error
	confirmations []sentConfirmation
	invoices      []domain.Invoice
	events        []domain.OrderEvent
}

func (f *fakeNetwork) Token(context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "tok", nil
}

func (f *fakeNetwork) SendConfirmation(_ context.Context, token string, r domain.Route, c domain.Confirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != "tok" {
		return errors.New("bad token")
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.confirmations = append(f.confirmations, sentConfirmation{r, c})
	return nil
}

func (f *fakeNetwork) SendInvoice(_ context.Context, _ string, inv domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeNetwork) SendOrderEvent(_ context.Context, _ string, ev domain.OrderEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeDocs struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeDocs) GetDocuments(_ context.Context, housebill, docType string) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, housebill+"/"+docType)
	return []domain.Document{{Filename: housebill + "-" + docType + ".pdf", Base64Content: "JVBER"}}, nil
}

type enqueued struct {
	Subject string
	Job     domain.Job
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []enqueued
	err  error
}

func (f *fakeQueue) Enqueue(_ context.Context, subject string, job domain.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, enqueued{subject, job})
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

// env набор фейков и собранные на них обработчики.
type env struct {
	records  *fakeRecords
	log      *fakeLog
	tms      *fakeTMS
	network  *fakeNetwork
	docs     *fakeDocs
	queue    *fakeQueue
	notifier *fakeNotifier
}

func newEnv() *env {
	return &env{
		records:  newFakeRecords(),
		log:      newFakeLog(),
		tms:      &fakeTMS{},
		network:  &fakeNetwork{},
		docs:     &fakeDocs{},
		queue:    &fakeQueue{},
		notifier: &fakeNotifier{},
	}
}

func (e *env) journal() Journal {
	return Journal{Log: e.log, Notifier: e.notifier, Logger: zap.NewNop(), Now: clock, Function: "test"}
}

func (e *env) dispatcher() Dispatcher {
	return Dispatcher{TMS: e.tms, Records: e.records, Logger: zap.NewNop(), Now: clock}
}

func (e *env) create() CreateShipment {
	return CreateShipment{Records: e.records, Dispatcher: e.dispatcher(), Journal: e.journal(), Queue: e.queue, ConfirmSubject: "confirm"}
}

func (e *env) update() UpdateShipment {
	return UpdateShipment{Records: e.records, Journal: e.journal(), Queue: e.queue, UpdateSubject: "update"}
}

func (e *env) confirm() ConfirmShipment {
	return ConfirmShipment{Records: e.records, Documents: e.docs, Network: e.network, Journal: e.journal()}
}

func (e *env) process() ProcessShipmentUpdate {
	return ProcessShipmentUpdate{Records: e.records, Dispatcher: e.dispatcher(), Confirm: e.confirm(), Journal: e.journal()}
}

func (e *env) cancel() CancelShipment {
	return CancelShipment{Records: e.records, TMS: e.tms, Journal: e.journal()}
}

func (e *env) orderEvent() SendOrderEvent {
	return SendOrderEvent{Records: e.records, Documents: e.docs, Network: e.network, Journal: e.journal()}
}

func (e *env) invoice() SendBillingInvoice {
	return SendBillingInvoice{Records: e.records, Documents: e.docs, Network: e.network, Journal: e.journal()}
}

func stage(from, to, dur string) domain.TransportationStage {
	start := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	return domain.TransportationStage{
		SenderSystemStageID:         from + to,
		LoadingLocation:             domain.Location{ID: from, Address: domain.Address{Name: "Shipper " + from, Country: "US"}},
		UnloadingLocation:           domain.Location{ID: to, Address: domain.Address{Name: "Consignee " + to, Country: "US"}},
		LoadingLocationTimezone:     "CST",
		UnloadingLocationTimezone:   "CST",
		RequestedLoadingTimeStart:   start,
		RequestedLoadingTimeEnd:     start.Add(2 * time.Hour),
		RequestedUnloadingTimeStart: start.Add(24 * time.Hour),
		RequestedUnloadingTimeEnd:   start.Add(26 * time.Hour),
		TotalDuration:               &domain.Quantity{Value: dur},
	}
}

func item(from, to string, weight float64) domain.Item {
	return domain.Item{
		ShipFromLocationID: from,
		ShipToLocationID:   to,
		GrossWeight:        domain.Measurement{Value: weight, Unit: "LBR"},
		Pieces:             domain.Measurement{Value: 1},
	}
}

// twoGroupRequest заказ с группами A-B и C-D.
func twoGroupRequest() domain.ShipmentRequest {
	req := domain.ShipmentRequest{
		FreightOrderID:       "6100001369",
		OrderingPartyLbnID:   "op-1",
		OriginatorID:         "orig-1",
		CarrierPartyLbnID:    "cp-1",
		ShippingTypeCode:     domain.ShippingTypeDomestic,
		TransportationStages: []domain.TransportationStage{stage("A", "B", "PT20H"), stage("C", "D", "PT50H")},
		Items:                []domain.Item{item("A", "B", 10), item("C", "D", 5)},
	}
	req.OrderingParty.Address.EmailAddress = "ops@example.com"
	return req
}
