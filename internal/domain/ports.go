package domain

import (
	"context"
	"time"
)

// RecordStore порт персистентности записей о созданных отправках.
type RecordStore interface {
	// GetRecord возвращает ErrNotFound, если заказ ещё не создавался.
	GetRecord(ctx context.Context, freightOrderID string) (PersistedShipmentRecord, error)
	PutRecord(ctx context.Context, rec PersistedShipmentRecord) error
}

// AuditLog порт журнала вызовов.
type AuditLog interface {
	PutLog(ctx context.Context, e LogEntry) error
	GetLog(ctx context.Context, id string) (LogEntry, error)
}

// CreatedShipment номера, которые WorldTrak выдаёт при создании отправки.
type CreatedShipment struct {
	Housebill  string
	FileNumber string
}

// TMSGateway порт устаревшей TMS (WorldTrak). Вызовы создания строго последовательные.
type TMSGateway interface {
	CreateShipment(ctx context.Context, p ShipmentPayload) (CreatedShipment, error)
	CancelShipment(ctx context.Context, housebill string) (bool, error)
}

// Route адресует ответ перевозчика в LBN.
type Route struct {
	OrderingPartyLbnID string
	OriginatorID       string
	FreightOrderID     string
}

// NetworkGateway порт логистической сети LBN.
type NetworkGateway interface {
	Token(ctx context.Context) (string, error)
	SendConfirmation(ctx context.Context, token string, r Route, c Confirmation) error
	SendInvoice(ctx context.Context, token string, inv Invoice) error
	SendOrderEvent(ctx context.Context, token string, ev OrderEvent) error
}

type Document struct {
	Filename      string `json:"filename"`
	Base64Content string `json:"b64str"`
}

// DocumentStore порт хранилища документов по накладной.
type DocumentStore interface {
	// GetDocuments возвращает пустой список, если документов нет.
	GetDocuments(ctx context.Context, housebill, docType string) ([]Document, error)
}

// JobQueue порт очереди фоновых заданий.
type JobQueue interface {
	Enqueue(ctx context.Context, subject string, job Job) error
}

// Job сообщение очереди: ссылка на запись журнала и заказ.
type Job struct {
	LogID          string `json:"logId"`
	FreightOrderID string `json:"freightOrderId"`
}

type Notification struct {
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	CorrelationID  string `json:"correlationId"`
	FreightOrderID string `json:"freightOrderId"`
	Function       string `json:"function"`
}

// Notifier порт оповещения операторов.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// MessageSubscriber порт подписчика на входящие сообщения.
type MessageSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

// Clock источник времени, подменяется в тестах.
type Clock func() time.Time
