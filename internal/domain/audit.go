package domain

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusPending Status = "PENDING"
	StatusSkipped Status = "SKIPPED"
)

type Process string

const (
	ProcessCreate         Process = "CREATE"
	ProcessUpdate         Process = "UPDATE"
	ProcessCancel         Process = "CANCEL"
	ProcessConfirmation   Process = "SEND_CONFIRMATION"
	ProcessOrderEvent     Process = "SEND_ORDER_EVENT"
	ProcessBillingInvoice Process = "SEND_BILLING_INVOICE"
)

// LogEntry запись журнала аудита, одна на вызов обработчика.
type LogEntry struct {
	ID              string            `json:"id"`
	Process         Process           `json:"process"`
	Status          Status            `json:"status"`
	FreightOrderID  string            `json:"freightOrderId"`
	CSTDate         string            `json:"cstDate"`
	CSTDateTime     string            `json:"cstDateTime"`
	Event           json.RawMessage   `json:"event,omitempty"`
	ErrorMsg        string            `json:"errorMsg,omitempty"`
	Housebills      []string          `json:"housebills,omitempty"`
	FileNumbers     []string          `json:"fileNumbers,omitempty"`
	Payloads        []GroupPayload    `json:"payloads,omitempty"`
	ShipmentUpdates []ShipmentUpdate  `json:"shipmentUpdates,omitempty"`
	Responses       map[string]string `json:"responses,omitempty"`
	Contact         *Contact          `json:"contact,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// UpdateAction классификация ключа группы при сверке.
type UpdateAction string

const (
	ActionUnchanged UpdateAction = "UNCHANGED"
	ActionRecreate  UpdateAction = "RECREATE"
	ActionNew       UpdateAction = "NEW"
	ActionObsolete  UpdateAction = "OBSOLETE"
)

// ShipmentUpdate итог по одному ключу группы.
type ShipmentUpdate struct {
	StopID           string       `json:"stopId"`
	Action           UpdateAction `json:"action"`
	Status           Status       `json:"status"`
	InitialHousebill string       `json:"initialHousebill,omitempty"`
	InitialFile      string       `json:"initialFileNumber,omitempty"`
	Housebill        string       `json:"housebill,omitempty"`
	FileNumber       string       `json:"fileNumber,omitempty"`
	Diff             string       `json:"diff,omitempty"`
	Error            string       `json:"error,omitempty"`
}
