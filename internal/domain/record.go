package domain

import "time"

type RecordStatus string

const (
	RecordActive    RecordStatus = "ACTIVE"
	RecordCancelled RecordStatus = "CANCELLED"
)

// PersistedShipmentRecord долговременная запись о созданных в WorldTrak отправках
// одного фрахтового заказа.
type PersistedShipmentRecord struct {
	FreightOrderID     string           `json:"freightOrderId"`
	OrderingPartyLbnID string           `json:"orderingPartyLbnId"`
	OriginatorID       string           `json:"originatorId"`
	CarrierPartyLbnID  string           `json:"carrierPartyLbnId"`
	Status             RecordStatus     `json:"status"`
	Contact            Contact          `json:"contact"`
	Shipments          []ShipmentDetail `json:"shipments"`
	LastUpdateEvents   []UpdateEvent    `json:"lastUpdateEvents,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`

	// CancelledHousebills накладные, уже отменённые в WorldTrak при отмене заказа.
	CancelledHousebills []string `json:"cancelledHousebills,omitempty"`
}

// ShipmentDetail отправка для ключа группы вместе с номерами, выданными WorldTrak.
type ShipmentDetail struct {
	StopID     string          `json:"stopId"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Payload    ShipmentPayload `json:"payload"`
	Housebill  string          `json:"housebill"`
	FileNumber string          `json:"fileNumber"`
}

type UpdateEvent struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
}

func (r *PersistedShipmentRecord) Find(stopID string) (ShipmentDetail, bool) {
	if r == nil {
		return ShipmentDetail{}, false
	}
	for _, d := range r.Shipments {
		if d.StopID == stopID {
			return d, true
		}
	}
	return ShipmentDetail{}, false
}

// FindByHousebill ищет отправку по номеру накладной.
func (r *PersistedShipmentRecord) FindByHousebill(housebill string) (ShipmentDetail, bool) {
	if r == nil {
		return ShipmentDetail{}, false
	}
	for _, d := range r.Shipments {
		if d.Housebill == housebill {
			return d, true
		}
	}
	return ShipmentDetail{}, false
}

// Upsert заменяет отправку с тем же ключом или добавляет новую в конец.
func (r *PersistedShipmentRecord) Upsert(d ShipmentDetail) {
	for i := range r.Shipments {
		if r.Shipments[i].StopID == d.StopID {
			r.Shipments[i] = d
			return
		}
	}
	r.Shipments = append(r.Shipments, d)
}

func (r *PersistedShipmentRecord) Remove(stopID string) {
	out := r.Shipments[:0]
	for _, d := range r.Shipments {
		if d.StopID != stopID {
			out = append(out, d)
		}
	}
	r.Shipments = out
}

func (r *PersistedShipmentRecord) Housebills() []string {
	out := make([]string, 0, len(r.Shipments))
	for _, d := range r.Shipments {
		if d.Housebill != "" {
			out = append(out, d.Housebill)
		}
	}
	return out
}

func (r *PersistedShipmentRecord) FileNumbers() []string {
	out := make([]string, 0, len(r.Shipments))
	for _, d := range r.Shipments {
		if d.FileNumber != "" {
			out = append(out, d.FileNumber)
		}
	}
	return out
}

// MarkCancelled переносит накладную в CancelledHousebills. Отправка остаётся в записи
// без номера накладной, как после отмены при пересоздании.
func (r *PersistedShipmentRecord) MarkCancelled(housebill string) {
	for i := range r.Shipments {
		if r.Shipments[i].Housebill == housebill {
			r.Shipments[i].Housebill = ""
			r.CancelledHousebills = append(r.CancelledHousebills, housebill)
			return
		}
	}
}

// Active сообщает, что запись существует и не отменена.
func (r *PersistedShipmentRecord) Active() bool {
	return r != nil && r.Status != RecordCancelled
}
