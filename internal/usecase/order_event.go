package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/shipment"
)

// WorldTrakLayout формат дат в потоке изменений WorldTrak.
const WorldTrakLayout = "2006-01-02 15:04:05.000"

// StatusEvent изменение статуса накладной в WorldTrak.
type StatusEvent struct {
	FreightOrderID string `json:"freightOrderId"`
	Housebill      string `json:"housebill"`
	StatusCode     string `json:"statusCode"`
	EventDateTime  string `json:"eventDateTime"`
}

// SendOrderEvent пересылает в LBN события исполнения заказа.
type SendOrderEvent struct {
	Records   domain.RecordStore
	Documents domain.DocumentStore
	Network   domain.NetworkGateway
	Journal   Journal
}

// Execute обработчик очереди статусов.
func (uc SendOrderEvent) Execute(ctx context.Context, raw []byte) error {
	var ev StatusEvent
	var stepErr error
	if err := json.Unmarshal(raw, &ev); err != nil {
		stepErr = domain.Validationf("decode status event: %v", err)
	}
	entry := uc.Journal.Begin(domain.ProcessOrderEvent, ev.FreightOrderID, raw)
	if stepErr == nil {
		stepErr = uc.run(ctx, &entry, ev)
	}
	return uc.Journal.Finish(ctx, &entry, stepErr)
}

func (uc SendOrderEvent) run(ctx context.Context, entry *domain.LogEntry, ev StatusEvent) error {
	status := strings.ToUpper(strings.TrimSpace(ev.StatusCode))
	mapping, ok := shipment.EventFor(status)
	if !ok {
		return domain.Skipf("status %q has no order event", ev.StatusCode)
	}
	entry.Housebills = []string{ev.Housebill}

	rec, err := uc.Records.GetRecord(ctx, ev.FreightOrderID)
	if err != nil {
		return err
	}
	detail, ok := rec.FindByHousebill(ev.Housebill)
	if !ok {
		return domain.Skipf("housebill %s does not belong to freight order %s", ev.Housebill, ev.FreightOrderID)
	}

	at, err := parseWorldTrakTime(ev.EventDateTime)
	if err != nil {
		return err
	}
	out := domain.OrderEvent{
		FreightOrderID:     rec.FreightOrderID,
		OrderingPartyLbnID: rec.OrderingPartyLbnID,
		CarrierPartyLbnID:  rec.CarrierPartyLbnID,
		Housebill:          ev.Housebill,
		EventType:          mapping.EventType,
		EventCategory:      string(mapping.Category),
		StopID:             stopFor(detail, mapping.Stop),
		EventDateTime:      shipment.CentralToUTC(at),
	}

	if rule, ok := shipment.DocumentsFor(status); ok {
		docs, err := uc.Documents.GetDocuments(ctx, ev.Housebill, rule.DocType)
		if err != nil {
			return domain.Downstream("websli", err)
		}
		for _, d := range docs {
			out.Attachments = append(out.Attachments, pdfAttachment(d))
		}
	}

	token, err := uc.Network.Token(ctx)
	if err != nil {
		return domain.Downstream("lbn", err)
	}
	if err := uc.Network.SendOrderEvent(ctx, token, out); err != nil {
		return domain.Downstream("lbn", err)
	}
	return nil
}

func stopFor(d domain.ShipmentDetail, role shipment.StopRole) string {
	if role == shipment.StopShipper {
		return d.From
	}
	return d.To
}

func parseWorldTrakTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(WorldTrakLayout, s)
	if err != nil {
		return time.Time{}, domain.Validationf("bad date %q: %v", s, err)
	}
	return t, nil
}
