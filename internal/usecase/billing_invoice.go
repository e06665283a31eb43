package usecase

import (
	"context"
	"encoding/json"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/shipment"
)

const invoiceDocType = "BI"

// InvoiceEvent проведённый в WorldTrak счёт по накладной.
type InvoiceEvent struct {
	FreightOrderID     string            `json:"freightOrderId"`
	Housebill          string            `json:"housebill"`
	ControllingStation string            `json:"controllingStation"`
	InvoiceSeqNo       string            `json:"invoiceSeqNo"`
	PostedDateTime     string            `json:"postedDateTime"`
	PrintedDateTime    string            `json:"printedDateTime"`
	PurchasingParty    string            `json:"purchasingParty"`
	StageID            string            `json:"transportationStageId"`
	Charges            []shipment.Charge `json:"charges"`
}

type SendBillingInvoice struct {
	Records   domain.RecordStore
	Documents domain.DocumentStore
	Network   domain.NetworkGateway
	Journal   Journal
}

func (uc SendBillingInvoice) Execute(ctx context.Context, raw []byte) error {
	var ev InvoiceEvent
	var stepErr error
	if err := json.Unmarshal(raw, &ev); err != nil {
		stepErr = domain.Validationf("decode invoice event: %v", err)
	}
	entry := uc.Journal.Begin(domain.ProcessBillingInvoice, ev.FreightOrderID, raw)
	if stepErr == nil {
		stepErr = uc.run(ctx, &entry, ev)
	}
	return uc.Journal.Finish(ctx, &entry, stepErr)
}

func (uc SendBillingInvoice) run(ctx context.Context, entry *domain.LogEntry, ev InvoiceEvent) error {
	if shipment.NotPosted(ev.PostedDateTime) {
		return domain.Skipf("invoice %s of housebill %s is not posted", ev.InvoiceSeqNo, ev.Housebill)
	}
	entry.Housebills = []string{ev.Housebill}
	rec, err := uc.Records.GetRecord(ctx, ev.FreightOrderID)
	if err != nil {
		return err
	}
	if _, ok := rec.FindByHousebill(ev.Housebill); !ok {
		return domain.Skipf("housebill %s does not belong to freight order %s", ev.Housebill, ev.FreightOrderID)
	}
	printed, err := parseWorldTrakTime(ev.PrintedDateTime)
	if err != nil {
		return err
	}

	in := shipment.InvoiceInput{
		ControllingStation: ev.ControllingStation,
		Housebill:          ev.Housebill,
		InvoiceSeqNo:       ev.InvoiceSeqNo,
		PrintedDate:        printed,
		FreightOrderID:     rec.FreightOrderID,
		OrderingPartyLbnID: rec.OrderingPartyLbnID,
		CarrierPartyLbnID:  rec.CarrierPartyLbnID,
		PurchasingParty:    ev.PurchasingParty,
		StageID:            ev.StageID,
		Charges:            ev.Charges,
	}
	// Документ счёта в хранилище лежит под номером счёта, а не накладной.
	invoiceID := shipment.CarrierInvoiceID(in.ControllingStation, in.Housebill, in.InvoiceSeqNo)
	docs, err := uc.Documents.GetDocuments(ctx, invoiceID, invoiceDocType)
	if err != nil {
		return domain.Downstream("websli", err)
	}
	inv := shipment.BuildInvoice(in, docs)

	token, err := uc.Network.Token(ctx)
	if err != nil {
		return domain.Downstream("lbn", err)
	}
	if err := uc.Network.SendInvoice(ctx, token, inv); err != nil {
		return domain.Downstream("lbn", err)
	}
	entry.Responses = map[string]string{ev.Housebill: inv.CarrierInvoiceID}
	return nil
}
