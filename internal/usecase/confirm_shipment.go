package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// Типы документов, которые прикладываются к ответу перевозчика.
var confirmationDocTypes = []string{"HOUSEBILL", "LABEL"}

const (
	confirmationStatus = "CN"
	housebillDocType   = "T51"
)

// ConfirmShipment отправляет в LBN ответ перевозчика с накладными и этикетками.
type ConfirmShipment struct {
	Records   domain.RecordStore
	Documents domain.DocumentStore
	Network   domain.NetworkGateway
	Journal   Journal
}

// Execute обработчик очереди подтверждений.
func (uc ConfirmShipment) Execute(ctx context.Context, raw []byte) error {
	var job domain.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		uc.Journal.logger().Warn("bad confirmation job", zap.Error(err))
		return nil
	}
	entry := uc.Journal.Begin(domain.ProcessConfirmation, job.FreightOrderID, raw)
	stepErr := uc.run(ctx, &entry, job)
	return uc.Journal.Finish(ctx, &entry, stepErr)
}

func (uc ConfirmShipment) run(ctx context.Context, entry *domain.LogEntry, job domain.Job) error {
	rec, err := uc.Records.GetRecord(ctx, job.FreightOrderID)
	if err != nil {
		return err
	}
	entry.Housebills = rec.Housebills()
	entry.FileNumbers = rec.FileNumbers()
	if !rec.Active() {
		return domain.Skipf("freight order %s is cancelled", rec.FreightOrderID)
	}
	return uc.Send(ctx, rec)
}

// Send собирает подтверждение по всем накладным записи и отправляет его.
func (uc ConfirmShipment) Send(ctx context.Context, rec domain.PersistedShipmentRecord) error {
	housebills := rec.Housebills()
	if len(housebills) == 0 {
		return domain.Skipf("freight order %s has no housebills to confirm", rec.FreightOrderID)
	}

	// docs[i][j] документы накладной i типа j; порядок сохраняется независимо от порядка ответов.
	docs := make([][][]domain.Document, len(housebills))
	g, gctx := errgroup.WithContext(ctx)
	for i, hb := range housebills {
		docs[i] = make([][]domain.Document, len(confirmationDocTypes))
		for j, docType := range confirmationDocTypes {
			g.Go(func() error {
				d, err := uc.Documents.GetDocuments(gctx, hb, docType)
				if err != nil {
					return domain.Downstream("websli", fmt.Errorf("%s %s: %w", docType, hb, err))
				}
				docs[i][j] = d
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c := BuildConfirmation(rec.CarrierPartyLbnID, housebills, docs)
	token, err := uc.Network.Token(ctx)
	if err != nil {
		return domain.Downstream("lbn", err)
	}
	route := domain.Route{
		OrderingPartyLbnID: rec.OrderingPartyLbnID,
		OriginatorID:       rec.OriginatorID,
		FreightOrderID:     rec.FreightOrderID,
	}
	if err := uc.Network.SendConfirmation(ctx, token, route, c); err != nil {
		return domain.Downstream("lbn", err)
	}
	return nil
}

// BuildConfirmation docs индексируется как docs[накладная][тип документа].
func BuildConfirmation(carrier string, housebills []string, docs [][][]domain.Document) domain.Confirmation {
	c := domain.Confirmation{
		CarrierPartyLbnID:          carrier,
		ConfirmationStatus:         confirmationStatus,
		BusinessDocumentReferences: make([]domain.DocumentReference, 0, len(housebills)),
		Attachments:                []domain.Attachment{},
	}
	for i, hb := range housebills {
		c.BusinessDocumentReferences = append(c.BusinessDocumentReferences, domain.DocumentReference{
			DocumentID:       hb,
			DocumentTypeCode: housebillDocType,
		})
		if i >= len(docs) {
			continue
		}
		for _, byType := range docs[i] {
			for _, d := range byType {
				c.Attachments = append(c.Attachments, pdfAttachment(d))
			}
		}
	}
	return c
}

func pdfAttachment(d domain.Document) domain.Attachment {
	return domain.Attachment{
		Name:                    d.Filename,
		FileName:                d.Filename,
		MimeCode:                "application/pdf",
		MimeType:                "application/pdf",
		FileContentBinaryObject: d.Base64Content,
	}
}
