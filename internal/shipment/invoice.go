package shipment

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// Charge строка AR-сборов WorldTrak по отправке.
type Charge struct {
	Code         string  `json:"code"`
	Total        float64 `json:"total"`
	InvoiceSeqNo string  `json:"invoiceSeqNo"`
	Finalize     bool    `json:"finalize"`
}

// InvoiceInput всё, что нужно для счёта одной отправки.
type InvoiceInput struct {
	ControllingStation string
	Housebill          string
	InvoiceSeqNo       string
	PrintedDate        time.Time
	FreightOrderID     string
	OrderingPartyLbnID string
	CarrierPartyLbnID  string
	PurchasingParty    string
	StageID            string
	Charges            []Charge
}

const currency = "USD"

// CarrierInvoiceID станция + накладная + двузначный номер счёта.
func CarrierInvoiceID(station, housebill, seq string) string {
	if len(seq) < 2 {
		seq = strings.Repeat("0", 2-len(seq)) + seq
	}
	return fmt.Sprintf("%s%s-%s", station, housebill, seq)
}

var postedLayouts = []string{"2006-01-02 15:04:05.000", "2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02"}

// NotPosted счёт без даты проводки или с заглушкой 1900 года.
func NotPosted(postedDateTime string) bool {
	s := strings.TrimSpace(postedDateTime)
	if s == "" {
		return true
	}
	for _, layout := range postedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year() == 1900
		}
	}
	return strings.HasPrefix(s, "1900")
}

// CentralToUTC переводит время WorldTrak (центральное) в UTC: +5 часов в летние недели 11..44, иначе +6.
func CentralToUTC(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	_, week := t.ISOWeek()
	hours := 6
	if week >= 11 && week <= 44 {
		hours = 5
	}
	return t.Add(time.Duration(hours) * time.Hour).UTC().Format("2006-01-02T15:04:05Z")
}

// BuildInvoice собирает счёт; сумма берётся по сборам текущего номера счёта,
// ценовые элементы по финализированным сборам.
func BuildInvoice(in InvoiceInput, docs []domain.Document) domain.Invoice {
	gross := 0.0
	for _, c := range in.Charges {
		if c.InvoiceSeqNo == in.InvoiceSeqNo {
			gross += c.Total
		}
	}
	elements := []domain.PricingElement{}
	for _, c := range in.Charges {
		if !c.Finalize {
			continue
		}
		elements = append(elements, domain.PricingElement{
			LbnChargeCode:       ChargeCodeFor(c.Code),
			RateAmount:          c.Total,
			RateAmountCurrency:  currency,
			FinalAmount:         c.Total,
			FinalAmountCurrency: currency,
		})
	}
	attachment := domain.Attachment{MimeType: "application/pdf"}
	if len(docs) > 0 {
		attachment.FileName = docs[0].Filename
		attachment.FileContentBinaryObject = docs[0].Base64Content
	}
	return domain.Invoice{
		CarrierInvoiceID:    CarrierInvoiceID(in.ControllingStation, in.Housebill, in.InvoiceSeqNo),
		InvoiceDate:         CentralToUTC(in.PrintedDate),
		GrossAmount:         gross,
		GrossAmountCurrency: currency,
		OrderingPartyLbnID:  in.OrderingPartyLbnID,
		CarrierLbnID:        in.CarrierPartyLbnID,
		BaseDocumentType:    "1122",
		PurchasingParty:     in.PurchasingParty,
		Items: []domain.InvoiceItem{{
			GrossAmount:           gross,
			GrossAmountCurrency:   currency,
			FreightDocumentID:     in.FreightOrderID,
			TransportationStageID: in.StageID,
			PricingElements:       elements,
		}},
		Attachments: []domain.Attachment{attachment},
	}
}
