package domain

// Confirmation ответ перевозчика (carrierResponse) с накладными и этикетками.
type Confirmation struct {
	CarrierPartyLbnID          string              `json:"carrierPartyLbnId"`
	ConfirmationStatus         string              `json:"confirmationStatus"`
	BusinessDocumentReferences []DocumentReference `json:"businessDocumentReferences"`
	Attachments                []Attachment        `json:"attachments"`
}

type DocumentReference struct {
	DocumentID       string `json:"documentId"`
	DocumentTypeCode string `json:"documentTypeCode"`
}

type Attachment struct {
	Name                    string `json:"name,omitempty"`
	FileName                string `json:"fileName,omitempty"`
	MimeCode                string `json:"mimeCode,omitempty"`
	MimeType                string `json:"mimeType,omitempty"`
	FileContentBinaryObject string `json:"fileContentBinaryObject"`
}

// OrderEvent событие исполнения заказа (milestone или exception).
type OrderEvent struct {
	FreightOrderID     string       `json:"freightOrderId"`
	OrderingPartyLbnID string       `json:"orderingPartyLbnId"`
	CarrierPartyLbnID  string       `json:"carrierPartyLbnId"`
	Housebill          string       `json:"housebill"`
	EventType          string       `json:"eventType"`
	EventCategory      string       `json:"eventCategory"`
	StopID             string       `json:"stopId"`
	EventDateTime      string       `json:"eventDateTime"`
	Attachments        []Attachment `json:"attachments,omitempty"`
}

// Invoice счёт перевозчика для LBN.
type Invoice struct {
	CarrierInvoiceID    string        `json:"carrierInvoiceID"`
	InvoiceDate         string        `json:"invoiceDate"`
	GrossAmount         float64       `json:"grossAmount"`
	GrossAmountCurrency string        `json:"grossAmountCurrency"`
	OrderingPartyLbnID  string        `json:"orderingPartyLbnId"`
	CarrierLbnID        string        `json:"carrierLbnId"`
	BaseDocumentType    string        `json:"baseDocumentType"`
	PurchasingParty     string        `json:"purchasingParty"`
	Items               []InvoiceItem `json:"items"`
	Attachments         []Attachment  `json:"attachments"`
}

type InvoiceItem struct {
	GrossAmount           float64          `json:"grossAmount"`
	GrossAmountCurrency   string           `json:"grossAmountCurrency"`
	FreightDocumentID     string           `json:"freightDocumentID"`
	TransportationStageID string           `json:"transportationStageID"`
	PricingElements       []PricingElement `json:"pricingElements"`
}

type PricingElement struct {
	LbnChargeCode       string  `json:"lbnChargeCode"`
	RateAmount          float64 `json:"rateAmount"`
	RateAmountCurrency  string  `json:"rateAmountCurrency"`
	FinalAmount         float64 `json:"finalAmount"`
	FinalAmountCurrency string  `json:"finalAmountCurrency"`
}
