package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ShipmentRequest входящий фрахтовый заказ от LBN.
type ShipmentRequest struct {
	FreightOrderID       string                `json:"freightOrderId"`
	OrderingPartyLbnID   string                `json:"orderingPartyLbnId"`
	OriginatorID         string                `json:"originatorId"`
	CarrierPartyLbnID    string                `json:"carrierPartyLbnId"`
	ShippingTypeCode     ShippingTypeCode      `json:"shippingTypeCode"`
	Incoterm             string                `json:"incoterm"`
	Notes                []Note                `json:"notes"`
	OrderingParty        Party                 `json:"orderingParty"`
	TransportationStages []TransportationStage `json:"transportationStages"`
	Items                []Item                `json:"items"`
}

type Note struct {
	Text string `json:"text"`
}

type Party struct {
	Address Address `json:"address"`
}

// TransportationStage одно плечо перевозки loading -> unloading.
type TransportationStage struct {
	SenderSystemStageID         string    `json:"senderSystemStageID"`
	LoadingLocation             Location  `json:"loadingLocation"`
	UnloadingLocation           Location  `json:"unloadingLocation"`
	LoadingLocationTimezone     string    `json:"loadingLocationTimezone"`
	UnloadingLocationTimezone   string    `json:"unloadingLocationTimezone"`
	RequestedLoadingTimeStart   time.Time `json:"requestedLoadingTimeStart"`
	RequestedLoadingTimeEnd     time.Time `json:"requestedLoadingTimeEnd"`
	RequestedUnloadingTimeStart time.Time `json:"requestedUnloadingTimeStart"`
	RequestedUnloadingTimeEnd   time.Time `json:"requestedUnloadingTimeEnd"`
	TotalDuration               *Quantity `json:"totalDuration,omitempty"`
}

// HasDuration сообщает, передана ли длительность ISO-8601 для плеча.
func (s TransportationStage) HasDuration() bool {
	return s.TotalDuration != nil && strings.TrimSpace(s.TotalDuration.Value) != ""
}

type Location struct {
	ID      string  `json:"id"`
	Address Address `json:"address"`
}

type Address struct {
	Name         string      `json:"name"`
	Street       string      `json:"street"`
	House        string      `json:"house"`
	City         string      `json:"city"`
	Region       string      `json:"region"`
	Country      string      `json:"country"`
	PostalCode   string      `json:"postalCode"`
	PhoneNumber  PhoneNumber `json:"phoneNumber"`
	FaxNumber    PhoneNumber `json:"faxNumber"`
	EmailAddress string      `json:"emailAddress"`
}

type PhoneNumber struct {
	CountryDialingCode string `json:"countryDialingCode"`
	AreaID             string `json:"areaId"`
	SubscriberID       string `json:"subscriberId"`
}

// String собирает номер из непустых частей через пробел.
func (p PhoneNumber) String() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.CountryDialingCode, p.AreaID, p.SubscriberID} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Item грузовое место заказа.
type Item struct {
	PackageTypeCode    string      `json:"packageTypeCode"`
	Description        string      `json:"description"`
	DangerousGoods     *bool       `json:"dangerousGoods,omitempty"`
	GrossWeight        Measurement `json:"grossWeight"`
	Pieces             Measurement `json:"pieces"`
	Length             Measurement `json:"length"`
	Width              Measurement `json:"width"`
	Height             Measurement `json:"height"`
	ShipFromLocationID string      `json:"shipFromLocationId"`
	ShipToLocationID   string      `json:"shipToLocationId"`
}

type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Quantity значение в строковом виде, например длительность "PT4H".
type Quantity struct {
	Value string `json:"value"`
}

// ShippingTypeCode код типа перевозки; LBN присылает его то числом, то строкой.
type ShippingTypeCode int

const (
	ShippingTypeDomestic  ShippingTypeCode = 17
	ShippingTypeTruckload ShippingTypeCode = 18
)

func (c *ShippingTypeCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*c = ShippingTypeCode(n)
	return nil
}

func (c ShippingTypeCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(c)))
}

// Validate проверяет обязательные идентификаторы до любых обращений наружу.
func (r ShipmentRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.FreightOrderID) == "" {
		missing = append(missing, "FreightOrderId")
	}
	if strings.TrimSpace(r.OrderingPartyLbnID) == "" {
		missing = append(missing, "OrderingPartyLbnId")
	}
	if strings.TrimSpace(r.CarrierPartyLbnID) == "" {
		missing = append(missing, "CarrierPartyLbnId")
	}
	if len(missing) > 0 {
		return Validationf("%s is missing in the request, please add the details in the request", strings.Join(missing, " or "))
	}
	if len(r.Items) == 0 {
		return Validationf("request has no items")
	}
	return nil
}

// Contact контактные данные заказчика, переносимые в записи WorldTrak.
type Contact struct {
	CallInPhone       string `json:"callInPhone"`
	CallInFax         string `json:"callInFax"`
	QuoteContactEmail string `json:"quoteContactEmail"`
}

func (r ShipmentRequest) Contact() Contact {
	a := r.OrderingParty.Address
	return Contact{
		CallInPhone:       a.PhoneNumber.String(),
		CallInFax:         a.FaxNumber.String(),
		QuoteContactEmail: a.EmailAddress,
	}
}
