package shipment

import (
	"strings"
	"time"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

const (
	maxDescription = 35
	// DateLayout смещение уже учтено во времени, поэтому суффикс всегда -00:00.
	DateLayout = "2006-01-02T15:04:05"
	dateSuffix = "-00:00"
)

// BuildHeader поля заголовка отправки.
func BuildHeader(req domain.ShipmentRequest) domain.Header {
	h := domain.Header{
		DelBy:         "Between",
		DeclaredType:  "LL",
		CustomerNo:    1848,
		PayType:       3,
		ShipmentType:  "Shipment",
		IncoTermsCode: req.Incoterm,
	}
	var sb strings.Builder
	for _, n := range req.Notes {
		sb.WriteString(strings.ReplaceAll(n.Text, "<br>", "\n"))
	}
	h.SpecialInstructions = sb.String()
	if mode, ok := ModeFor(req.ShippingTypeCode); ok {
		h.Mode = mode
	}
	return h
}

// BuildParties адресные блоки грузоотправителя и грузополучателя.
func BuildParties(loading, unloading domain.TransportationStage) domain.Parties {
	s := loading.LoadingLocation.Address
	c := unloading.UnloadingLocation.Address
	return domain.Parties{
		Station:          StationFor(s.Country),
		ShipperName:      s.Name,
		ShipperAddress1:  streetLine(s),
		ShipperCity:      s.City,
		ShipperState:     s.Region,
		ShipperCountry:   s.Country,
		ShipperZip:       s.PostalCode,
		ShipperPhone:     s.PhoneNumber.String(),
		ShipperFax:       s.FaxNumber.String(),
		ShipperEmail:     s.EmailAddress,
		ConsigneeName:    c.Name,
		ConsigneeAddress: streetLine(c),
		ConsigneeCity:    c.City,
		ConsigneeState:   c.Region,
		ConsigneeCountry: c.Country,
		ConsigneeZip:     c.PostalCode,
		ConsigneePhone:   c.PhoneNumber.String(),
		ConsigneeFax:     c.FaxNumber.String(),
		ConsigneeEmail:   c.EmailAddress,
		BillToAcct:       BillToFor(c.Country),
	}
}

func streetLine(a domain.Address) string {
	return strings.TrimSpace(a.House + " " + a.Street)
}

// BuildReferences фиксированный упорядоченный список ссылок. Пустые значения не отбрасываются.
func BuildReferences(loading, unloading domain.TransportationStage, freightOrderID string) []domain.Reference {
	return []domain.Reference{
		{ReferenceNo: loading.SenderSystemStageID, CustomerType: "Shipper", RefTypeID: "DL#"},
		{ReferenceNo: loading.LoadingLocation.ID, CustomerType: "Shipper", RefTypeID: "STP"},
		{ReferenceNo: unloading.UnloadingLocation.ID, CustomerType: "Consignee", RefTypeID: "STP"},
		{ReferenceNo: freightOrderID, CustomerType: "BillTo", RefTypeID: "SID"},
	}
}

func BuildLines(items []domain.Item) []domain.LineItem {
	lines := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		// Опасным считается всё, что явно не помечено как безопасное.
		hazmat := 1
		if it.DangerousGoods != nil && !*it.DangerousGoods {
			hazmat = 0
		}
		lines = append(lines, domain.LineItem{
			PieceType:   it.PackageTypeCode,
			Description: truncate(it.Description, maxDescription),
			Hazmat:      hazmat,
			Weight:      it.GrossWeight.Value,
			WeightUOM:   WeightUnit(it.GrossWeight.Unit),
			Pieces:      it.Pieces.Value,
			Length:      it.Length.Value,
			DimUOM:      DimUnit(it.Length.Unit),
			Width:       it.Width.Value,
			Height:      it.Height.Value,
		})
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// BuildDates окна погрузки и выгрузки со смещением часового пояса места.
func BuildDates(loading, unloading domain.TransportationStage) domain.Dates {
	ready := FormatLocal(loading.RequestedLoadingTimeStart, loading.LoadingLocationTimezone)
	closeTime := FormatLocal(loading.RequestedLoadingTimeEnd, loading.LoadingLocationTimezone)
	delivery := FormatLocal(unloading.RequestedUnloadingTimeStart, unloading.UnloadingLocationTimezone)
	deliveryEnd := FormatLocal(unloading.RequestedUnloadingTimeEnd, unloading.UnloadingLocationTimezone)
	return domain.Dates{
		ReadyDate:     ready,
		ReadyTime:     ready,
		CloseTime:     closeTime,
		DeliveryDate:  delivery,
		DeliveryTime:  deliveryEnd,
		DeliveryTime2: deliveryEnd,
	}
}

// FormatLocal сдвигает UTC-время на смещение пояса tz. Нулевое время даёт пустую строку.
func FormatLocal(t time.Time, tz string) string {
	if t.IsZero() {
		return ""
	}
	shifted := t.UTC().Add(time.Duration(HoursAway(tz)) * time.Hour)
	return shifted.Format(DateLayout) + dateSuffix
}
