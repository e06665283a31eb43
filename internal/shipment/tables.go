package shipment

import "github.com/example/lbn-shipment-sync/internal/domain"

const (
	DefaultStation    = "SFO"
	DefaultBillToAcct = "8061"
	DefaultTimezone   = "CST"
	DefaultWeightUnit = "lb"
	DefaultDimUnit    = "in"
	// DefaultChargeCode код LBN для сборов без сопоставления.
	DefaultChargeCode = "BASE_LTL_FLAT"

	// MaxBandHours верхняя граница таблицы; всё дольше считается E7.
	MaxBandHours = 120
)

var modes = map[domain.ShippingTypeCode]string{
	domain.ShippingTypeDomestic:  "Domestic",
	domain.ShippingTypeTruckload: "Truckload",
}

// ModeFor возвращает режим перевозки; для неизвестного кода ok == false.
func ModeFor(code domain.ShippingTypeCode) (string, bool) {
	m, ok := modes[code]
	return m, ok
}

var timeAway = map[string]int{
	"MST": -1,
	"MDT": -2,
	"HST": -5,
	"HDT": -5,
	"CST": 0,
	"CDT": 0,
	"AST": -3,
	"ADT": -3,
	"EST": 1,
	"EDT": 1,
	"PST": -2,
	"PDT": -2,
}

// HoursAway смещение часового пояса относительно CST. Пустой код трактуется как CST,
// неизвестный даёт ноль.
func HoursAway(tz string) int {
	if tz == "" {
		tz = DefaultTimezone
	}
	return timeAway[tz]
}

var stations = map[string]string{
	"CA": "T09",
	"US": "T06",
}

func StationFor(country string) string {
	if s, ok := stations[country]; ok {
		return s
	}
	return DefaultStation
}

var billTo = map[string]string{
	"CA": "8061",
	"US": "8062",
}

func BillToFor(country string) string {
	if s, ok := billTo[country]; ok {
		return s
	}
	return DefaultBillToAcct
}

func WeightUnit(unit string) string {
	if unit == "LBR" {
		return "lb"
	}
	return DefaultWeightUnit
}

func DimUnit(unit string) string {
	switch unit {
	case "INH":
		return "in"
	case "CMT":
		return "cm"
	}
	return DefaultDimUnit
}

// Band полуинтервал (Min, Max] часов.
type Band struct {
	Min, Max float64
	Level    domain.ServiceLevel
}

// Bands упорядочены: 2D и 3A пересекаются на (28,48], первый совпавший выигрывает.
var Bands = []Band{
	{0, 24, domain.ServiceNextDay},
	{24, 48, domain.ServiceTwoDay},
	{28, 60, domain.ServiceThreeDayA},
	{60, 72, domain.ServiceThreeDay},
	{72, 96, domain.ServiceFourDay},
	{96, 120, domain.ServiceEconomy},
}

// BandFor ищет первый подходящий интервал; пустая строка, если ни один не подошёл.
func BandFor(hours float64) domain.ServiceLevel {
	for _, b := range Bands {
		if hours > b.Min && hours <= b.Max {
			return b.Level
		}
	}
	return ""
}

// StopRole чья остановка указывается в событии.
type StopRole string

const (
	StopShipper   StopRole = "slocid"
	StopConsignee StopRole = "clocid"
)

type EventCategory string

const (
	CategoryMilestone EventCategory = "MILESTONE"
	CategoryException EventCategory = "EXCEPTION"
)

// EventMapping сопоставление статуса WorldTrak событию LBN.
type EventMapping struct {
	EventType string
	Category  EventCategory
	Stop      StopRole
}

type eventRule struct {
	statuses []string
	mapping  EventMapping
}

var milestones = []eventRule{
	{[]string{"PUP", "TTC"}, EventMapping{"DEPARTURE", CategoryMilestone, StopShipper}},
	{[]string{"DEL"}, EventMapping{"ARRIV_DEST", CategoryMilestone, StopConsignee}},
	{[]string{"HAWB"}, EventMapping{"POPU", CategoryMilestone, StopShipper}},
	{[]string{"HCPOD", "POD"}, EventMapping{"POD", CategoryMilestone, StopConsignee}},
	{[]string{"SRS"}, EventMapping{"RETURN", CategoryMilestone, StopShipper}},
	{[]string{"OFD"}, EventMapping{"OUT_FOR_DELIVERY", CategoryMilestone, StopConsignee}},
}

var exceptions = []eventRule{
	{[]string{"APP", "DLE", "SHORT", "REFU", "LAD", "CON"}, EventMapping{"DELIVERY_MISSED", CategoryException, StopConsignee}},
	{[]string{"FTUSP", "INMIL", "BADDA", "FAOUT", "NTDT", "OMNII"}, EventMapping{"TRACKING_ERROR", CategoryException, StopConsignee}},
	{[]string{"MTT", "HUB"}, EventMapping{"MISSED_CONNECTION", CategoryException, StopConsignee}},
	{[]string{"SOS"}, EventMapping{"FORCEOFNATURE", CategoryException, StopConsignee}},
	{[]string{"COS"}, EventMapping{"PACKAGINDAMAGED", CategoryException, StopShipper}},
	{[]string{"CUP", "PUE", "LATEB", "MISCU", "SHI"}, EventMapping{"PICKUP_MISSED", CategoryException, StopShipper}},
	{[]string{"DAM"}, EventMapping{"DAMAGED", CategoryException, StopShipper}},
	{[]string{"LPU", "DEL"}, EventMapping{"LATE_DEPARTURE", CategoryException, StopShipper}},
}

// EventFor ищет статус сначала среди milestone, затем среди exception.
func EventFor(status string) (EventMapping, bool) {
	for _, table := range [][]eventRule{milestones, exceptions} {
		for _, r := range table {
			for _, s := range r.statuses {
				if s == status {
					return r.mapping, true
				}
			}
		}
	}
	return EventMapping{}, false
}

// DocumentRule какие документы прикладываются к событию с данным статусом.
type DocumentRule struct {
	EventType string
	DocType   string
}

var documents = map[string]DocumentRule{
	"HAWB":  {EventType: "POPU", DocType: "HAWB"},
	"HCPOD": {EventType: "POD", DocType: "HCPOD"},
	"POD":   {EventType: "POD", DocType: "HCPOD"},
}

func DocumentsFor(status string) (DocumentRule, bool) {
	r, ok := documents[status]
	return r, ok
}

var chargeCodes = map[string]string{
	"2M":     "ON_CARR_ HL_ M1",
	"3M":     "ON_CARR_HL_M2",
	"4M":     "ON_CARRIAGE_ACC",
	"6M":     "OTHC-Heavy-Lift",
	"AM":     "ADDT_FEE",
	"APPT":   "ARVL_NOTIF_APNT",
	"APPTD":  "ARVL_NOTIF_APNT",
	"ASSIS":  "ADDTN_DRIVER",
	"ATTDL":  "MULT_ATTEM_DEL",
	"ATTPU":  "MULT_ATTEM_DEL",
	"BOB":    "BOBTAIL_CHG",
	"BYDL":   "BEY_FRT_CHG",
	"BYPU":   "BEY_FRT_CHG",
	"CONDL":  "APPL",
	"DEBRI":  "DISPOSAL",
	"DGFEE":  "DGFEE",
	"DOCUM":  "ADD_DOC_CHG",
	"DOC":    "DOC_CHG_DES",
	"DPICKU": "ADDT_PICKUP_FEE",
	"DRU":    "DRIVER_LOAD",
	"FORK":   "OFFLOADING_SITE",
	"FRT":    "",
	"FSC":    "FSC_FLAT",
	"AFSC":   "EXPR_FUEL_SUR",
	"GENIE":  "PRE_CARRIAGE_HL",
	"HAZ":    "HAZARDOUS",
	"HOLDL":  "HOLIDAY",
	"HOT":    "URGENT_DLV",
	"INDEL":  "INSIDE_DELV",
	"INSPU":  "INSIDE_DELV",
	"INTDEL": "ADD_DEL",
	"LAB":    "PARTICIPANT",
	"LIFT":   "LIFTGATE",
	"LIFTD":  "LIFTGATE",
	"LODEL":  "CITY_SURCHG",
	"LOVER":  "LAYOVERS",
	"MISC":   "MISC_CHG",
	"OVER":   "OVER_DIMENSN",
	"PACK":   "AH_PACK_SUR",
	"RESDE":  "RESIDENTIAL_DEL",
	"SAT":    "AFTER_HOURS",
	"SPECD":  "ADD_DEL",
	"SSC":    "SECURITY",
	"STORE":  "ZZWS",
	"TERM":   "TERMINAL_FEE",
	"TRAC":   "TRAILER_RENTAL",
	"WAIT":   "WAITING_CHARGES",
	"WHITE":  "ADD_HANDL_DEST",
	"WSUR":   "HEAVY_WEIGHT",
}

// ChargeCodeFor переводит код сбора WorldTrak в код LBN. FRT и неизвестные коды
// уходят как базовый тариф.
func ChargeCodeFor(code string) string {
	if c := chargeCodes[code]; c != "" {
		return c
	}
	return DefaultChargeCode
}
