package domain

// ServiceLevel класс скорости доставки WorldTrak.
type ServiceLevel string

const (
	ServiceNextDay   ServiceLevel = "ND"
	ServiceTwoDay    ServiceLevel = "2D"
	ServiceThreeDayA ServiceLevel = "3A"
	ServiceThreeDay  ServiceLevel = "3D"
	ServiceFourDay   ServiceLevel = "4D"
	ServiceEconomy   ServiceLevel = "EC"
	ServiceExtended  ServiceLevel = "E7"
	ServiceHotShot   ServiceLevel = "HS"
)

// ShipmentPayload материализованная отправка для одной пары остановок.
// Встроенные структуры раскрываются плоско в oShipData при XML-сериализации.
type ShipmentPayload struct {
	Header
	Parties
	References []Reference `json:"references" xml:"ReferenceList>NewShipmentRefsV3"`
	Lines      []LineItem  `json:"lines" xml:"ShipmentLineList>NewShipmentDimLineV3"`
	Dates
	ServiceLevel ServiceLevel `json:"serviceLevel" xml:"ServiceLevel"`
}

type Header struct {
	DelBy               string `json:"delBy" xml:"DelBy"`
	DeclaredType        string `json:"declaredType" xml:"DeclaredType"`
	CustomerNo          int    `json:"customerNo" xml:"CustomerNo"`
	PayType             int    `json:"payType" xml:"PayType"`
	ShipmentType        string `json:"shipmentType" xml:"ShipmentType"`
	IncoTermsCode       string `json:"incoTermsCode" xml:"IncoTermsCode"`
	SpecialInstructions string `json:"specialInstructions" xml:"SpecialInstructions"`
	Mode                string `json:"mode,omitempty" xml:"Mode,omitempty"`
}

type Parties struct {
	Station          string `json:"station" xml:"Station"`
	ShipperName      string `json:"shipperName" xml:"ShipperName"`
	ShipperAddress1  string `json:"shipperAddress1" xml:"ShipperAddress1"`
	ShipperCity      string `json:"shipperCity" xml:"ShipperCity"`
	ShipperState     string `json:"shipperState" xml:"ShipperState"`
	ShipperCountry   string `json:"shipperCountry" xml:"ShipperCountry"`
	ShipperZip       string `json:"shipperZip" xml:"ShipperZip"`
	ShipperPhone     string `json:"shipperPhone" xml:"ShipperPhone"`
	ShipperFax       string `json:"shipperFax" xml:"ShipperFax"`
	ShipperEmail     string `json:"shipperEmail" xml:"ShipperEmail"`
	ConsigneeName    string `json:"consigneeName" xml:"ConsigneeName"`
	ConsigneeAddress string `json:"consigneeAddress1" xml:"ConsigneeAddress1"`
	ConsigneeCity    string `json:"consigneeCity" xml:"ConsigneeCity"`
	ConsigneeState   string `json:"consigneeState" xml:"ConsigneeState"`
	ConsigneeCountry string `json:"consigneeCountry" xml:"ConsigneeCountry"`
	ConsigneeZip     string `json:"consigneeZip" xml:"ConsigneeZip"`
	ConsigneePhone   string `json:"consigneePhone" xml:"ConsigneePhone"`
	ConsigneeFax     string `json:"consigneeFax" xml:"ConsigneeFax"`
	ConsigneeEmail   string `json:"consigneeEmail" xml:"ConsigneeEmail"`
	BillToAcct       string `json:"billToAcct" xml:"BillToAcct"`
}

type Reference struct {
	ReferenceNo  string `json:"referenceNo" xml:"ReferenceNo"`
	CustomerType string `json:"customerType" xml:"CustomerTypeV3"`
	RefTypeID    string `json:"refTypeId" xml:"RefTypeId"`
}

// LineItem строка габаритов. Имя поля Weigth задано схемой WorldTrak.
type LineItem struct {
	PieceType   string  `json:"pieceType" xml:"PieceType"`
	Description string  `json:"description" xml:"Description"`
	Hazmat      int     `json:"hazmat" xml:"Hazmat"`
	Weight      float64 `json:"weight" xml:"Weigth"`
	WeightUOM   string  `json:"weightUom" xml:"WeightUOMV3"`
	Pieces      float64 `json:"pieces" xml:"Pieces"`
	Length      float64 `json:"length" xml:"Length"`
	DimUOM      string  `json:"dimUom" xml:"DimUOMV3"`
	Width       float64 `json:"width" xml:"Width"`
	Height      float64 `json:"height" xml:"Height"`
}

type Dates struct {
	ReadyDate     string `json:"readyDate" xml:"ReadyDate"`
	ReadyTime     string `json:"readyTime" xml:"ReadyTime"`
	CloseTime     string `json:"closeTime" xml:"CloseTime"`
	DeliveryDate  string `json:"deliveryDate" xml:"DeliveryDate"`
	DeliveryTime  string `json:"deliveryTime" xml:"DeliveryTime"`
	DeliveryTime2 string `json:"deliveryTime2" xml:"DeliveryTime2"`
}

// GroupPayload построенная отправка вместе с ключом группы.
type GroupPayload struct {
	StopID  string          `json:"stopId"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Payload ShipmentPayload `json:"payload"`
}
