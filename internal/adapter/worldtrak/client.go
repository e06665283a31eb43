package worldtrak

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

const (
	addShipmentAction = "http://tempuri.org/AddNewShipmentV3"
	tempuri           = "http://tempuri.org/"
	xsiNS             = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS             = "http://www.w3.org/2001/XMLSchema"
	soapNS            = "http://schemas.xmlsoap.org/soap/envelope/"
	cancelStatus      = "CAN"
)

// Client SOAP-клиент WorldTrak: создание отправки и смена статуса накладной.
type Client struct {
	ShipmentURL string
	StatusURL   string
	UserName    string
	Password    string
	HTTP        *http.Client
	Logger      *zap.Logger
}

func New(shipmentURL, statusURL, user, password string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		ShipmentURL: shipmentURL,
		StatusURL:   statusURL,
		UserName:    user,
		Password:    password,
		HTTP:        &http.Client{Timeout: timeout},
		Logger:      log,
	}
}

type authHeader struct {
	Xmlns    string `xml:"xmlns,attr"`
	UserName string `xml:"UserName"`
	Password string `xml:"Password"`
}

type addShipment struct {
	Xmlns    string                 `xml:"xmlns,attr"`
	ShipData domain.ShipmentPayload `xml:"oShipData"`
}

type addEnvelope struct {
	XMLName xml.Name    `xml:"soap12:Envelope"`
	XSI     string      `xml:"xmlns:xsi,attr"`
	XSD     string      `xml:"xmlns:xsd,attr"`
	Soap    string      `xml:"xmlns:soap12,attr"`
	Auth    authHeader  `xml:"soap12:Header>AuthHeader"`
	Body    addShipment `xml:"soap12:Body>AddNewShipmentV3"`
}

type addResult struct {
	Housebill    string `xml:"Housebill"`
	ShipQuoteNo  string `xml:"ShipQuoteNo"`
	ErrorMessage string `xml:"ErrorMessage"`
}

type addResponse struct {
	XMLName xml.Name  `xml:"Envelope"`
	Result  addResult `xml:"Body>AddNewShipmentV3Response>AddNewShipmentV3Result"`
}

type updateStatus struct {
	Xmlns           string `xml:"xmlns,attr"`
	HandlingStation string `xml:"HandlingStation"`
	HAWB            string `xml:"HAWB"`
	UserName        string `xml:"UserName"`
	StatusCode      string `xml:"StatusCode"`
}

type statusEnvelope struct {
	XMLName xml.Name     `xml:"soap:Envelope"`
	XSI     string       `xml:"xmlns:xsi,attr"`
	XSD     string       `xml:"xmlns:xsd,attr"`
	Soap    string       `xml:"xmlns:soap,attr"`
	Body    updateStatus `xml:"soap:Body>UpdateStatus"`
}

type statusResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Result  string   `xml:"Body>UpdateStatusResponse>UpdateStatusResult"`
}

// EncodeShipment SOAP-запрос AddNewShipmentV3 для отправки.
func (c *Client) EncodeShipment(p domain.ShipmentPayload) ([]byte, error) {
	env := addEnvelope{
		XSI:  xsiNS,
		XSD:  xsdNS,
		Soap: soapNS,
		Auth: authHeader{Xmlns: tempuri, UserName: c.UserName, Password: c.Password},
		Body: addShipment{Xmlns: tempuri, ShipData: p},
	}
	return marshal(env)
}

func (c *Client) CreateShipment(ctx context.Context, p domain.ShipmentPayload) (domain.CreatedShipment, error) {
	body, err := c.EncodeShipment(p)
	if err != nil {
		return domain.CreatedShipment{}, err
	}
	raw, err := c.post(ctx, c.ShipmentURL, body, addShipmentAction)
	if err != nil {
		return domain.CreatedShipment{}, err
	}
	var res addResponse
	if err := xml.Unmarshal(raw, &res); err != nil {
		return domain.CreatedShipment{}, domain.Downstream("worldtrak", fmt.Errorf("decode AddNewShipmentV3 response: %w", err))
	}
	r := res.Result
	if msg := strings.TrimSpace(r.ErrorMessage); msg != "" {
		return domain.CreatedShipment{}, domain.Downstream("worldtrak", fmt.Errorf("AddNewShipmentV3: %s", msg))
	}
	if strings.TrimSpace(r.Housebill) == "" {
		return domain.CreatedShipment{}, domain.Downstream("worldtrak", fmt.Errorf("AddNewShipmentV3 returned no housebill"))
	}
	c.logger().Info("shipment created", zap.String("housebill", r.Housebill), zap.String("fileNumber", r.ShipQuoteNo))
	return domain.CreatedShipment{Housebill: strings.TrimSpace(r.Housebill), FileNumber: strings.TrimSpace(r.ShipQuoteNo)}, nil
}

// CancelShipment переводит накладную в статус CAN; false означает отказ WorldTrak.
func (c *Client) CancelShipment(ctx context.Context, housebill string) (bool, error) {
	env := statusEnvelope{
		XSI:  xsiNS,
		XSD:  xsdNS,
		Soap: soapNS,
		Body: updateStatus{Xmlns: tempuri, HAWB: housebill, UserName: c.UserName, StatusCode: cancelStatus},
	}
	body, err := marshal(env)
	if err != nil {
		return false, err
	}
	raw, err := c.post(ctx, c.StatusURL, body, "")
	if err != nil {
		return false, err
	}
	var res statusResponse
	if err := xml.Unmarshal(raw, &res); err != nil {
		return false, domain.Downstream("worldtrak", fmt.Errorf("decode UpdateStatus response: %w", err))
	}
	ok := strings.EqualFold(strings.TrimSpace(res.Result), "true")
	c.logger().Info("housebill status updated", zap.String("housebill", housebill), zap.Bool("ok", ok))
	return ok, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte, action string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Accept", "text/xml")
	if action != "" {
		req.Header.Set("SOAPAction", action)
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, domain.Downstream("worldtrak", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Downstream("worldtrak", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.Downstream("worldtrak", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw)))
	}
	return raw, nil
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func marshal(v any) ([]byte, error) {
	b, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}

func truncate(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max])
	}
	return string(b)
}

var _ domain.TMSGateway = (*Client)(nil)
