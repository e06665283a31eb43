package lbn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// Credentials заголовки, которые LBN требует при выдаче токена.
type Credentials struct {
	Username      string
	Password      string
	Authorization string
}

// Client HTTP-клиент логистической сети LBN.
type Client struct {
	TokenURL   string
	SendURL    string
	InvoiceURL string
	EventURL   string
	Creds      Credentials
	HTTP       *http.Client
}

func New(tokenURL, sendURL, invoiceURL, eventURL string, creds Credentials, timeout time.Duration) *Client {
	return &Client{
		TokenURL:   tokenURL,
		SendURL:    strings.TrimRight(sendURL, "/"),
		InvoiceURL: invoiceURL,
		EventURL:   eventURL,
		Creds:      creds,
		HTTP:       &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Token новый access token на каждый вызов; LBN выдаёт короткоживущие токены.
func (c *Client) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Username", c.Creds.Username)
	req.Header.Set("Password", c.Creds.Password)
	req.Header.Set("Authorization", c.Creds.Authorization)
	raw, err := c.do(req, "token")
	if err != nil {
		return "", err
	}
	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("lbn token: decode: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("lbn token: empty access_token")
	}
	return tr.AccessToken, nil
}

// CarrierResponseURL адрес ответа перевозчика по заказу.
func (c *Client) CarrierResponseURL(r domain.Route) string {
	return fmt.Sprintf("%s/%s/%s/%s/carrierResponse", c.SendURL,
		url.PathEscape(r.OrderingPartyLbnID), url.PathEscape(r.OriginatorID), url.PathEscape(r.FreightOrderID))
}

func (c *Client) SendConfirmation(ctx context.Context, token string, r domain.Route, conf domain.Confirmation) error {
	return c.postJSON(ctx, c.CarrierResponseURL(r), token, conf, "carrierResponse")
}

func (c *Client) SendInvoice(ctx context.Context, token string, inv domain.Invoice) error {
	return c.postJSON(ctx, c.InvoiceURL, token, inv, "invoice")
}

func (c *Client) SendOrderEvent(ctx context.Context, token string, ev domain.OrderEvent) error {
	return c.postJSON(ctx, c.EventURL, token, ev, "event")
}

func (c *Client) postJSON(ctx context.Context, target, token string, v any, op string) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = c.do(req, op)
	return err
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lbn %s: %w", op, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("lbn %s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lbn %s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(raw))
	}
	return raw, nil
}

var _ domain.NetworkGateway = (*Client)(nil)
