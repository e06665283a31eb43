package websli

import (
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

// Client читает документы WorldTrak (накладные, этикетки, POD, счета) из WebSLI.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{Timeout: timeout}}
}

type response struct {
	WTDocs struct {
		WTDoc []domain.Document `json:"wtDoc"`
	} `json:"wtDocs"`
}

func (c *Client) DocumentURL(housebill, docType string) string {
	return fmt.Sprintf("%s/housebill=%s/doctype=%s", c.BaseURL, url.PathEscape(housebill), url.PathEscape(docType))
}

// GetDocuments отсутствие документов ("not found") не считается ошибкой.
func (c *Client) GetDocuments(ctx context.Context, housebill, docType string) ([]domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DocumentURL(housebill, docType), nil)
	if err != nil {
		return nil, err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if isNotFound(raw) {
			return []domain.Document{}, nil
		}
		return nil, fmt.Errorf("websli %s %s: status %d", docType, housebill, resp.StatusCode)
	}
	if isNotFound(raw) {
		return []domain.Document{}, nil
	}
	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("websli %s %s: decode: %w", docType, housebill, err)
	}
	if r.WTDocs.WTDoc == nil {
		return []domain.Document{}, nil
	}
	return r.WTDocs.WTDoc, nil
}

func isNotFound(raw []byte) bool {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return strings.EqualFold(s, "not found")
}

var _ domain.DocumentStore = (*Client)(nil)
