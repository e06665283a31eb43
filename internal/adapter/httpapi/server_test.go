package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lbn-shipment-sync/internal/adapter/cache"
	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/usecase"
)

type stubTMS struct{ n int }

func (s *stubTMS) CreateShipment(context.Context, domain.ShipmentPayload) (domain.CreatedShipment, error) {
	s.n++
	return domain.CreatedShipment{Housebill: fmt.Sprintf("HB%d", s.n), FileNumber: fmt.Sprintf("FN%d", s.n)}, nil
}

func (s *stubTMS) CancelShipment(context.Context, string) (bool, error) { return true, nil }

type stubQueue struct{ err error }

func (q stubQueue) Enqueue(context.Context, string, domain.Job) error { return q.err }

func newTestServer(queueErr error) (*Server, *cache.MemoryStore) {
	store := cache.NewMemoryStore()
	j := usecase.Journal{Log: store, Function: "http-test"}
	d := usecase.Dispatcher{TMS: &stubTMS{}, Records: store}
	q := stubQueue{err: queueErr}
	return NewServer(
		usecase.CreateShipment{Records: store, Dispatcher: d, Journal: j, Queue: q, ConfirmSubject: "confirm"},
		usecase.UpdateShipment{Records: store, Journal: j, Queue: q, UpdateSubject: "update"},
		usecase.CancelShipment{Records: store, TMS: d.TMS, Journal: j},
		store, nil,
	), store
}

func orderBody(t *testing.T) []byte {
	t.Helper()
	start := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	req := domain.ShipmentRequest{
		CarrierPartyLbnID: "cp-1",
		ShippingTypeCode:  domain.ShippingTypeDomestic,
		TransportationStages: []domain.TransportationStage{{
			SenderSystemStageID:         "S1",
			LoadingLocation:             domain.Location{ID: "A"},
			UnloadingLocation:           domain.Location{ID: "B"},
			RequestedLoadingTimeStart:   start,
			RequestedUnloadingTimeStart: start.Add(24 * time.Hour),
			TotalDuration:               &domain.Quantity{Value: "PT30H"},
		}},
		Items: []domain.Item{{ShipFromLocationID: "A", ShipToLocationID: "B", GrossWeight: domain.Measurement{Value: 5}}},
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return b
}

const path = "/freight-orders/op-1/orig-1/fo-1"

func do(s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestCreateUpdateCancelRoutes(t *testing.T) {
	s, store := newTestServer(nil)
	body := orderBody(t)

	tests := []struct {
		name       string
		method     string
		body       []byte
		wantCode   int
		wantStatus domain.Status
	}{
		{"create", http.MethodPost, body, http.StatusOK, domain.StatusSuccess},
		{"duplicate create", http.MethodPost, body, http.StatusOK, domain.StatusSkipped},
		{"identical update", http.MethodPut, body, http.StatusOK, domain.StatusSuccess},
		{"bad json", http.MethodPut, []byte("{"), http.StatusBadRequest, domain.StatusFailed},
		{"cancel", http.MethodDelete, nil, http.StatusOK, domain.StatusSuccess},
		{"update after cancel", http.MethodPut, body, http.StatusBadRequest, domain.StatusFailed},
	}
	for _, tt := range tests {
		w := do(s, tt.method, path, tt.body)
		if w.Code != tt.wantCode {
			t.Errorf("%s: code = %v, want %v (%s)", tt.name, w.Code, tt.wantCode, w.Body.String())
			continue
		}
		var res usecase.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), tt.name)
		assert.Equal(t, tt.wantStatus, res.Status, tt.name)
	}

	rec, err := store.GetRecord(context.Background(), "fo-1")
	require.NoError(t, err)
	assert.Equal(t, "op-1", rec.OrderingPartyLbnID)
	assert.Equal(t, "orig-1", rec.OriginatorID)
	assert.Equal(t, domain.RecordCancelled, rec.Status)

	w := do(s, http.MethodGet, "/freight-orders/fo-1/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []domain.LogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	assert.Len(t, logs, 5, "bad json never reaches a use case")
}

func TestQueueFailureIsBadGateway(t *testing.T) {
	s, _ := newTestServer(errors.New("nats down"))
	w := do(s, http.MethodPost, path, orderBody(t))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestUnknownOrder(t *testing.T) {
	s, _ := newTestServer(nil)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodDelete, "/freight-orders/op/orig/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/freight-orders/nope/logs", nil).Code)
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/healthz", nil).Code)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusCode(nil))
	assert.Equal(t, http.StatusOK, StatusCode(domain.Skipf("dup")))
	assert.Equal(t, http.StatusBadRequest, StatusCode(domain.Validationf("x")))
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("get: %w", domain.ErrNotFound)))
	assert.Equal(t, http.StatusBadGateway, StatusCode(domain.Downstream("lbn", errors.New("x"))))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("x")))
}
