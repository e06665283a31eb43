package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/usecase"
)

const maxBody = 4 << 20

// LogReader журнал заказа для просмотра операторами; необязателен.
type LogReader interface {
	LogsFor(ctx context.Context, freightOrderID string) ([]domain.LogEntry, error)
}

type Server struct {
	Router   *mux.Router
	UCCreate usecase.CreateShipment
	UCUpdate usecase.UpdateShipment
	UCCancel usecase.CancelShipment
	Logs     LogReader
	Logger   *zap.Logger
}

func NewServer(create usecase.CreateShipment, update usecase.UpdateShipment, cancel usecase.CancelShipment, logs LogReader, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{Router: mux.NewRouter(), UCCreate: create, UCUpdate: update, UCCancel: cancel, Logs: logs, Logger: log}
	orders := s.Router.PathPrefix("/freight-orders").Subrouter()
	const route = "/{orderingPartyLbnId}/{originatorId}/{freightOrderId}"
	orders.HandleFunc(route, s.handleCreate).Methods(http.MethodPost)
	orders.HandleFunc(route, s.handleUpdate).Methods(http.MethodPut)
	orders.HandleFunc(route, s.handleCancel).Methods(http.MethodDelete)
	orders.HandleFunc("/{freightOrderId}/logs", s.handleLogs).Methods(http.MethodGet)
	s.Router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// StatusCode HTTP-код ответа для ошибки шага.
func StatusCode(err error) int {
	switch {
	case err == nil, errors.Is(err, domain.ErrSkipped):
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDownstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// readRequest идентификаторы из пути дополняют тело, но не перезаписывают его.
func readRequest(r *http.Request) (domain.ShipmentRequest, []byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return domain.ShipmentRequest{}, nil, err
	}
	var req domain.ShipmentRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return domain.ShipmentRequest{}, raw, domain.Validationf("invalid json: %v", err)
	}
	vars := mux.Vars(r)
	fill(&req.OrderingPartyLbnID, vars["orderingPartyLbnId"])
	fill(&req.OriginatorID, vars["originatorId"])
	fill(&req.FreightOrderID, vars["freightOrderId"])
	return req, raw, nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, raw, err := readRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.UCCreate.Execute(r.Context(), req, raw)
	s.writeResult(w, res, err)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, raw, err := readRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.UCUpdate.Execute(r.Context(), req, raw)
	s.writeResult(w, res, err)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	res, err := s.UCCancel.Execute(r.Context(), mux.Vars(r)["freightOrderId"], nil)
	s.writeResult(w, res, err)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if s.Logs == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	logs, err := s.Logs.LogsFor(r.Context(), mux.Vars(r)["freightOrderId"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(logs) == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) writeResult(w http.ResponseWriter, res usecase.Result, err error) {
	if err != nil && StatusCode(err) == http.StatusInternalServerError {
		s.Logger.Error("request failed", zap.String("id", res.ID), zap.Error(err))
	}
	if res.Message == "" && err != nil {
		res.Message = err.Error()
	}
	writeJSON(w, StatusCode(err), res)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusCode(err), usecase.Result{Status: domain.StatusFor(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
