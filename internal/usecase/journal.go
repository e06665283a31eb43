package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

var central = loadCentral()

func loadCentral() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// Journal ведёт запись журнала одного вызова и оповещает операторов о сбоях.
type Journal struct {
	Log      domain.AuditLog
	Notifier domain.Notifier
	Logger   *zap.Logger
	Now      domain.Clock
	// Function имя обработчика в оповещениях.
	Function string
}

func (j Journal) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j Journal) logger() *zap.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return zap.NewNop()
}

// NewID корреляционный идентификатор без дефисов.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Begin открывает запись журнала.
func (j Journal) Begin(process domain.Process, freightOrderID string, event []byte) domain.LogEntry {
	now := j.now()
	cst := now.In(central)
	if len(event) > 0 && !json.Valid(event) {
		event, _ = json.Marshal(string(event))
	}
	return domain.LogEntry{
		ID:             NewID(),
		Process:        process,
		FreightOrderID: freightOrderID,
		CSTDate:        cst.Format("2006-01-02"),
		CSTDateTime:    cst.Format("2006-01-02 15:04:05.000"),
		Event:          event,
		CreatedAt:      now,
	}
}

// Save сохраняет промежуточное состояние записи.
func (j Journal) Save(ctx context.Context, e *domain.LogEntry) error {
	e.UpdatedAt = j.now()
	if err := j.Log.PutLog(ctx, *e); err != nil {
		return fmt.Errorf("put log %s: %w", e.ID, err)
	}
	return nil
}

// Finish фиксирует итог шага. Ошибки валидации и пропуски не оповещают операторов,
// остальные оповещают. Возвращает ошибку только если не удалось записать журнал.
func (j Journal) Finish(ctx context.Context, e *domain.LogEntry, stepErr error) error {
	log := j.logger().With(zap.String("id", e.ID), zap.String("process", string(e.Process)), zap.String("freightOrderId", e.FreightOrderID))
	switch {
	case stepErr == nil:
		if e.Status == "" {
			e.Status = domain.StatusSuccess
		}
		log.Info("step finished", zap.String("status", string(e.Status)))
	case errors.Is(stepErr, domain.ErrSkipped):
		e.Status = domain.StatusSkipped
		e.ErrorMsg = stepErr.Error()
		log.Info("step skipped", zap.String("reason", stepErr.Error()))
	case errors.Is(stepErr, domain.ErrValidation):
		e.Status = domain.StatusFailed
		e.ErrorMsg = stepErr.Error()
		log.Warn("request rejected", zap.Error(stepErr))
	default:
		e.Status = domain.StatusFailed
		e.ErrorMsg = stepErr.Error()
		log.Error("step failed", zap.Error(stepErr))
		j.notify(ctx, e, stepErr)
	}
	return j.Save(ctx, e)
}

func (j Journal) notify(ctx context.Context, e *domain.LogEntry, stepErr error) {
	if j.Notifier == nil {
		return
	}
	n := domain.Notification{
		Subject:        fmt.Sprintf("%s ERROR %s", e.Process, j.Function),
		Message:        fmt.Sprintf("An error occurred in function %s. ERROR DETAILS: %v. Use the id %s to search the logs.", j.Function, stepErr, e.ID),
		CorrelationID:  e.ID,
		FreightOrderID: e.FreightOrderID,
		Function:       j.Function,
	}
	if err := j.Notifier.Notify(ctx, n); err != nil {
		j.logger().Error("notification failed", zap.String("id", e.ID), zap.Error(err))
	}
}
