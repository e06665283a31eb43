package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// New JSON-логгер production-конфигурации. level: debug, info, warn, error.
func New(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	return config.Build()
}

// Notifier пишет оповещения в лог, когда очередь оповещений не настроена.
type Notifier struct {
	Logger *zap.Logger
}

func (n Notifier) Notify(_ context.Context, msg domain.Notification) error {
	n.Logger.Error(msg.Subject,
		zap.String("message", msg.Message),
		zap.String("correlationId", msg.CorrelationID),
		zap.String("freightOrderId", msg.FreightOrderID),
		zap.String("function", msg.Function))
	return nil
}

var _ domain.Notifier = Notifier{}
