package natsstan

import (
	"context"
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// Connect подключение к NATS Streaming; пустой clientID заменяется уникальным.
func Connect(clusterID, clientID, url string) (stan.Conn, error) {
	if clientID == "" {
		clientID = fmt.Sprintf("lbn-sync-%d", time.Now().UnixNano())
	}
	return stan.Connect(clusterID, clientID, stan.NatsURL(url))
}

// Subscriber durable-подписка одной группы воркеров на subject с ручным подтверждением.
type Subscriber struct {
	Conn    stan.Conn
	Subject string
	Queue   string
	Durable string
	AckWait time.Duration
	// Timeout ограничивает обработку одного сообщения.
	Timeout time.Duration
	Logger  *zap.Logger
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	ackWait := s.AckWait
	if ackWait == 0 {
		ackWait = 30 * time.Second
	}
	sub, err := s.Conn.QueueSubscribe(s.Subject, s.Queue, func(m *stan.Msg) {
		s.deliver(m.Data, m.Ack, handler)
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(ackWait), stan.DeliverAllAvailable())
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.Subject, err)
	}
	go func() {
		<-ctx.Done()
		// Close сохраняет позицию durable-подписки, Unsubscribe её бы удалил.
		_ = sub.Close()
	}()
	return nil
}

func (s *Subscriber) deliver(data []byte, ack func() error, handler func(ctx context.Context, raw []byte) error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 25 * time.Second
	}
	hCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := handler(hCtx, data); err != nil {
		// не подтверждаем, даём сообщению переотправиться
		log.Error("handler error", zap.String("subject", s.Subject), zap.Error(err))
		return
	}
	if err := ack(); err != nil {
		log.Warn("ack failed", zap.String("subject", s.Subject), zap.Error(err))
	}
}

var _ domain.MessageSubscriber = (*Subscriber)(nil)
