package natsstan

import (
	"context"
	"encoding/json"
	"fmt"

	stan "github.com/nats-io/stan.go"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// Publisher ставит задания в очередь и публикует оповещения операторам.
type Publisher struct {
	Conn          stan.Conn
	NotifySubject string
}

func (p *Publisher) Enqueue(_ context.Context, subject string, job domain.Job) error {
	return p.publish(subject, job)
}

func (p *Publisher) Notify(_ context.Context, n domain.Notification) error {
	return p.publish(p.NotifySubject, n)
}

func (p *Publisher) publish(subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := p.Conn.Publish(subject, b); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

var (
	_ domain.JobQueue = (*Publisher)(nil)
	_ domain.Notifier = (*Publisher)(nil)
)
