package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	stan "github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/adapter/cache"
	"github.com/example/lbn-shipment-sync/internal/adapter/httpapi"
	"github.com/example/lbn-shipment-sync/internal/adapter/lbn"
	"github.com/example/lbn-shipment-sync/internal/adapter/natsstan"
	"github.com/example/lbn-shipment-sync/internal/adapter/lambdaapi"
	"github.com/example/lbn-shipment-sync/internal/adapter/repo"
	"github.com/example/lbn-shipment-sync/internal/adapter/sqsqueue"
	"github.com/example/lbn-shipment-sync/internal/adapter/websli"
	"github.com/example/lbn-shipment-sync/internal/adapter/worldtrak"
	"github.com/example/lbn-shipment-sync/internal/config"
	"github.com/example/lbn-shipment-sync/internal/domain"
	"github.com/example/lbn-shipment-sync/internal/logger"
	"github.com/example/lbn-shipment-sync/internal/usecase"
)

// Store хранилище записей и журнала вместе; оба адаптера реализуют его целиком.
type Store interface {
	domain.RecordStore
	domain.AuditLog
	httpapi.LogReader
}

// Ports внешние зависимости приложения.
type Ports struct {
	Store     Store
	TMS       domain.TMSGateway
	Network   domain.NetworkGateway
	Documents domain.DocumentStore
	Queue     domain.JobQueue
	Notifier  domain.Notifier
	Clock     domain.Clock
}

// App собранные обработчики.
type App struct {
	Create     usecase.CreateShipment
	Update     usecase.UpdateShipment
	Cancel     usecase.CancelShipment
	Confirm    usecase.ConfirmShipment
	Process    usecase.ProcessShipmentUpdate
	OrderEvent usecase.SendOrderEvent
	Invoice    usecase.SendBillingInvoice
	Server     *httpapi.Server
	// Workers обработчики очередей по subject.
	Workers map[string]func(ctx context.Context, raw []byte) error
}

func Wire(p Ports, subjects config.Subjects, log *zap.Logger) *App {
	journal := func(fn string) usecase.Journal {
		return usecase.Journal{Log: p.Store, Notifier: p.Notifier, Logger: log.Named(fn), Now: p.Clock, Function: fn}
	}
	d := usecase.Dispatcher{TMS: p.TMS, Records: p.Store, Logger: log.Named("dispatch"), Now: p.Clock}

	a := &App{
		Create:     usecase.CreateShipment{Records: p.Store, Dispatcher: d, Journal: journal("create-shipment"), Queue: p.Queue, ConfirmSubject: subjects.Confirm},
		Update:     usecase.UpdateShipment{Records: p.Store, Journal: journal("update-shipment"), Queue: p.Queue, UpdateSubject: subjects.Update},
		Cancel:     usecase.CancelShipment{Records: p.Store, TMS: p.TMS, Journal: journal("cancel-shipment")},
		Confirm:    usecase.ConfirmShipment{Records: p.Store, Documents: p.Documents, Network: p.Network, Journal: journal("send-confirmation")},
		OrderEvent: usecase.SendOrderEvent{Records: p.Store, Documents: p.Documents, Network: p.Network, Journal: journal("send-order-event")},
		Invoice:    usecase.SendBillingInvoice{Records: p.Store, Documents: p.Documents, Network: p.Network, Journal: journal("send-billing-invoice")},
	}
	a.Process = usecase.ProcessShipmentUpdate{Records: p.Store, Dispatcher: d, Confirm: a.Confirm, Journal: journal("update-shipment-processor")}
	a.Server = httpapi.NewServer(a.Create, a.Update, a.Cancel, p.Store, log.Named("http"))
	a.Workers = map[string]func(ctx context.Context, raw []byte) error{
		subjects.Confirm:     a.Confirm.Execute,
		subjects.Update:      a.Process.Execute,
		subjects.OrderEvents: a.OrderEvent.Execute,
		subjects.Invoices:    a.Invoice.Execute,
	}
	return a
}

// SQSWorkers воркеры по именам очередей SQS, в которые Queue режима "sqs" кладёт задания.
func (a *App) SQSWorkers() map[string]lambdaapi.Worker {
	out := make(map[string]lambdaapi.Worker, len(a.Workers))
	for subject, w := range a.Workers {
		out[sqsqueue.QueueName(subject)] = w
	}
	return out
}

// Resources открытые соединения, которые нужно закрыть при остановке.
type Resources struct {
	Pool *pgxpool.Pool
	STAN stan.Conn
}

func (r Resources) Close() {
	if r.STAN != nil {
		_ = r.STAN.Close()
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
}

// Connect открывает хранилище, очередь и клиенты внешних систем по конфигурации.
func Connect(ctx context.Context, cfg config.Config, log *zap.Logger) (Ports, Resources, error) {
	var res Resources
	p := Ports{
		TMS: worldtrak.New(cfg.WorldTrak.ShipmentURL, cfg.WorldTrak.StatusURL, cfg.WorldTrak.UserName, cfg.WorldTrak.Password, cfg.HTTPTimeout, log.Named("worldtrak")),
		Network: lbn.New(cfg.LBN.TokenURL, cfg.LBN.SendURL, cfg.LBN.InvoiceURL, cfg.LBN.EventURL,
			lbn.Credentials{Username: cfg.LBN.Username, Password: cfg.LBN.Password, Authorization: cfg.LBN.Authorization}, cfg.HTTPTimeout),
		Documents: websli.New(cfg.DocumentURL, cfg.HTTPTimeout),
	}

	switch cfg.Store {
	case "memory":
		p.Store = cache.NewMemoryStore()
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return Ports{}, res, fmt.Errorf("db connect: %w", err)
		}
		res.Pool = pool
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			res.Close()
			return Ports{}, res, fmt.Errorf("init schema: %w", err)
		}
		p.Store = repo.NewPostgresStore(pool)
	default:
		return Ports{}, res, fmt.Errorf("unknown STORE %q", cfg.Store)
	}

	switch cfg.Queue {
	case "stan":
		sc, err := natsstan.Connect(cfg.STANClusterID, cfg.STANClientID, cfg.NATSURL)
		if err != nil {
			res.Close()
			return Ports{}, res, fmt.Errorf("stan connect: %w", err)
		}
		res.STAN = sc
		pub := &natsstan.Publisher{Conn: sc, NotifySubject: cfg.Subjects.Notify}
		p.Queue = pub
		p.Notifier = pub
	case "sqs":
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.SQS.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.SQS.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			res.Close()
			return Ports{}, res, fmt.Errorf("aws config: %w", err)
		}
		q := sqsqueue.New(sqs.NewFromConfig(awsCfg), cfg.SQS.QueueURLPrefix, cfg.Subjects.Notify)
		p.Queue = q
		p.Notifier = q
	default:
		res.Close()
		return Ports{}, res, fmt.Errorf("unknown QUEUE %q", cfg.Queue)
	}
	if cfg.NotifyVia == "log" {
		p.Notifier = logger.Notifier{Logger: log.Named("notify")}
	}
	return p, res, nil
}
