package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	stan "github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/adapter/natsstan"
	"github.com/example/lbn-shipment-sync/internal/app"
	"github.com/example/lbn-shipment-sync/internal/config"
	"github.com/example/lbn-shipment-sync/internal/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	lg = lg.With(zap.String("stage", cfg.Stage))

	ports, res, err := app.Connect(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("connect", zap.Error(err))
	}
	defer res.Close()

	a := app.Wire(ports, cfg.Subjects, lg)
	if res.STAN != nil {
		subscribe(ctx, res.STAN, a.Workers, cfg.HandlerTimeout, lg)
	} else {
		// QUEUE=sqs: воркеры работают в Lambda, здесь только HTTP.
		lg.Info("queue workers disabled", zap.String("queue", cfg.Queue))
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: a.Server, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		lg.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
}

// subscribe одна durable-подписка группы воркеров на каждый subject.
func subscribe(ctx context.Context, conn stan.Conn, workers map[string]func(ctx context.Context, raw []byte) error, timeout time.Duration, lg *zap.Logger) {
	for subject, handler := range workers {
		sub := &natsstan.Subscriber{
			Conn:    conn,
			Subject: subject,
			Queue:   "lbn-sync-workers",
			Durable: "lbn-sync-" + subject,
			AckWait: timeout + 5*time.Second,
			Timeout: timeout,
			Logger:  lg.Named("stan"),
		}
		if err := sub.Subscribe(ctx, handler); err != nil {
			lg.Fatal("subscribe", zap.String("subject", subject), zap.Error(err))
		}
	}
}
