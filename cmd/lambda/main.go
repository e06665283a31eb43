package main

import (
	"context"
	"log"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/example/lbn-shipment-sync/internal/adapter/lambdaapi"
	"github.com/example/lbn-shipment-sync/internal/app"
	"github.com/example/lbn-shipment-sync/internal/config"
	"github.com/example/lbn-shipment-sync/internal/logger"
)

func main() {
	cfg := config.Load()
	// Функция читает только SQS, поэтому и задания кладёт туда же.
	cfg.Queue = "sqs"
	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	lg = lg.With(zap.String("stage", cfg.Stage))

	// Соединения живут всё время жизни контейнера функции.
	ports, res, err := app.Connect(context.Background(), cfg, lg)
	if err != nil {
		lg.Fatal("connect", zap.Error(err))
	}
	defer res.Close()

	a := app.Wire(ports, cfg.Subjects, lg)
	h := &lambdaapi.Handler{Router: a.Server, Workers: a.SQSWorkers(), Logger: lg.Named("lambda")}
	lambda.Start(h.Handle)
}
