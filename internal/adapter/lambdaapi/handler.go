package lambdaapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Worker обработчик тела одного сообщения очереди.
type Worker func(ctx context.Context, raw []byte) error

// Handler единая точка входа функции: запросы API Gateway уходят в HTTP-роутер,
// пачки SQS раздаются воркерам по имени очереди.
type Handler struct {
	Router  http.Handler
	Workers map[string]Worker
	Logger  *zap.Logger
}

type probe struct {
	Records []struct {
		EventSource string `json:"eventSource"`
	} `json:"Records"`
}

func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (any, error) {
	var p probe
	if err := json.Unmarshal(raw, &p); err == nil && len(p.Records) > 0 && p.Records[0].EventSource == "aws:sqs" {
		var ev events.SQSEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, err
		}
		return h.HandleSQS(ctx, ev), nil
	}
	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return h.HandleAPI(ctx, req)
}

// HandleAPI прогоняет запрос через роутер и возвращает ответ в формате прокси-интеграции.
func (h *Handler) HandleAPI(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: "invalid base64 body"}, nil
		}
		body = b
	}
	target := req.Path
	if len(req.QueryStringParameters) > 0 {
		q := url.Values{}
		for k, v := range req.QueryStringParameters {
			q.Set(k, v)
		}
		target += "?" + q.Encode()
	}
	r, err := http.NewRequestWithContext(ctx, req.HTTPMethod, target, bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.Router.ServeHTTP(w, r)

	headers := make(map[string]string, len(w.Header()))
	for k := range w.Header() {
		headers[k] = w.Header().Get(k)
	}
	return events.APIGatewayProxyResponse{StatusCode: w.Code, Headers: headers, Body: w.Body.String()}, nil
}

// HandleSQS сообщения с ошибкой возвращаются в BatchItemFailures и будут доставлены повторно.
func (h *Handler) HandleSQS(ctx context.Context, ev events.SQSEvent) events.SQSEventResponse {
	log := h.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var resp events.SQSEventResponse
	for _, m := range ev.Records {
		queue := queueName(m.EventSourceARN)
		w, ok := h.Workers[queue]
		if !ok {
			log.Warn("no worker for queue", zap.String("queue", queue), zap.String("messageId", m.MessageId))
			continue
		}
		if err := w(ctx, []byte(m.Body)); err != nil {
			log.Error("worker failed", zap.String("queue", queue), zap.String("messageId", m.MessageId), zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: m.MessageId})
		}
	}
	return resp
}

// queueName последний сегмент ARN вида arn:aws:sqs:region:account:name.
func queueName(arn string) string {
	for i := len(arn) - 1; i >= 0; i-- {
		if arn[i] == ':' {
			return arn[i+1:]
		}
	}
	return arn
}
