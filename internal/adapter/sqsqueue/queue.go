package sqsqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// API часть клиента SQS, которая нужна очереди.
type API interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	GetQueueUrl(ctx context.Context, in *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
}

// QueueName имя SQS-очереди для subject: точки в именах очередей недопустимы.
func QueueName(subject string) string {
	return strings.ReplaceAll(subject, ".", "-")
}

// Queue ставит задания и оповещения в очереди SQS, по одной на subject.
type Queue struct {
	Client API
	// URLPrefix если задан, адрес очереди строится как URLPrefix/QueueName(subject)
	// без обращения к GetQueueUrl.
	URLPrefix     string
	NotifySubject string

	mu   sync.Mutex
	urls map[string]string
}

func New(client API, urlPrefix, notifySubject string) *Queue {
	return &Queue{Client: client, URLPrefix: strings.TrimSuffix(urlPrefix, "/"), NotifySubject: notifySubject, urls: map[string]string{}}
}

func (q *Queue) Enqueue(ctx context.Context, subject string, job domain.Job) error {
	return q.send(ctx, subject, job)
}

func (q *Queue) Notify(ctx context.Context, n domain.Notification) error {
	return q.send(ctx, q.NotifySubject, n)
}

func (q *Queue) send(ctx context.Context, subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	url, err := q.queueURL(ctx, subject)
	if err != nil {
		return err
	}
	if _, err := q.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(url),
		MessageBody: aws.String(string(b)),
	}); err != nil {
		return fmt.Errorf("send %s: %w", subject, err)
	}
	return nil
}

func (q *Queue) queueURL(ctx context.Context, subject string) (string, error) {
	name := QueueName(subject)
	if q.URLPrefix != "" {
		return q.URLPrefix + "/" + name, nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if u, ok := q.urls[name]; ok {
		return u, nil
	}
	out, err := q.Client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(name)})
	if err != nil {
		return "", fmt.Errorf("queue url %s: %w", name, err)
	}
	if q.urls == nil {
		q.urls = map[string]string{}
	}
	q.urls[name] = aws.ToString(out.QueueUrl)
	return q.urls[name], nil
}

var (
	_ domain.JobQueue = (*Queue)(nil)
	_ domain.Notifier = (*Queue)(nil)
)
