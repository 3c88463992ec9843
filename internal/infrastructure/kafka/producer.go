// Package kafka publishes borrow request lifecycle events to a topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"toolshare-backend/internal/domain/borrow"

	"github.com/IBM/sarama"
)

var _ borrow.Publisher = (*Publisher)(nil)

// DefaultSendTimeout caps how long a request waits on the broker after its
// transaction has committed.
const DefaultSendTimeout = 3 * time.Second

type Publisher struct {
	producer    sarama.SyncProducer
	topic       string
	logger      *slog.Logger
	sendTimeout time.Duration
}

// NewSyncProducer keeps broker timeouts short: Publish runs on the request path.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = 2 * time.Second
	config.Producer.Retry.Max = 1
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Net.DialTimeout = 2 * time.Second
	config.Net.WriteTimeout = 2 * time.Second
	config.Net.ReadTimeout = 2 * time.Second
	config.Metadata.Retry.Max = 1
	return sarama.NewSyncProducer(brokers, config)
}

func NewPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{producer: producer, topic: topic, logger: logger, sendTimeout: DefaultSendTimeout}
}

func (p *Publisher) WithSendTimeout(d time.Duration) *Publisher {
	if d > 0 {
		p.sendTimeout = d
	}
	return p
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

// Publish keys the message by request id so one request's events stay on one partition.
// It returns once the broker acks, ctx is done or the send timeout passes; an
// abandoned send finishes in the background within the producer timeouts.
func (p *Publisher) Publish(ctx context.Context, ev borrow.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.RequestID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.Type)},
		},
	}
	ctx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("send %s event to %s: %w", ev.Type, p.topic, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("send %s event to %s: %w", ev.Type, p.topic, res.err)
		}
		p.logger.DebugContext(ctx, "borrow request event published",
			slog.String("type", string(ev.Type)),
			slog.String("request_id", ev.RequestID),
			slog.Int("partition", int(res.partition)),
			slog.Int64("offset", res.offset))
		return nil
	}
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
