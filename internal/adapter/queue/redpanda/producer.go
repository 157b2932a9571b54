// Package redpanda publishes domain events to Redpanda/Kafka.
package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/career-leader/internal/adapter/observability"
	"github.com/fairyhunter13/career-leader/internal/domain"
	obsctx "github.com/fairyhunter13/career-leader/internal/observability"
)

const (
	// TopicAssessmentCompleted is the default topic for completed assessments.
	TopicAssessmentCompleted = "assessment-completed"

	EventTypeAssessmentCompleted = "assessment.completed"
)

// recordProducer is the part of *kgo.Client used to publish.
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Producer publishes AssessmentCompleted events and implements domain.EventPublisher.
type Producer struct {
	client     recordProducer
	topic      string
	newBackOff func() backoff.BackOff
}

var _ domain.EventPublisher = (*Producer)(nil)

// NewProducer connects to the brokers, makes sure the topic exists and
// returns a traced producer. newBackOff supplies the retry policy of each publish.
func NewProducer(ctx context.Context, brokers []string, topic string, newBackOff func() backoff.BackOff) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if topic == "" {
		topic = TopicAssessmentCompleted
	}
	slog.Info("creating redpanda producer", slog.Any("brokers", brokers), slog.String("topic", topic))

	kotelService := kotel.NewKotel(
		kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))),
	)
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RequestRetries(5),
		kgo.ProducerBatchMaxBytes(1_000_000),
		kgo.DialTimeout(10*time.Second),
		kgo.WithHooks(kotelService.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}
	if err := ensureTopic(ctx, client, topic, 1, 1); err != nil {
		slog.Warn("could not ensure topic", slog.String("topic", topic), slog.Any("error", err))
	}
	return newProducer(client, topic, newBackOff), nil
}

func newProducer(client recordProducer, topic string, newBackOff func() backoff.BackOff) *Producer {
	if newBackOff == nil {
		newBackOff = func() backoff.BackOff { return &backoff.StopBackOff{} }
	}
	return &Producer{client: client, topic: topic, newBackOff: newBackOff}
}

// Topic returns the destination topic.
func (p *Producer) Topic() string { return p.topic }

// PublishAssessmentCompleted produces one event keyed by submission id.
func (p *Producer) PublishAssessmentCompleted(ctx domain.Context, ev domain.AssessmentCompleted) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("op=events.publish: marshal: %w", err)
	}
	headers := []kgo.RecordHeader{
		{Key: "event_type", Value: []byte(EventTypeAssessmentCompleted)},
		{Key: "submission_id", Value: []byte(ev.SubmissionID)},
	}
	if rid := obsctx.RequestIDFromContext(ctx); rid != "" {
		headers = append(headers, kgo.RecordHeader{Key: "request_id", Value: []byte(rid)})
	}

	attempt := 0
	produce := func() error {
		attempt++
		rec := &kgo.Record{
			Topic:   p.topic,
			Key:     []byte(ev.SubmissionID),
			Value:   b,
			Headers: headers,
		}
		if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			slog.Warn("produce failed",
				slog.String("topic", p.topic),
				slog.String("submission_id", ev.SubmissionID),
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}
		return nil
	}
	err = backoff.Retry(produce, backoff.WithContext(p.newBackOff(), ctx))
	observability.RecordEventPublish(p.topic, err)
	if err != nil {
		return fmt.Errorf("op=events.publish: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
