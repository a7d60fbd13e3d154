package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	kafka "github.com/vogiaan1904/ticketbottle-dashboard/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/util"
)

type Producer interface {
	PublishSystemStarted(ctx context.Context, event kafka.SystemStartedEvent) error
	PublishSystemStopped(ctx context.Context, event kafka.SystemStoppedEvent) error
	PublishSystemReset(ctx context.Context, event kafka.SystemResetEvent) error
	PublishConfigurationSaved(ctx context.Context, event kafka.ConfigurationSavedEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
	key  string
}

// NewProducer publishes lifecycle events keyed by the dashboard instance so
// one dashboard's events stay ordered on a single partition.
func NewProducer(prod sarama.SyncProducer, instance string, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
		key:  instance,
	}
}

func (p *implProducer) PublishSystemStarted(ctx context.Context, event kafka.SystemStartedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicSystemStarted, event)
}

func (p *implProducer) PublishSystemStopped(ctx context.Context, event kafka.SystemStoppedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicSystemStopped, event)
}

func (p *implProducer) PublishSystemReset(ctx context.Context, event kafka.SystemResetEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicSystemReset, event)
}

func (p *implProducer) PublishConfigurationSaved(ctx context.Context, event kafka.ConfigurationSavedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicConfigurationSaved, event)
}

func (p *implProducer) publish(ctx context.Context, topic string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish(%s): %v", topic, err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(p.key),
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(util.TimeToISO8601Str(time.Now())),
			},
		},
	}

	_, _, err = p.prod.SendMessage(msg)
	return err
}

func (p *implProducer) Close() error {
	if err := p.prod.Close(); err != nil {
		return err
	}

	return nil
}

type noopProducer struct{}

// NewNoopProducer is used when Kafka is disabled.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) PublishSystemStarted(context.Context, kafka.SystemStartedEvent) error { return nil }
func (noopProducer) PublishSystemStopped(context.Context, kafka.SystemStoppedEvent) error { return nil }
func (noopProducer) PublishSystemReset(context.Context, kafka.SystemResetEvent) error     { return nil }
func (noopProducer) PublishConfigurationSaved(context.Context, kafka.ConfigurationSavedEvent) error {
	return nil
}
func (noopProducer) Close() error { return nil }
