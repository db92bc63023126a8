package notify

import (
	"context"
	"encoding/json"
	"time"

	"ai-mart-inventory/internal/event"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventProducer mirrors inventory events onto a Kafka topic keyed by store.
type EventProducer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewEventProducer(brokers []string, topic string, log *zap.Logger) *EventProducer {
	return &EventProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
			Async:    true,
			Completion: func(_ []kafka.Message, err error) {
				if err != nil {
					log.Warn("event delivery failed", zap.Error(err))
				}
			},
		},
		log: log,
	}
}

func (p *EventProducer) Publish(ctx context.Context, e event.Event) {
	value, err := json.Marshal(e)
	if err != nil {
		p.log.Error("marshal event", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.StoreID.String()), Value: value}); err != nil {
		p.log.Warn("enqueue event", zap.String("action", e.Action), zap.Error(err))
	}
}

func (p *EventProducer) Close() error {
	return p.writer.Close()
}
