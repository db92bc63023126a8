package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// EmailConsumer drains the email topic and hands each message to a Mailer.
type EmailConsumer struct {
	reader messageReader
	mailer Mailer
	log    *zap.Logger
}

func NewEmailConsumer(brokers []string, groupID, topic string, mailer Mailer, log *zap.Logger) *EmailConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &EmailConsumer{reader: r, mailer: mailer, log: log}
}

// Run blocks until ctx is cancelled. Bad messages are logged and skipped.
func (c *EmailConsumer) Run(ctx context.Context) error {
	c.log.Info("email consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}
		c.handle(ctx, m)
	}
}

func (c *EmailConsumer) handle(ctx context.Context, m kafka.Message) {
	var e Email
	if err := json.Unmarshal(m.Value, &e); err != nil {
		c.log.Error("unmarshal email message", zap.ByteString("value", m.Value), zap.Error(err))
		return
	}
	if e.To == "" || e.Template == "" {
		c.log.Warn("invalid email message", zap.String("to", e.To), zap.String("template", e.Template))
		return
	}
	if err := c.mailer.Send(ctx, e); err != nil {
		c.log.Error("send email failed", zap.String("to", e.To), zap.String("template", e.Template), zap.Error(err))
		return
	}
	c.log.Info("email sent", zap.String("to", e.To), zap.String("template", e.Template))
}

func (c *EmailConsumer) Close() error { return c.reader.Close() }
