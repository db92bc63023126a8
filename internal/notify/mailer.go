// Package notify delivers email either directly over SMTP or through a
// Kafka queue drained by the notifier process.
package notify

import (
	"context"

	"ai-mart-inventory/config"

	"go.uber.org/zap"
)

type Email struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// LogMailer only logs. Used when no SMTP server is configured.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) Send(_ context.Context, e Email) error {
	m.Log.Info("email not sent, no smtp configured",
		zap.String("to", e.To), zap.String("subject", e.Subject), zap.String("template", e.Template))
	return nil
}

// FromConfig picks the delivery path: the Kafka queue when enabled, SMTP
// when configured, otherwise LogMailer. The returned close func releases
// any writer it opened.
func FromConfig(cfg *config.Config, log *zap.Logger) (Mailer, func() error) {
	if cfg.Kafka.Enabled {
		p := NewEmailProducer(cfg.Kafka.Brokers, cfg.Kafka.EmailTopic)
		log.Info("email via kafka", zap.String("topic", cfg.Kafka.EmailTopic))
		return p, p.Close
	}
	if s := NewSMTPSender(cfg.SMTP); s.Configured() {
		log.Info("email via smtp", zap.String("host", cfg.SMTP.Host))
		return s, func() error { return nil }
	}
	log.Warn("smtp not configured, emails will only be logged")
	return LogMailer{Log: log}, func() error { return nil }
}
