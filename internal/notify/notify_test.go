package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"ai-mart-inventory/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func TestRenderDailyAlert(t *testing.T) {
	html, plain, err := Render(TemplateDailyAlert, map[string]any{
		"StoreName": "Demo <Store>",
		"Date":      "10 Jan 2025",
		"LowStock":  []string{"Rice (Rack Stock: 2)"},
		"Expiry":    []string{},
		"Sales":     nil,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<li>Rice (Rack Stock: 2)</li>") {
		t.Fatalf("html missing low stock entry:\n%s", html)
	}
	if !strings.Contains(html, "Demo &lt;Store&gt;") {
		t.Fatal("store name not escaped")
	}
	if !strings.Contains(html, "No sales today") || !strings.Contains(plain, "No sales today") {
		t.Fatal("empty sales fallback missing")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, err := Render("nope", nil); err == nil {
		t.Fatal("expected error")
	}
}

type stubReader struct {
	msgs []kafka.Message
}

func (r *stubReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, context.Canceled
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *stubReader) Close() error { return nil }

type stubMailer struct {
	sent []Email
	err  error
}

func (m *stubMailer) Send(_ context.Context, e Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func TestEmailConsumerSkipsBadMessages(t *testing.T) {
	good, _ := json.Marshal(Email{To: "a@b.c", Subject: "hi", Template: TemplatePasswordReset})
	missing, _ := json.Marshal(Email{Subject: "no recipient", Template: TemplatePasswordReset})
	reader := &stubReader{msgs: []kafka.Message{
		{Value: []byte("not json")},
		{Value: missing},
		{Value: good},
	}}
	mailer := &stubMailer{}
	c := &EmailConsumer{reader: reader, mailer: mailer, log: zap.NewNop()}

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "a@b.c" {
		t.Fatalf("sent = %+v", mailer.sent)
	}
}

func TestEmailConsumerKeepsGoingAfterSendFailure(t *testing.T) {
	msg, _ := json.Marshal(Email{To: "a@b.c", Template: TemplatePasswordReset})
	reader := &stubReader{msgs: []kafka.Message{{Value: msg}, {Value: msg}}}
	mailer := &stubMailer{err: errors.New("smtp down")}
	c := &EmailConsumer{reader: reader, mailer: mailer, log: zap.NewNop()}

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(reader.msgs) != 0 {
		t.Fatal("consumer stopped early")
	}
}

func TestFromConfig(t *testing.T) {
	log := zap.NewNop()

	m, closeFn := FromConfig(&config.Config{}, log)
	if _, ok := m.(LogMailer); !ok {
		t.Fatalf("unconfigured mailer = %T, want LogMailer", m)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	m, _ = FromConfig(&config.Config{SMTP: config.SMTPConfig{Host: "smtp.local", User: "u", Password: "p", Port: 587}}, log)
	if _, ok := m.(*SMTPSender); !ok {
		t.Fatalf("smtp mailer = %T", m)
	}

	m, closeFn = FromConfig(&config.Config{Kafka: config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, EmailTopic: "mail"}}, log)
	if _, ok := m.(*EmailProducer); !ok {
		t.Fatalf("kafka mailer = %T", m)
	}
	_ = closeFn()
}
