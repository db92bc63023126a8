package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ai-mart-inventory/config"
	"ai-mart-inventory/internal/notify"
	"ai-mart-inventory/pkg/logger"

	"go.uber.org/zap"
)

// notifier drains the email topic and delivers each message over SMTP.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must(cfg.Server.Env)
	defer log.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("no kafka brokers configured (KAFKA_BROKERS)")
	}

	var mailer notify.Mailer = notify.LogMailer{Log: log}
	if smtp := notify.NewSMTPSender(cfg.SMTP); smtp.Configured() {
		mailer = smtp
	} else {
		log.Warn("smtp not configured, queued emails will only be logged")
	}

	cons := notify.NewEmailConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.EmailTopic, mailer, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("notifier started", zap.String("topic", cfg.Kafka.EmailTopic), zap.String("group", cfg.Kafka.GroupID))
	if err := cons.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("consumer stopped", zap.Error(err))
	}
	log.Info("shutdown signal received")
	_ = cons.Close()
}
