package main

import (
	"context"

	"github.com/mahalakshmi2126/Newshub-Server/internal/notify"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/config"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/kafka"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/lifecycle"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("push-worker")
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel); err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	log := logger.GetLogger()
	kratosLogger := logger.NewKratosStdLogger("push-worker", cfg.App.Version)

	sender := notify.NewFCMSender(log)
	handler := notify.NewPushJobHandler(sender, log)

	consumer, err := kafka.InitConsumer(kafka.KafkaConfig{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topics:  []string{cfg.Push.Topic},
	}, handler)
	if err != nil {
		panic("Failed to init kafka consumer: " + err.Error())
	}

	lm := lifecycle.NewLifecycleManager(kratosLogger)
	lm.AddHook(lifecycle.Hook{
		Name:     "push-consumer",
		Priority: 100,
		OnStart: func(ctx context.Context) error {
			return consumer.StartConsuming(lm.Context())
		},
	})

	if err := lm.Start(); err != nil {
		panic("Failed to start push worker: " + err.Error())
	}
	lm.Wait()
}
