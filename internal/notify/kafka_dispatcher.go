package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/kafka"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

// pushJob is the wire format consumed by push delivery workers.
type pushJob struct {
	Type         string            `json:"type"`
	Notification *PushNotification `json:"notification"`
	EnqueuedAt   time.Time         `json:"enqueued_at"`
}

// KafkaDispatcher publishes push jobs to the push topic in token
// batches. Delivery workers pick them up from there.
type KafkaDispatcher struct {
	producer  *kafka.Producer
	topic     string
	batchSize int
	logger    logger.Logger
}

// NewKafkaDispatcher creates the kafka-backed dispatcher.
func NewKafkaDispatcher(producer *kafka.Producer, topic string, batchSize int, log logger.Logger) *KafkaDispatcher {
	if topic == "" {
		topic = model.TopicPushJobs
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &KafkaDispatcher{
		producer:  producer,
		topic:     topic,
		batchSize: batchSize,
		logger:    log,
	}
}

// DispatchPush splits the token list into batches and publishes one
// job per batch. A failed batch is logged and skipped, the rest still
// go out.
func (d *KafkaDispatcher) DispatchPush(notification *PushNotification) error {
	tokens := notification.Tokens
	if len(tokens) == 0 {
		return nil
	}

	ctx := context.Background()
	var firstErr error
	for i := 0; i < len(tokens); i += d.batchSize {
		end := i + d.batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		batch := &PushNotification{
			Title:  notification.Title,
			Body:   notification.Body,
			Icon:   notification.Icon,
			Link:   notification.Link,
			Tokens: tokens[i:end],
		}
		job := &pushJob{
			Type:         "push.batch",
			Notification: batch,
			EnqueuedAt:   time.Now(),
		}

		key := strconv.Itoa(i / d.batchSize)
		if err := d.producer.PublishJSON(d.topic, key, job); err != nil {
			d.logger.Error(ctx, "Failed to publish push batch",
				logger.F("topic", d.topic),
				logger.F("batch", key),
				logger.F("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	d.logger.Info(ctx, "Push notification dispatched",
		logger.F("topic", d.topic),
		logger.F("recipients", len(tokens)))
	return firstErr
}
