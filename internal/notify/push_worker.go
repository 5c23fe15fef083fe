package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

// BatchSender delivers one rendered push batch to a provider.
type BatchSender interface {
	SendBatch(ctx context.Context, n *PushNotification) error
}

// PushJobHandler consumes push jobs from the push topic and hands
// each batch to the sender. It plugs into the kafka consumer group.
type PushJobHandler struct {
	sender BatchSender
	logger logger.Logger
}

// NewPushJobHandler creates the consumer handler.
func NewPushJobHandler(sender BatchSender, log logger.Logger) *PushJobHandler {
	return &PushJobHandler{sender: sender, logger: log}
}

// HandleMessage decodes one push job and delivers it. A malformed
// message is dropped so the partition keeps moving.
func (h *PushJobHandler) HandleMessage(msg *sarama.ConsumerMessage) error {
	ctx := context.Background()

	var job pushJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		h.logger.Error(ctx, "Dropping malformed push job",
			logger.F("topic", msg.Topic),
			logger.F("offset", msg.Offset),
			logger.F("error", err.Error()))
		return nil
	}
	if job.Notification == nil {
		h.logger.Warn(ctx, "Dropping push job without notification",
			logger.F("topic", msg.Topic),
			logger.F("offset", msg.Offset))
		return nil
	}

	if err := h.sender.SendBatch(ctx, job.Notification); err != nil {
		h.logger.Error(ctx, "Push batch delivery failed",
			logger.F("topic", msg.Topic),
			logger.F("offset", msg.Offset),
			logger.F("error", err.Error()))
		return fmt.Errorf("deliver push batch: %w", err)
	}
	return nil
}
