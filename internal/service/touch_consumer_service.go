package service

import (
	"context"
	"encoding/json"

	"tabnote-be/internal/bus"
	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/logger"
	"tabnote-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TouchConsumer drains notebook.touch off the in-process bus and applies
// the updated_at bumps. Failures are logged and dropped: a touch is
// best-effort by contract. Applied touches are echoed onto the NATS
// stream as NOTEBOOK_TOUCHED for cross-instance consumers.
type TouchConsumer struct {
	subscriber     message.Subscriber
	notebooks      INotebookService
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewTouchConsumer(subscriber message.Subscriber, notebooks INotebookService, eventPublisher EventPublisher, log logger.ILogger) *TouchConsumer {
	return &TouchConsumer{
		subscriber:     subscriber,
		notebooks:      notebooks,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Run consumes until ctx is cancelled.
func (c *TouchConsumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, bus.TopicNotebookTouch)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var touch dto.TouchNotebookMessage
			if err := json.Unmarshal(msg.Payload, &touch); err != nil {
				c.log.Warn("touch", "malformed notebook.touch payload", map[string]interface{}{
					"error": err.Error(),
				})
				msg.Ack()
				continue
			}

			if err := c.notebooks.Touch(ctx, touch.NotebookId, touch.TouchedAt); err != nil {
				c.log.Warn("touch", "failed to bump notebook updated_at", map[string]interface{}{
					"notebook_id": touch.NotebookId,
					"error":       err.Error(),
				})
			} else if c.eventPublisher != nil {
				event := events.NewNotebookTouched(touch.NotebookId.String(), touch.TouchedAt)
				if err := c.eventPublisher.Publish(ctx, event); err != nil {
					c.log.Warn("touch", "failed to publish NOTEBOOK_TOUCHED event", map[string]interface{}{
						"notebook_id": touch.NotebookId,
						"error":       err.Error(),
					})
				}
			}
			msg.Ack()
		}
	}()

	return nil
}
