package service

import (
	"encoding/json"
	"time"

	"tabnote-be/internal/bus"
	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// TouchPublisher puts updated_at bumps on the in-process bus. It implements
// editor.Toucher: callers never wait on it and never see its errors.
type TouchPublisher struct {
	publisher message.Publisher
	log       logger.ILogger
}

func NewTouchPublisher(publisher message.Publisher, log logger.ILogger) *TouchPublisher {
	return &TouchPublisher{publisher: publisher, log: log}
}

func (p *TouchPublisher) Touch(notebookId uuid.UUID) {
	payload, err := json.Marshal(dto.TouchNotebookMessage{
		NotebookId: notebookId,
		TouchedAt:  time.Now(),
	})
	if err != nil {
		return
	}

	if err := p.publisher.Publish(bus.TopicNotebookTouch, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		p.log.Warn("touch", "failed to publish notebook.touch", map[string]interface{}{
			"notebook_id": notebookId,
			"error":       err.Error(),
		})
	}
}
