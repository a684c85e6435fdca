package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tabnote-be/internal/pkg/logger"
	"tabnote-be/pkg/events"
	pktNats "tabnote-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates. Typically
// implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, frameType string, data interface{})
}

// EventNotifier bridges the NATS event stream into the notification inbox
// and the websocket push channel. It is the piece that tells a user's other
// devices about sign-ins and saves happening elsewhere.
type EventNotifier struct {
	subscriber    *pktNats.Subscriber
	notifications INotificationService
	delivery      NotificationDelivery
	logger        logger.ILogger
}

func NewEventNotifier(subscriber *pktNats.Subscriber, notifications INotificationService, delivery NotificationDelivery, log logger.ILogger) *EventNotifier {
	return &EventNotifier{
		subscriber:    subscriber,
		notifications: notifications,
		delivery:      delivery,
		logger:        log,
	}
}

// Start begins listening to the event bus.
func (s *EventNotifier) Start() {
	err := s.subscriber.Subscribe("tabnote.>", "event-notifier-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("EventNotifier", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventNotifier", "Event notifier started, listening to tabnote.>", nil)
}

func (s *EventNotifier) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "tabnote.")
	payload := event.Payload()

	userId, ok := payloadUserId(payload)
	if !ok {
		return nil
	}

	switch typeCode {
	case events.TypeSessionChanged:
		signedIn, _ := payload["signed_in"].(bool)
		if !signedIn {
			return nil
		}

		err := s.notifications.Notify(ctx, userId, "NEW_SIGN_IN", "New sign-in",
			fmt.Sprintf("Your account was signed in at %s.", event.Timestamp().Format(time.RFC822)),
			payload)
		if err != nil {
			s.logger.Error("EventNotifier", "Failed to store sign-in notification", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
			return err
		}

		if s.delivery != nil {
			s.delivery.Send(userId, "notification", payload)
		}

	case events.TypeNoteSaved:
		// Push only: every autosave as an inbox row would be noise.
		if s.delivery != nil {
			s.delivery.Send(userId, "note_saved", payload)
		}
	}

	return nil
}

func payloadUserId(payload map[string]interface{}) (uuid.UUID, bool) {
	raw, ok := payload["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
