package service

import (
	"context"
	"encoding/json"
	"time"

	"tabnote-be/internal/bus"
	"tabnote-be/internal/pkg/logger"
	"tabnote-be/internal/repository/memory"
	"tabnote-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// ISessionService owns the in-memory session store and announces every
// session transition on the in-process bus so auth mirrors stay current.
type ISessionService interface {
	Create(ctx context.Context, userId uuid.UUID, email, provider string) (*store.Session, error)
	Get(sessionId string) (*store.Session, bool)
	SignOut(ctx context.Context, sessionId string) error
}

type sessionService struct {
	sessions  *memory.SessionRepository
	publisher message.Publisher
	log       logger.ILogger
}

func NewSessionService(sessions *memory.SessionRepository, publisher message.Publisher, log logger.ILogger) ISessionService {
	return &sessionService{
		sessions:  sessions,
		publisher: publisher,
		log:       log,
	}
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID, email, provider string) (*store.Session, error) {
	session := &store.Session{
		ID:        uuid.New().String(),
		UserID:    userId,
		Email:     email,
		Provider:  provider,
		CreatedAt: time.Now(),
	}

	s.sessions.Save(session)
	s.announce(session.ID, userId, true)
	return session, nil
}

func (s *sessionService) Get(sessionId string) (*store.Session, bool) {
	return s.sessions.Get(sessionId)
}

func (s *sessionService) SignOut(ctx context.Context, sessionId string) error {
	session, ok := s.sessions.Get(sessionId)
	if !ok {
		return nil
	}

	s.sessions.Delete(sessionId)
	s.announce(sessionId, session.UserID, false)

	s.log.Info("session", "session signed out", map[string]interface{}{
		"session_id": sessionId,
		"user_id":    session.UserID,
	})
	return nil
}

func (s *sessionService) announce(sessionId string, userId uuid.UUID, signedIn bool) {
	payload, err := json.Marshal(bus.SessionChangedMessage{
		SessionId: sessionId,
		UserId:    userId,
		SignedIn:  signedIn,
		At:        time.Now(),
	})
	if err != nil {
		return
	}

	if err := s.publisher.Publish(bus.TopicSessionChanged, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.log.Warn("session", "failed to publish session.changed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}
