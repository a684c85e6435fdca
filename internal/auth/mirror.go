package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"tabnote-be/internal/bus"
	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/logger"
	"tabnote-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// ErrSignedOut is returned when an operation needs a signed-in session and
// the mirror has none.
var ErrSignedOut = errors.New("auth: no signed-in session")

// SessionService is the slice of the session layer the mirror consumes.
type SessionService interface {
	Get(sessionId string) (*store.Session, bool)
	SignOut(ctx context.Context, sessionId string) error
}

// ProfileService loads and mutates the profile of the mirrored user.
type ProfileService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, request *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

// Mirror tracks one client's session against the session store. It seeds
// itself from the store, then follows session.changed messages so an
// expiry or sign-out elsewhere is reflected here without polling.
type Mirror struct {
	sessionId string
	sessions  SessionService
	profiles  ProfileService
	log       logger.ILogger

	mu      sync.RWMutex
	current *store.Session

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMirror seeds the mirror for sessionId and starts following
// session.changed. The subscriber is shared; the mirror filters messages
// for its own session id.
func NewMirror(sessionId string, sessions SessionService, profiles ProfileService, subscriber message.Subscriber, log logger.ILogger) (*Mirror, error) {
	m := &Mirror{
		sessionId: sessionId,
		sessions:  sessions,
		profiles:  profiles,
		log:       log,
		done:      make(chan struct{}),
	}

	if session, ok := sessions.Get(sessionId); ok {
		m.current = session
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	messages, err := subscriber.Subscribe(ctx, bus.TopicSessionChanged)
	if err != nil {
		cancel()
		return nil, err
	}

	go m.follow(messages)
	return m, nil
}

func (m *Mirror) follow(messages <-chan *message.Message) {
	defer close(m.done)
	for msg := range messages {
		var changed bus.SessionChangedMessage
		if err := json.Unmarshal(msg.Payload, &changed); err != nil {
			m.log.Warn("auth.mirror", "malformed session.changed payload", map[string]interface{}{
				"error": err.Error(),
			})
			msg.Ack()
			continue
		}
		msg.Ack()

		if changed.SessionId != m.sessionId {
			continue
		}

		m.mu.Lock()
		if changed.SignedIn {
			if session, ok := m.sessions.Get(m.sessionId); ok {
				m.current = session
			}
		} else {
			m.current = nil
		}
		m.mu.Unlock()
	}
}

// CurrentUser returns the mirrored session, if one is signed in.
func (m *Mirror) CurrentUser() (*store.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	session := *m.current
	return &session, true
}

// CurrentProfile loads the signed-in user's profile.
func (m *Mirror) CurrentProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	session, ok := m.CurrentUser()
	if !ok {
		return nil, ErrSignedOut
	}
	return m.profiles.GetProfile(ctx, session.UserID)
}

// UpdateProfile applies a partial profile update for the signed-in user.
func (m *Mirror) UpdateProfile(ctx context.Context, request *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	session, ok := m.CurrentUser()
	if !ok {
		return nil, ErrSignedOut
	}
	return m.profiles.UpdateProfile(ctx, session.UserID, request)
}

// SignOut ends the mirrored session. The resulting session.changed message
// clears this mirror and every other mirror of the same session.
func (m *Mirror) SignOut(ctx context.Context) error {
	session, ok := m.CurrentUser()
	if !ok {
		return ErrSignedOut
	}
	return m.sessions.SignOut(ctx, session.ID)
}

// SignInURL is where an unauthenticated client is sent to start the Google
// sign-in flow.
func SignInURL(baseURL string) string {
	return baseURL + "/api/oauth/v1/google/login"
}

// Close stops following session.changed.
func (m *Mirror) Close() {
	m.cancel()
	<-m.done
}
