package auth

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"tabnote-be/internal/bus"
	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/logger"
	"tabnote-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*store.Session
	signOuts []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*store.Session)}
}

func (f *fakeSessions) put(session *store.Session) {
	f.mu.Lock()
	f.sessions[session.ID] = session
	f.mu.Unlock()
}

func (f *fakeSessions) Get(sessionId string) (*store.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionId]
	return session, ok
}

func (f *fakeSessions) SignOut(ctx context.Context, sessionId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionId)
	f.signOuts = append(f.signOuts, sessionId)
	return nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*dto.ProfileResponse
	updates  int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[uuid.UUID]*dto.ProfileResponse)}
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userId], nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, userId uuid.UUID, request *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	profile := f.profiles[userId]
	if request.FullName != nil {
		profile.FullName = *request.FullName
	}
	return profile, nil
}

func newTestPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
}

func publishSessionChanged(t *testing.T, pubSub *gochannel.GoChannel, sessionId string, userId uuid.UUID, signedIn bool) {
	t.Helper()
	payload, err := json.Marshal(bus.SessionChangedMessage{
		SessionId: sessionId,
		UserId:    userId,
		SignedIn:  signedIn,
		At:        time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(bus.TopicSessionChanged, message.NewMessage(watermill.NewUUID(), payload)))
}

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewIsolatedLogger(t.TempDir() + "/mirror_test.log")
}

func seededMirror(t *testing.T) (*Mirror, *fakeSessions, *fakeProfiles, *gochannel.GoChannel, *store.Session) {
	t.Helper()

	sessions := newFakeSessions()
	profiles := newFakeProfiles()
	pubSub := newTestPubSub()

	session := &store.Session{
		ID:        uuid.New().String(),
		UserID:    uuid.New(),
		Email:     "ada@example.com",
		Provider:  "password",
		CreatedAt: time.Now(),
	}
	sessions.put(session)
	profiles.profiles[session.UserID] = &dto.ProfileResponse{
		Id:       session.UserID,
		Email:    session.Email,
		FullName: "Ada",
	}

	mirror, err := NewMirror(session.ID, sessions, profiles, pubSub, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(mirror.Close)

	return mirror, sessions, profiles, pubSub, session
}

func TestMirrorSeedsFromStore(t *testing.T) {
	mirror, _, _, _, session := seededMirror(t)

	current, ok := mirror.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, session.UserID, current.UserID)
	assert.Equal(t, "password", current.Provider)
}

func TestMirrorClearsOnSignOutElsewhere(t *testing.T) {
	mirror, sessions, _, pubSub, session := seededMirror(t)

	// Simulate the session store dropping the session on another device.
	_ = sessions.SignOut(context.Background(), session.ID)
	publishSessionChanged(t, pubSub, session.ID, session.UserID, false)

	assert.Eventually(t, func() bool {
		_, ok := mirror.CurrentUser()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestMirrorIgnoresOtherSessions(t *testing.T) {
	mirror, _, _, pubSub, session := seededMirror(t)

	publishSessionChanged(t, pubSub, uuid.New().String(), uuid.New(), false)

	time.Sleep(50 * time.Millisecond)
	current, ok := mirror.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, session.UserID, current.UserID)
}

func TestMirrorRefreshesOnSignIn(t *testing.T) {
	mirror, sessions, _, pubSub, session := seededMirror(t)

	_ = sessions.SignOut(context.Background(), session.ID)
	publishSessionChanged(t, pubSub, session.ID, session.UserID, false)
	require.Eventually(t, func() bool {
		_, ok := mirror.CurrentUser()
		return !ok
	}, time.Second, 5*time.Millisecond)

	sessions.put(session)
	publishSessionChanged(t, pubSub, session.ID, session.UserID, true)

	assert.Eventually(t, func() bool {
		_, ok := mirror.CurrentUser()
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestMirrorProfileOperations(t *testing.T) {
	mirror, _, profiles, _, session := seededMirror(t)

	profile, err := mirror.CurrentProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FullName)

	name := "Ada Lovelace"
	updated, err := mirror.UpdateProfile(context.Background(), &dto.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.FullName)
	assert.Equal(t, 1, profiles.updates)

	_ = session
}

func TestMirrorSignedOutOperationsFail(t *testing.T) {
	mirror, sessions, _, pubSub, session := seededMirror(t)

	_ = sessions.SignOut(context.Background(), session.ID)
	publishSessionChanged(t, pubSub, session.ID, session.UserID, false)
	require.Eventually(t, func() bool {
		_, ok := mirror.CurrentUser()
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, err := mirror.CurrentProfile(context.Background())
	assert.ErrorIs(t, err, ErrSignedOut)

	assert.ErrorIs(t, mirror.SignOut(context.Background()), ErrSignedOut)
}

func TestMirrorSignOut(t *testing.T) {
	mirror, sessions, _, _, session := seededMirror(t)

	require.NoError(t, mirror.SignOut(context.Background()))

	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	assert.Contains(t, sessions.signOuts, session.ID)
}

func TestSignInURL(t *testing.T) {
	assert.Equal(t,
		"https://notes.example.com/api/oauth/v1/google/login",
		SignInURL("https://notes.example.com"),
	)
}
