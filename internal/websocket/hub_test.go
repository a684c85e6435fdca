package websocket

import (
	"path/filepath"
	"testing"
	"time"

	"tabnote-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "hub.log"))
	hub := NewHub(nil, log)
	go hub.Run()
	return hub
}

// drained reports true once the client's Send channel has been closed,
// consuming any buffered frames along the way.
func drained(client *Client) func() bool {
	return func() bool {
		select {
		case _, ok := <-client.Send:
			return !ok
		default:
			return false
		}
	}
}

func TestHubDropsSlowClientWithoutPanicking(t *testing.T) {
	hub := newTestHub(t)
	userId := uuid.New()

	// Nobody reads from this client, so the second frame overflows.
	slow := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 1)}
	hub.register <- slow

	hub.Send(userId, "notebook_touched", map[string]interface{}{"n": 1})
	hub.Send(userId, "notebook_touched", map[string]interface{}{"n": 2})

	require.Eventually(t, drained(slow), time.Second, 10*time.Millisecond,
		"slow client should be unregistered and its channel closed")

	// The client is gone; further sends must not reach it or panic.
	hub.Send(userId, "notebook_touched", map[string]interface{}{"n": 3})
}

func TestHubSlowClientDoesNotAffectSiblings(t *testing.T) {
	hub := newTestHub(t)
	userId := uuid.New()

	slow := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 1)}
	fast := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 16)}
	hub.register <- slow
	hub.register <- fast

	// The register channel rendezvous returns before Run inserts the client
	// into the map; wait until both registrations are observable.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[userId]) == 2
	}, time.Second, 10*time.Millisecond)

	hub.Send(userId, "notebook_touched", nil)
	hub.Send(userId, "notebook_touched", nil)

	require.Eventually(t, drained(slow), time.Second, 10*time.Millisecond)

	// Both frames landed on the healthy sibling.
	assert.Len(t, fast.Send, 2)

	hub.Send(userId, "notebook_touched", nil)
	require.Eventually(t, func() bool { return len(fast.Send) == 3 }, time.Second, 10*time.Millisecond)
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := newTestHub(t)
	userId := uuid.New()

	client := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 1)}
	hub.register <- client

	// A disconnecting pump and an overflow drop can both enqueue the same
	// client; the second pass must find nothing to close.
	hub.unregister <- client
	hub.unregister <- client

	require.Eventually(t, drained(client), time.Second, 10*time.Millisecond)
	hub.Send(userId, "notebook_touched", nil)
}
