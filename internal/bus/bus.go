package bus

import (
	"time"

	"github.com/google/uuid"
)

// In-process topics carried over the watermill gochannel bus.
const (
	// TopicSessionChanged announces sign-in, sign-out and session expiry.
	TopicSessionChanged = "session.changed"

	// TopicNotebookTouch carries the fire-and-forget updated_at bumps
	// emitted after saves and structural edits.
	TopicNotebookTouch = "notebook.touch"
)

// SessionChangedMessage is the payload on TopicSessionChanged.
type SessionChangedMessage struct {
	SessionId string    `json:"session_id"`
	UserId    uuid.UUID `json:"user_id"`
	SignedIn  bool      `json:"signed_in"`
	At        time.Time `json:"at"`
}
