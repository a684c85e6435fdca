package events

import "time"

// Event type codes carried on the bus.
const (
	TypeNotebookTouched = "NOTEBOOK_TOUCHED"
	TypeNotebookDeleted = "NOTEBOOK_DELETED"
	TypeSessionChanged  = "SESSION_CHANGED"
	TypeNoteSaved       = "NOTE_SAVED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTEBOOK_TOUCHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and by the
// subscriber when reconstructing events off the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewNotebookTouched builds the event emitted whenever a save or structural
// change bumps a notebook's updated_at.
func NewNotebookTouched(notebookId string, touchedAt time.Time) Event {
	return BaseEvent{
		Type: TypeNotebookTouched,
		Data: map[string]interface{}{
			"notebook_id": notebookId,
			"touched_at":  touchedAt.UTC().Format(time.RFC3339Nano),
		},
		OccurredAt: touchedAt,
	}
}

// NewNotebookDeleted builds the event emitted when a notebook and its
// tabs are removed.
func NewNotebookDeleted(notebookId string, userId string) Event {
	return BaseEvent{
		Type: TypeNotebookDeleted,
		Data: map[string]interface{}{
			"notebook_id": notebookId,
			"user_id":     userId,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionChanged builds the event emitted on sign-in, sign-out and
// session expiry.
func NewSessionChanged(sessionId string, userId string, signedIn bool) Event {
	return BaseEvent{
		Type: TypeSessionChanged,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"user_id":    userId,
			"signed_in":  signedIn,
		},
		OccurredAt: time.Now(),
	}
}

// NewNoteSaved builds the event emitted after a note body is persisted.
func NewNoteSaved(tabId, notebookId, userId string) Event {
	return BaseEvent{
		Type: TypeNoteSaved,
		Data: map[string]interface{}{
			"tab_id":      tabId,
			"notebook_id": notebookId,
			"user_id":     userId,
		},
		OccurredAt: time.Now(),
	}
}
