package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoteContentResponse struct {
	TabId   uuid.UUID `json:"tab_id"`
	Content string    `json:"content"`
	// Exists distinguishes "no note yet" (empty-state) from an empty save.
	Exists bool `json:"exists"`
}

type SaveNoteRequest struct {
	TabId   uuid.UUID
	Content string `json:"content"`
}

type SaveNoteResponse struct {
	TabId   uuid.UUID `json:"tab_id"`
	SavedAt time.Time `json:"saved_at"`
}

// TouchNotebookMessage is the payload of the fire-and-forget updated_at bump
// published after a successful save.
type TouchNotebookMessage struct {
	NotebookId uuid.UUID `json:"notebook_id"`
	TouchedAt  time.Time `json:"touched_at"`
}
