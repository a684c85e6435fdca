package dto

import (
	"time"

	"github.com/google/uuid"
)

// Editor websocket protocol. The client sends events; the server answers with
// state snapshots and error frames.

const (
	EditorEventContentChange  = "content_change"
	EditorEventSwitchTab      = "switch_tab"
	EditorEventAddTab         = "add_tab"
	EditorEventRenameTab      = "rename_tab"
	EditorEventDeleteTab      = "delete_tab"
	EditorEventRenameNotebook = "rename_notebook"
	EditorEventDeleteNotebook = "delete_notebook"
	EditorEventFlush          = "flush"
)

type EditorClientEvent struct {
	Type    string    `json:"type"`
	TabId   uuid.UUID `json:"tab_id,omitempty"`
	Title   string    `json:"title,omitempty"`
	Content string    `json:"content,omitempty"`
}

type EditorSnapshot struct {
	Notebook    *ShowNotebookResponse `json:"notebook"`
	ActiveTabId uuid.UUID             `json:"active_tab_id"`
	NoteContent string                `json:"note_content"`
	IsSaving    bool                  `json:"is_saving"`
	LastSavedAt *time.Time            `json:"last_saved_at"`
}

type EditorServerFrame struct {
	Type     string          `json:"type"` // "snapshot" | "error" | "closed"
	Snapshot *EditorSnapshot `json:"snapshot,omitempty"`
	Message  string          `json:"message,omitempty"`
}
