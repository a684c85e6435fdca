package editor

import (
	"context"
	"errors"

	"tabnote-be/internal/dto"

	"github.com/google/uuid"
)

var (
	// ErrNotLoaded is returned when an operation runs before Load completed.
	ErrNotLoaded = errors.New("editor: notebook not loaded")

	// ErrLoadSuperseded is returned from Load when a newer Load started
	// before this one finished. Its result must be discarded.
	ErrLoadSuperseded = errors.New("editor: load superseded by a newer load")

	// ErrNotebookNotFound is returned when the requested notebook does not
	// exist or is not visible to the current user.
	ErrNotebookNotFound = errors.New("editor: notebook not found")

	// ErrTabNotFound is returned when the target tab is not part of the
	// loaded notebook.
	ErrTabNotFound = errors.New("editor: tab not found in notebook")

	// ErrLastTab is returned when deleting the only remaining tab. The
	// session rejects this locally, no request is issued.
	ErrLastTab = errors.New("editor: cannot delete the last remaining tab")
)

// Store is the persistence surface an editor session drives. The service
// layer implements it over the repositories; tests swap in a fake.
type Store interface {
	FetchNotebook(ctx context.Context, notebookId uuid.UUID) (*dto.ShowNotebookResponse, error)
	FetchNote(ctx context.Context, tabId uuid.UUID) (*dto.NoteContentResponse, error)
	SaveNote(ctx context.Context, request *dto.SaveNoteRequest) (*dto.SaveNoteResponse, error)
	CreateTab(ctx context.Context, request *dto.CreateTabRequest) (*dto.CreateTabResponse, error)
	RenameTab(ctx context.Context, request *dto.RenameTabRequest) error
	DeleteTab(ctx context.Context, tabId uuid.UUID) error
	RenameNotebook(ctx context.Context, request *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error)
	DeleteNotebook(ctx context.Context, notebookId uuid.UUID) error
}

// Toucher bumps a notebook's updated_at out of band. Implementations must
// not block: a failed touch is logged and dropped, never surfaced to the
// editor.
type Toucher interface {
	Touch(notebookId uuid.UUID)
}

// NopToucher satisfies Toucher without doing anything.
type NopToucher struct{}

func (NopToucher) Touch(uuid.UUID) {}
