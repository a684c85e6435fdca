package service

import (
	"context"
	"errors"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/editor"

	"github.com/google/uuid"
)

// editorStore adapts the user-scoped services onto the narrow surface the
// editor session drives. One store per connection, bound to its user.
type editorStore struct {
	userId    uuid.UUID
	notebooks INotebookService
	tabs      ITabService
	notes     INoteService
}

func NewEditorStore(userId uuid.UUID, notebooks INotebookService, tabs ITabService, notes INoteService) editor.Store {
	return &editorStore{
		userId:    userId,
		notebooks: notebooks,
		tabs:      tabs,
		notes:     notes,
	}
}

func (s *editorStore) FetchNotebook(ctx context.Context, notebookId uuid.UUID) (*dto.ShowNotebookResponse, error) {
	notebook, err := s.notebooks.Show(ctx, s.userId, notebookId)
	if errors.Is(err, ErrNotebookNotFound) {
		return nil, editor.ErrNotebookNotFound
	}
	return notebook, err
}

func (s *editorStore) FetchNote(ctx context.Context, tabId uuid.UUID) (*dto.NoteContentResponse, error) {
	return s.notes.GetByTab(ctx, s.userId, tabId)
}

func (s *editorStore) SaveNote(ctx context.Context, request *dto.SaveNoteRequest) (*dto.SaveNoteResponse, error) {
	return s.notes.Save(ctx, s.userId, request)
}

func (s *editorStore) CreateTab(ctx context.Context, request *dto.CreateTabRequest) (*dto.CreateTabResponse, error) {
	return s.tabs.Create(ctx, s.userId, request)
}

func (s *editorStore) RenameTab(ctx context.Context, request *dto.RenameTabRequest) error {
	return s.tabs.Rename(ctx, s.userId, request)
}

func (s *editorStore) DeleteTab(ctx context.Context, tabId uuid.UUID) error {
	err := s.tabs.Delete(ctx, s.userId, tabId)
	if errors.Is(err, ErrLastTab) {
		// The session checks this locally first; mirror the sentinel in
		// case state drifted.
		return editor.ErrLastTab
	}
	return err
}

func (s *editorStore) RenameNotebook(ctx context.Context, request *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error) {
	return s.notebooks.Rename(ctx, s.userId, request)
}

func (s *editorStore) DeleteNotebook(ctx context.Context, notebookId uuid.UUID) error {
	return s.notebooks.Delete(ctx, s.userId, notebookId)
}
