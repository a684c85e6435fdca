package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/logger"

	"github.com/google/uuid"
)

const defaultTabTitle = "New Tab"

// Session is the per-connection editor state machine. It owns the loaded
// notebook, the active tab, the unsaved note body and the autosave
// debouncer. All exported methods are safe for concurrent use; the
// debounced save fires on its own goroutine.
type Session struct {
	store   Store
	toucher Toucher
	log     logger.ILogger

	debouncer *Debouncer

	mu          sync.Mutex
	generation  uint64
	loaded      bool
	notebook    *dto.ShowNotebookResponse
	activeTabId uuid.UUID
	content     string
	isSaving    bool
	lastSavedAt *time.Time
}

func NewSession(store Store, toucher Toucher, log logger.ILogger, debounce time.Duration) *Session {
	if toucher == nil {
		toucher = NopToucher{}
	}
	return &Session{
		store:     store,
		toucher:   toucher,
		log:       log,
		debouncer: NewDebouncer(debounce),
	}
}

// Load fetches the notebook, picks the first tab by position as active and
// fetches its note body. A Load that is overtaken by a newer Load returns
// ErrLoadSuperseded and leaves the session untouched.
func (s *Session) Load(ctx context.Context, notebookId uuid.UUID) error {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	s.debouncer.CancelPending()

	notebook, err := s.store.FetchNotebook(ctx, notebookId)
	if err != nil {
		return err
	}
	if notebook == nil {
		return ErrNotebookNotFound
	}

	var activeTabId uuid.UUID
	content := ""
	if len(notebook.Tabs) > 0 {
		activeTabId = notebook.Tabs[0].Id
		note, err := s.store.FetchNote(ctx, activeTabId)
		if err != nil {
			return err
		}
		if note != nil && note.Exists {
			content = note.Content
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return ErrLoadSuperseded
	}

	s.notebook = notebook
	s.activeTabId = activeTabId
	s.content = content
	s.loaded = true
	s.isSaving = false
	s.lastSavedAt = nil
	return nil
}

// SetContent replaces the buffered note body and arms the autosave. While a
// save is in flight the buffer still updates but no new save is scheduled;
// the next keystroke after the save completes re-arms it.
func (s *Session) SetContent(content string) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.content = content
	saving := s.isSaving
	tabId := s.activeTabId
	s.mu.Unlock()

	if saving {
		return nil
	}

	s.debouncer.Schedule(func() {
		s.saveNote(context.Background(), tabId, content)
	})
	return nil
}

// Flush cancels the autosave window and saves the current buffer now.
func (s *Session) Flush(ctx context.Context) error {
	s.debouncer.CancelPending()

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	tabId := s.activeTabId
	content := s.content
	s.mu.Unlock()

	return s.saveNote(ctx, tabId, content)
}

// saveNote persists content against tabId. It is a no-op when the session
// is not loaded, when the body is blank, or when another save is already
// in flight. Blank bodies are never persisted, so a buffer cleared by the
// user keeps the last saved revision on the server.
func (s *Session) saveNote(ctx context.Context, tabId uuid.UUID, content string) error {
	s.mu.Lock()
	if !s.loaded || s.isSaving || strings.TrimSpace(content) == "" {
		s.mu.Unlock()
		return nil
	}
	s.isSaving = true
	notebookId := s.notebook.Id
	s.mu.Unlock()

	response, err := s.store.SaveNote(ctx, &dto.SaveNoteRequest{TabId: tabId, Content: content})

	s.mu.Lock()
	s.isSaving = false
	if err == nil && response != nil {
		savedAt := response.SavedAt
		s.lastSavedAt = &savedAt
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("editor", "autosave failed", map[string]interface{}{
			"tab_id": tabId,
			"error":  err.Error(),
		})
		return err
	}

	// Fire-and-forget updated_at bump so the notebook list reorders.
	s.toucher.Touch(notebookId)
	return nil
}

// SwitchTab flushes the current buffer, then fetches the target tab's note
// and makes it active. The flush happens before the fetch so a keystroke
// made just before switching is never lost.
func (s *Session) SwitchTab(ctx context.Context, tabId uuid.UUID) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if s.findTab(tabId) == nil {
		s.mu.Unlock()
		return ErrTabNotFound
	}
	previousTabId := s.activeTabId
	previousContent := s.content
	s.mu.Unlock()

	if tabId == previousTabId {
		return nil
	}

	s.debouncer.CancelPending()
	if err := s.saveNote(ctx, previousTabId, previousContent); err != nil {
		return err
	}

	note, err := s.store.FetchNote(ctx, tabId)
	if err != nil {
		return err
	}
	content := ""
	if note != nil && note.Exists {
		content = note.Content
	}

	s.mu.Lock()
	s.activeTabId = tabId
	s.content = content
	s.mu.Unlock()
	return nil
}

// AddTab creates a tab at the end of the strip and makes it active with an
// empty buffer. A pending autosave for the previous tab is left armed; it
// fires against the tab it was scheduled for.
func (s *Session) AddTab(ctx context.Context, title string) (uuid.UUID, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return uuid.Nil, ErrNotLoaded
	}
	notebookId := s.notebook.Id
	s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTabTitle
	}

	created, err := s.store.CreateTab(ctx, &dto.CreateTabRequest{NotebookId: notebookId, Title: title})
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.notebook.Tabs = append(s.notebook.Tabs, dto.TabResponse{
		Id:       created.Id,
		Title:    title,
		Position: created.Position,
	})
	s.activeTabId = created.Id
	s.content = ""
	s.mu.Unlock()

	s.toucher.Touch(notebookId)
	return created.Id, nil
}

// RenameTab renames a tab in place. A blank title cancels the rename:
// nothing is sent and the old title stands.
func (s *Session) RenameTab(ctx context.Context, tabId uuid.UUID, title string) error {
	title = strings.TrimSpace(title)

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if s.findTab(tabId) == nil {
		s.mu.Unlock()
		return ErrTabNotFound
	}
	notebookId := s.notebook.Id
	s.mu.Unlock()

	if title == "" {
		return nil
	}

	if err := s.store.RenameTab(ctx, &dto.RenameTabRequest{Id: tabId, Title: title}); err != nil {
		return err
	}

	s.mu.Lock()
	if tab := s.findTab(tabId); tab != nil {
		tab.Title = title
	}
	s.mu.Unlock()

	s.toucher.Touch(notebookId)
	return nil
}

// DeleteTab removes a tab. Deleting the only remaining tab is rejected
// locally with ErrLastTab, no request is issued. When the active tab is
// deleted the first remaining tab becomes active; its pending autosave is
// dropped rather than flushed, the buffer belonged to the deleted tab.
func (s *Session) DeleteTab(ctx context.Context, tabId uuid.UUID) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if s.findTab(tabId) == nil {
		s.mu.Unlock()
		return ErrTabNotFound
	}
	if len(s.notebook.Tabs) <= 1 {
		s.mu.Unlock()
		return ErrLastTab
	}
	wasActive := s.activeTabId == tabId
	notebookId := s.notebook.Id
	s.mu.Unlock()

	if wasActive {
		s.debouncer.CancelPending()
	}

	if err := s.store.DeleteTab(ctx, tabId); err != nil {
		return err
	}

	s.mu.Lock()
	tabs := s.notebook.Tabs[:0]
	for _, tab := range s.notebook.Tabs {
		if tab.Id != tabId {
			tabs = append(tabs, tab)
		}
	}
	s.notebook.Tabs = tabs
	nextTabId := uuid.Nil
	if wasActive && len(tabs) > 0 {
		nextTabId = tabs[0].Id
	}
	s.mu.Unlock()

	if wasActive && nextTabId != uuid.Nil {
		note, err := s.store.FetchNote(ctx, nextTabId)
		if err != nil {
			return err
		}
		content := ""
		if note != nil && note.Exists {
			content = note.Content
		}
		s.mu.Lock()
		s.activeTabId = nextTabId
		s.content = content
		s.mu.Unlock()
	}

	s.toucher.Touch(notebookId)
	return nil
}

// RenameNotebook renames the loaded notebook. A blank title cancels the
// rename without a request, same as RenameTab.
func (s *Session) RenameNotebook(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	notebookId := s.notebook.Id
	s.mu.Unlock()

	if title == "" {
		return nil
	}

	response, err := s.store.RenameNotebook(ctx, &dto.UpdateNotebookRequest{Id: notebookId, Title: title})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.notebook.Title = response.Title
	s.mu.Unlock()
	return nil
}

// DeleteNotebook flushes nothing, drops any pending autosave and deletes
// the loaded notebook. The session unloads afterwards.
func (s *Session) DeleteNotebook(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	notebookId := s.notebook.Id
	s.mu.Unlock()

	s.debouncer.CancelPending()

	if err := s.store.DeleteNotebook(ctx, notebookId); err != nil {
		return err
	}

	s.mu.Lock()
	s.loaded = false
	s.notebook = nil
	s.activeTabId = uuid.Nil
	s.content = ""
	s.mu.Unlock()
	return nil
}

// Close drops any pending autosave without firing it.
func (s *Session) Close() {
	s.debouncer.CancelPending()
}

// Snapshot returns a copy of the visible editor state for the client.
func (s *Session) Snapshot() *dto.EditorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return &dto.EditorSnapshot{}
	}

	notebook := *s.notebook
	notebook.Tabs = append([]dto.TabResponse(nil), s.notebook.Tabs...)

	var lastSavedAt *time.Time
	if s.lastSavedAt != nil {
		at := *s.lastSavedAt
		lastSavedAt = &at
	}

	return &dto.EditorSnapshot{
		Notebook:    &notebook,
		ActiveTabId: s.activeTabId,
		NoteContent: s.content,
		IsSaving:    s.isSaving,
		LastSavedAt: lastSavedAt,
	}
}

// Loaded reports whether a notebook is loaded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// findTab returns a pointer into the tabs slice. Callers must hold mu.
func (s *Session) findTab(tabId uuid.UUID) *dto.TabResponse {
	for i := range s.notebook.Tabs {
		if s.notebook.Tabs[i].Id == tabId {
			return &s.notebook.Tabs[i]
		}
	}
	return nil
}
