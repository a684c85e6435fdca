package editor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps notebooks and notes in maps and records every call in
// order, so tests can assert both state and sequencing.
type fakeStore struct {
	mu    sync.Mutex
	calls []string

	notebooks    map[uuid.UUID]*dto.ShowNotebookResponse
	notes        map[uuid.UUID]string
	nextPosition int

	saveErr error

	// When set, the first FetchNotebook for blockOn signals started and
	// waits for release. Used to race two loads deterministically.
	blockOn uuid.UUID
	started chan struct{}
	release chan struct{}
	blocked bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		notebooks: make(map[uuid.UUID]*dto.ShowNotebookResponse),
		notes:     make(map[uuid.UUID]string),
	}
}

func (f *fakeStore) record(format string, args ...interface{}) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

func (f *fakeStore) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) addNotebook(title string, tabTitles ...string) *dto.ShowNotebookResponse {
	notebook := &dto.ShowNotebookResponse{
		Id:    uuid.New(),
		Title: title,
	}
	for i, tabTitle := range tabTitles {
		notebook.Tabs = append(notebook.Tabs, dto.TabResponse{
			Id:       uuid.New(),
			Title:    tabTitle,
			Position: i,
		})
	}
	f.nextPosition = len(tabTitles)
	f.notebooks[notebook.Id] = notebook
	return notebook
}

func (f *fakeStore) FetchNotebook(ctx context.Context, notebookId uuid.UUID) (*dto.ShowNotebookResponse, error) {
	f.mu.Lock()
	shouldBlock := notebookId == f.blockOn && !f.blocked
	if shouldBlock {
		f.blocked = true
	}
	f.mu.Unlock()

	if shouldBlock {
		close(f.started)
		<-f.release
	}

	f.record("FetchNotebook:%s", notebookId)

	f.mu.Lock()
	defer f.mu.Unlock()
	notebook, ok := f.notebooks[notebookId]
	if !ok {
		return nil, nil
	}
	copied := *notebook
	copied.Tabs = append([]dto.TabResponse(nil), notebook.Tabs...)
	return &copied, nil
}

func (f *fakeStore) FetchNote(ctx context.Context, tabId uuid.UUID) (*dto.NoteContentResponse, error) {
	f.record("FetchNote:%s", tabId)

	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.notes[tabId]
	return &dto.NoteContentResponse{TabId: tabId, Content: content, Exists: ok}, nil
}

func (f *fakeStore) SaveNote(ctx context.Context, request *dto.SaveNoteRequest) (*dto.SaveNoteResponse, error) {
	f.record("SaveNote:%s", request.TabId)

	if f.saveErr != nil {
		return nil, f.saveErr
	}

	f.mu.Lock()
	f.notes[request.TabId] = request.Content
	f.mu.Unlock()
	return &dto.SaveNoteResponse{TabId: request.TabId, SavedAt: time.Now()}, nil
}

func (f *fakeStore) CreateTab(ctx context.Context, request *dto.CreateTabRequest) (*dto.CreateTabResponse, error) {
	f.record("CreateTab:%s", request.Title)

	f.mu.Lock()
	defer f.mu.Unlock()
	tab := dto.TabResponse{Id: uuid.New(), Title: request.Title, Position: f.nextPosition}
	f.nextPosition++
	notebook := f.notebooks[request.NotebookId]
	notebook.Tabs = append(notebook.Tabs, tab)
	return &dto.CreateTabResponse{Id: tab.Id, Position: tab.Position}, nil
}

func (f *fakeStore) RenameTab(ctx context.Context, request *dto.RenameTabRequest) error {
	f.record("RenameTab:%s", request.Title)
	return nil
}

func (f *fakeStore) DeleteTab(ctx context.Context, tabId uuid.UUID) error {
	f.record("DeleteTab:%s", tabId)
	return nil
}

func (f *fakeStore) RenameNotebook(ctx context.Context, request *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error) {
	f.record("RenameNotebook:%s", request.Title)
	return &dto.UpdateNotebookResponse{Id: request.Id, Title: request.Title}, nil
}

func (f *fakeStore) DeleteNotebook(ctx context.Context, notebookId uuid.UUID) error {
	f.record("DeleteNotebook:%s", notebookId)

	f.mu.Lock()
	delete(f.notebooks, notebookId)
	f.mu.Unlock()
	return nil
}

type fakeToucher struct {
	mu      sync.Mutex
	touches []uuid.UUID
}

func (t *fakeToucher) Touch(notebookId uuid.UUID) {
	t.mu.Lock()
	t.touches = append(t.touches, notebookId)
	t.mu.Unlock()
}

func (t *fakeToucher) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.touches)
}

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewIsolatedLogger(t.TempDir() + "/editor_test.log")
}

func TestLoadPicksFirstTabAndItsNote(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab", "Soups")
	store.notes[notebook.Tabs[0].Id] = "shopping list"

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	snap := s.Snapshot()
	assert.Equal(t, notebook.Tabs[0].Id, snap.ActiveTabId)
	assert.Equal(t, "shopping list", snap.NoteContent)
	assert.Len(t, snap.Notebook.Tabs, 2)
}

func TestLoadMissingNotebook(t *testing.T) {
	store := newFakeStore()
	s := NewSession(store, nil, testLogger(t), time.Hour)

	err := s.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotebookNotFound)
	assert.False(t, s.Loaded())
}

func TestLoadTabWithoutNoteShowsEmpty(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Fresh", "First Tab")

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	assert.Equal(t, "", s.Snapshot().NoteContent)
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	store := newFakeStore()
	slow := store.addNotebook("Slow", "A")
	fast := store.addNotebook("Fast", "B")

	store.blockOn = slow.Id
	store.started = make(chan struct{})
	store.release = make(chan struct{})

	s := NewSession(store, nil, testLogger(t), time.Hour)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Load(context.Background(), slow.Id)
	}()

	<-store.started
	require.NoError(t, s.Load(context.Background(), fast.Id))
	close(store.release)

	assert.ErrorIs(t, <-errCh, ErrLoadSuperseded)
	assert.Equal(t, "Fast", s.Snapshot().Notebook.Title)
}

func TestSetContentBeforeLoad(t *testing.T) {
	s := NewSession(newFakeStore(), nil, testLogger(t), time.Hour)
	assert.ErrorIs(t, s.SetContent("anything"), ErrNotLoaded)
}

func TestAutosaveFiresAfterQuiescence(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")
	toucher := &fakeToucher{}

	s := NewSession(store, toucher, testLogger(t), 20*time.Millisecond)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.SetContent("e"))
	require.NoError(t, s.SetContent("eg"))
	require.NoError(t, s.SetContent("eggs"))

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.notes[notebook.Tabs[0].Id] == "eggs"
	}, time.Second, 5*time.Millisecond)

	// Rapid keystrokes collapse into one save.
	saves := 0
	for _, call := range store.callLog() {
		if call == "SaveNote:"+notebook.Tabs[0].Id.String() {
			saves++
		}
	}
	assert.Equal(t, 1, saves)
	assert.Equal(t, 1, toucher.count())
	assert.NotNil(t, s.Snapshot().LastSavedAt)
}

func TestBlankContentIsNeverSaved(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")
	store.notes[notebook.Tabs[0].Id] = "keep me"

	s := NewSession(store, nil, testLogger(t), 10*time.Millisecond)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.SetContent("   \n\t"))
	time.Sleep(100 * time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, "keep me", store.notes[notebook.Tabs[0].Id], "clearing the buffer must not erase the saved note")
}

func TestSwitchTabFlushesBeforeFetching(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab", "Soups")
	store.notes[notebook.Tabs[1].Id] = "tomato soup"

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))
	require.NoError(t, s.SetContent("half-typed line"))

	require.NoError(t, s.SwitchTab(context.Background(), notebook.Tabs[1].Id))

	snap := s.Snapshot()
	assert.Equal(t, notebook.Tabs[1].Id, snap.ActiveTabId)
	assert.Equal(t, "tomato soup", snap.NoteContent)

	store.mu.Lock()
	assert.Equal(t, "half-typed line", store.notes[notebook.Tabs[0].Id])
	store.mu.Unlock()

	// The save must land before the new tab's note is read.
	saveIdx, fetchIdx := -1, -1
	for i, call := range store.callLog() {
		if call == "SaveNote:"+notebook.Tabs[0].Id.String() && saveIdx == -1 {
			saveIdx = i
		}
		if call == "FetchNote:"+notebook.Tabs[1].Id.String() {
			fetchIdx = i
		}
	}
	require.GreaterOrEqual(t, saveIdx, 0)
	require.GreaterOrEqual(t, fetchIdx, 0)
	assert.Less(t, saveIdx, fetchIdx)
}

func TestSwitchToUnknownTab(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	assert.ErrorIs(t, s.SwitchTab(context.Background(), uuid.New()), ErrTabNotFound)
}

func TestAddTabActivatesItEmpty(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, &fakeToucher{}, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))
	require.NoError(t, s.SetContent("draft"))

	newTabId, err := s.AddTab(context.Background(), "Desserts")
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, newTabId, snap.ActiveTabId)
	assert.Equal(t, "", snap.NoteContent)
	require.Len(t, snap.Notebook.Tabs, 2)
	assert.Equal(t, 1, snap.Notebook.Tabs[1].Position)
}

func TestAddTabLeavesPendingSaveForOldTab(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, nil, testLogger(t), 30*time.Millisecond)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	firstTabId := notebook.Tabs[0].Id
	require.NoError(t, s.SetContent("draft for first tab"))

	_, err := s.AddTab(context.Background(), "Desserts")
	require.NoError(t, err)

	// The armed autosave still targets the tab it was scheduled on.
	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.notes[firstTabId] == "draft for first tab"
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "", s.Snapshot().NoteContent)
}

func TestDeleteLastTabRejectedLocally(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	err := s.DeleteTab(context.Background(), notebook.Tabs[0].Id)
	assert.ErrorIs(t, err, ErrLastTab)

	for _, call := range store.callLog() {
		assert.NotContains(t, call, "DeleteTab", "no request may be issued for a rejected delete")
	}
}

func TestDeleteActiveTabActivatesFirstRemaining(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab", "Soups")
	store.notes[notebook.Tabs[0].Id] = "kept content"

	s := NewSession(store, &fakeToucher{}, testLogger(t), 200*time.Millisecond)
	require.NoError(t, s.Load(context.Background(), notebook.Id))
	require.NoError(t, s.SwitchTab(context.Background(), notebook.Tabs[1].Id))

	// Typed into the doomed tab; that buffer must die with it.
	require.NoError(t, s.SetContent("doomed keystrokes"))
	require.NoError(t, s.DeleteTab(context.Background(), notebook.Tabs[1].Id))

	snap := s.Snapshot()
	assert.Equal(t, notebook.Tabs[0].Id, snap.ActiveTabId)
	assert.Equal(t, "kept content", snap.NoteContent)
	assert.Len(t, snap.Notebook.Tabs, 1)

	time.Sleep(300 * time.Millisecond)
	store.mu.Lock()
	_, savedDoomed := store.notes[notebook.Tabs[1].Id]
	store.mu.Unlock()
	assert.False(t, savedDoomed, "pending autosave of a deleted tab must be dropped")
}

func TestDeleteInactiveTabKeepsActive(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab", "Soups")

	s := NewSession(store, &fakeToucher{}, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.DeleteTab(context.Background(), notebook.Tabs[1].Id))

	snap := s.Snapshot()
	assert.Equal(t, notebook.Tabs[0].Id, snap.ActiveTabId)
	assert.Len(t, snap.Notebook.Tabs, 1)
}

func TestRenameNotebookUpdatesSnapshot(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.RenameNotebook(context.Background(), "Dinner Ideas"))
	assert.Equal(t, "Dinner Ideas", s.Snapshot().Notebook.Title)
}

func TestBlankRenameIsASilentCancel(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.RenameTab(context.Background(), notebook.Tabs[0].Id, "   "))
	require.NoError(t, s.RenameNotebook(context.Background(), ""))

	// Nothing was sent and the old titles stand.
	for _, call := range store.callLog() {
		assert.NotContains(t, call, "RenameTab:")
		assert.NotContains(t, call, "RenameNotebook:")
	}
	snap := s.Snapshot()
	assert.Equal(t, "Recipes", snap.Notebook.Title)
	assert.Equal(t, "First Tab", snap.Notebook.Tabs[0].Title)
}

func TestRenameTabTrimsTitle(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, &fakeToucher{}, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.RenameTab(context.Background(), notebook.Tabs[0].Id, "  Soups  "))
	assert.Equal(t, "Soups", s.Snapshot().Notebook.Tabs[0].Title)
}

func TestDeleteNotebookUnloads(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.DeleteNotebook(context.Background()))
	assert.False(t, s.Loaded())
	assert.ErrorIs(t, s.SetContent("into the void"), ErrNotLoaded)
}

func TestFlushSavesImmediately(t *testing.T) {
	store := newFakeStore()
	notebook := store.addNotebook("Recipes", "First Tab")

	s := NewSession(store, nil, testLogger(t), time.Hour)
	require.NoError(t, s.Load(context.Background(), notebook.Id))

	require.NoError(t, s.SetContent("flush me"))
	require.NoError(t, s.Flush(context.Background()))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, "flush me", store.notes[notebook.Tabs[0].Id])
}
