package service

import (
	"context"
	"fmt"
	"time"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"
	"tabnote-be/internal/repository/unitofwork"
	"tabnote-be/pkg/events"

	"github.com/google/uuid"
)

type INoteService interface {
	GetByTab(ctx context.Context, userId uuid.UUID, tabId uuid.UUID) (*dto.NoteContentResponse, error)
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveNoteRequest) (*dto.SaveNoteResponse, error)
}

type noteService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher EventPublisher
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory, eventPublisher EventPublisher) INoteService {
	return &noteService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *noteService) GetByTab(ctx context.Context, userId uuid.UUID, tabId uuid.UUID) (*dto.NoteContentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tab, err := resolveOwnedTab(ctx, uow, userId, tabId)
	if err != nil {
		return nil, err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByTabID{TabID: tab.Id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		// No row yet: the tab has never been saved.
		return &dto.NoteContentResponse{TabId: tabId, Content: "", Exists: false}, nil
	}

	return &dto.NoteContentResponse{TabId: tabId, Content: note.Content, Exists: true}, nil
}

// Save upserts the single note row of a tab: the first save inserts it,
// every later save replaces the content wholesale.
func (s *noteService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveNoteRequest) (*dto.SaveNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tab, err := resolveOwnedTab(ctx, uow, userId, req.TabId)
	if err != nil {
		return nil, err
	}

	noteId, exists, err := uow.NoteRepository().FindIdByTabId(ctx, tab.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if exists {
		if err := uow.NoteRepository().UpdateContent(ctx, noteId, req.Content); err != nil {
			return nil, err
		}
	} else {
		note := &entity.Note{
			Id:        uuid.New(),
			TabId:     tab.Id,
			Content:   req.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uow.NoteRepository().Create(ctx, note); err != nil {
			return nil, err
		}
	}

	if s.eventPublisher != nil {
		event := events.NewNoteSaved(tab.Id.String(), tab.NotebookId.String(), userId.String())
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish NOTE_SAVED event: %v\n", err)
		}
	}

	return &dto.SaveNoteResponse{TabId: tab.Id, SavedAt: now}, nil
}
