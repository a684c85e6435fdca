package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"
	"tabnote-be/internal/repository/unitofwork"
	"tabnote-be/pkg/events"

	"github.com/google/uuid"
)

// firstTabTitle is the tab every new notebook starts with, so the editor
// always has something to open.
const firstTabTitle = "First Tab"

var (
	ErrNotebookNotFound = errors.New("notebook not found")
	ErrEmptyTitle       = errors.New("title cannot be empty")
)

type INotebookService interface {
	List(ctx context.Context, userId uuid.UUID) ([]dto.NotebookListItemResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) (*dto.ShowNotebookResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) error
	Touch(ctx context.Context, notebookId uuid.UUID, at time.Time) error
}

type notebookService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher EventPublisher
}

func NewNotebookService(uowFactory unitofwork.RepositoryFactory, eventPublisher EventPublisher) INotebookService {
	return &notebookService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// NormalizeTitle trims surrounding whitespace and rejects blank titles.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}

// FilterNotebooks narrows a list to items whose title contains the query,
// case-insensitively. A blank query returns the list unchanged.
func FilterNotebooks(items []dto.NotebookListItemResponse, query string) []dto.NotebookListItemResponse {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return items
	}

	filtered := make([]dto.NotebookListItemResponse, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (s *notebookService) List(ctx context.Context, userId uuid.UUID) ([]dto.NotebookListItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	items, err := uow.NotebookRepository().ListWithTabCount(ctx, userId)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotebookListItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NotebookListItemResponse{
			Id:          item.Id,
			Title:       item.Title,
			Description: item.Description,
			TabCount:    item.TabCount,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	return responses, nil
}

func (s *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error) {
	title, err := NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	notebook := &entity.Notebook{
		Id:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		UserId:      userId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	firstTab := &entity.Tab{
		Id:         uuid.New(),
		NotebookId: notebook.Id,
		Title:      firstTabTitle,
		Position:   0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Notebook and its first tab land together or not at all.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
		return nil, err
	}
	if err := uow.TabRepository().Create(ctx, firstTab); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateNotebookResponse{Id: notebook.Id}, nil
}

func (s *notebookService) Show(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) (*dto.ShowNotebookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	tabs, err := uow.TabRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.OrderByPosition{},
	)
	if err != nil {
		return nil, err
	}

	tabResponses := make([]dto.TabResponse, 0, len(tabs))
	for _, tab := range tabs {
		tabResponses = append(tabResponses, dto.TabResponse{
			Id:       tab.Id,
			Title:    tab.Title,
			Position: tab.Position,
		})
	}

	return &dto.ShowNotebookResponse{
		Id:          notebook.Id,
		Title:       notebook.Title,
		Description: notebook.Description,
		Tabs:        tabResponses,
		CreatedAt:   notebook.CreatedAt,
		UpdatedAt:   notebook.UpdatedAt,
	}, nil
}

func (s *notebookService) Rename(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error) {
	title, err := NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	notebook.Title = title
	notebook.UpdatedAt = time.Now()
	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, err
	}

	return &dto.UpdateNotebookResponse{Id: notebook.Id, Title: notebook.Title}, nil
}

func (s *notebookService) Delete(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if notebook == nil {
		return ErrNotebookNotFound
	}

	tabs, err := uow.TabRepository().FindAll(ctx, specification.ByNotebookID{NotebookID: notebookId})
	if err != nil {
		return err
	}
	tabIds := make([]uuid.UUID, 0, len(tabs))
	for _, tab := range tabs {
		tabIds = append(tabIds, tab.Id)
	}

	// Cascade: notes, then tabs, then the notebook itself.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if len(tabIds) > 0 {
		if err := uow.NoteRepository().DeleteByTabIds(ctx, tabIds); err != nil {
			return err
		}
	}
	if err := uow.TabRepository().DeleteByNotebookId(ctx, notebookId); err != nil {
		return err
	}
	if err := uow.NotebookRepository().Delete(ctx, notebookId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		event := events.NewNotebookDeleted(notebookId.String(), userId.String())
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish NOTEBOOK_DELETED event: %v\n", err)
		}
	}

	return nil
}

func (s *notebookService) Touch(ctx context.Context, notebookId uuid.UUID, at time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotebookRepository().Touch(ctx, notebookId, at)
}
