package service

import (
	"context"
	"errors"
	"time"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"
	"tabnote-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var (
	ErrTabNotFound = errors.New("tab not found")
	// ErrLastTab guards the invariant that a notebook always has at
	// least one tab.
	ErrLastTab = errors.New("cannot delete the last tab of a notebook")
)

type ITabService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTabRequest) (*dto.CreateTabResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameTabRequest) error
	Delete(ctx context.Context, userId uuid.UUID, tabId uuid.UUID) error
}

type tabService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTabService(uowFactory unitofwork.RepositoryFactory) ITabService {
	return &tabService{uowFactory: uowFactory}
}

// resolveOwnedTab loads a tab and proves the calling user owns its
// notebook. Shared by the tab and note paths.
func resolveOwnedTab(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, tabId uuid.UUID) (*entity.Tab, error) {
	tab, err := uow.TabRepository().FindOne(ctx, specification.ByID{ID: tabId})
	if err != nil {
		return nil, err
	}
	if tab == nil {
		return nil, ErrTabNotFound
	}

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: tab.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrTabNotFound
	}

	return tab, nil
}

func (s *tabService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTabRequest) (*dto.CreateTabResponse, error) {
	title, err := NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	// Positions only ever grow: max+1, gaps from deletions stay.
	position := 0
	if max, ok, err := uow.TabRepository().MaxPosition(ctx, req.NotebookId); err != nil {
		return nil, err
	} else if ok {
		position = max + 1
	}

	now := time.Now()
	tab := &entity.Tab{
		Id:         uuid.New(),
		NotebookId: req.NotebookId,
		Title:      title,
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uow.TabRepository().Create(ctx, tab); err != nil {
		return nil, err
	}

	return &dto.CreateTabResponse{Id: tab.Id, Position: tab.Position}, nil
}

func (s *tabService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameTabRequest) error {
	title, err := NormalizeTitle(req.Title)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	tab, err := resolveOwnedTab(ctx, uow, userId, req.Id)
	if err != nil {
		return err
	}

	tab.Title = title
	tab.UpdatedAt = time.Now()
	return uow.TabRepository().Update(ctx, tab)
}

func (s *tabService) Delete(ctx context.Context, userId uuid.UUID, tabId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tab, err := resolveOwnedTab(ctx, uow, userId, tabId)
	if err != nil {
		return err
	}

	count, err := uow.TabRepository().Count(ctx, specification.ByNotebookID{NotebookID: tab.NotebookId})
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastTab
	}

	// The tab's note goes with it.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().DeleteByTabId(ctx, tab.Id); err != nil {
		return err
	}
	if err := uow.TabRepository().Delete(ctx, tab.Id); err != nil {
		return err
	}

	return uow.Commit()
}
