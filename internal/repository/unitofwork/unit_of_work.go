package unitofwork

import (
	"context"

	"tabnote-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NotebookRepository() contract.NotebookRepository
	TabRepository() contract.TabRepository
	NoteRepository() contract.NoteRepository
	NotificationRepository() contract.NotificationRepository
}
