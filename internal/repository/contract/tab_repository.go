package contract

import (
	"context"

	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TabRepository interface {
	Create(ctx context.Context, tab *entity.Tab) error
	Update(ctx context.Context, tab *entity.Tab) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tab, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tab, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MaxPosition reports the highest position among a notebook's tabs.
	// ok is false when the notebook has no tabs.
	MaxPosition(ctx context.Context, notebookId uuid.UUID) (pos int, ok bool, err error)
}
