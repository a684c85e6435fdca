package contract

import (
	"context"
	"time"

	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotebookRepository interface {
	Create(ctx context.Context, notebook *entity.Notebook) error
	Update(ctx context.Context, notebook *entity.Notebook) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ListWithTabCount backs the notebooks_with_tab_count read view: each
	// notebook joined with its tab count, newest activity first.
	ListWithTabCount(ctx context.Context, userId uuid.UUID) ([]*entity.NotebookListItem, error)
	// Touch bumps updated_at without rewriting any other column.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}
