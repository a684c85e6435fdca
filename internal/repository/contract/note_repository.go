package contract

import (
	"context"

	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTabId(ctx context.Context, tabId uuid.UUID) error
	DeleteByTabIds(ctx context.Context, tabIds []uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	// FindIdByTabId is the existence probe the autosave path uses: it selects
	// the id column only, never the content.
	FindIdByTabId(ctx context.Context, tabId uuid.UUID) (id uuid.UUID, ok bool, err error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
}
