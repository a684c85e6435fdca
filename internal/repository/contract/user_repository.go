package contract

import (
	"context"

	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	// UpdateFields applies a partial update (profile edits) without touching
	// the remaining columns.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
}
