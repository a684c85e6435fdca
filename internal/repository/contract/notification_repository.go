package contract

import (
	"context"

	"tabnote-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository persists notification history. Notifications are a
// denormalized read model, so they use the GORM model directly.
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userId uuid.UUID, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userId uuid.UUID) error
}
