package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note holds the free-text content of a tab. At most one note exists per tab;
// the row is absent until the first save and its content is replaced wholesale
// on every save.
type Note struct {
	Id        uuid.UUID
	TabId     uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
