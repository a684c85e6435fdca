package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notebook struct {
	Id          uuid.UUID
	Title       string
	Description string
	UserId      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

// NotebookListItem is the read projection for the dashboard list:
// a notebook row joined with its live tab count.
type NotebookListItem struct {
	Id          uuid.UUID
	Title       string
	Description string
	TabCount    int64
	UpdatedAt   time.Time
}
