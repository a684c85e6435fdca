package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tab is a named, positioned subdivision of a notebook. Position is unique
// within a notebook and assigned as max(existing)+1; gaps left by deletions
// are never compacted.
type Tab struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	Title      string
	Position   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
