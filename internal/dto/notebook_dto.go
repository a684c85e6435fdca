package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNotebookRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type CreateNotebookResponse struct {
	Id uuid.UUID `json:"id"`
}

type NotebookListItemResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TabCount    int64     `json:"tab_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ShowNotebookResponse struct {
	Id          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Tabs        []TabResponse `json:"tabs"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type UpdateNotebookRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required"`
}

type UpdateNotebookResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
