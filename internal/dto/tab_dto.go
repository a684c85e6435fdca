package dto

import (
	"github.com/google/uuid"
)

type TabResponse struct {
	Id       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

type CreateTabRequest struct {
	NotebookId uuid.UUID
	Title      string `json:"title" validate:"required"`
}

type CreateTabResponse struct {
	Id       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}

type RenameTabRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required"`
}
