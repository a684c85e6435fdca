package mapper

import (
	"time"

	"tabnote-be/internal/entity"
	"tabnote-be/internal/model"

	"gorm.io/gorm"
)

type TabMapper struct{}

func NewTabMapper() *TabMapper {
	return &TabMapper{}
}

func (m *TabMapper) ToEntity(t *model.Tab) *entity.Tab {
	if t == nil {
		return nil
	}
	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		at := t.DeletedAt.Time
		deletedAt = &at
	}

	return &entity.Tab{
		Id:         t.Id,
		NotebookId: t.NotebookId,
		Title:      t.Title,
		Position:   t.Position,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  t.DeletedAt.Valid,
	}
}

func (m *TabMapper) ToModel(t *entity.Tab) *model.Tab {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.Tab{
		Id:         t.Id,
		NotebookId: t.NotebookId,
		Title:      t.Title,
		Position:   t.Position,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *TabMapper) ToEntities(tabs []*model.Tab) []*entity.Tab {
	entities := make([]*entity.Tab, len(tabs))
	for i, t := range tabs {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
