package implementation

import (
	"context"
	"errors"
	"time"

	"tabnote-be/internal/entity"
	"tabnote-be/internal/mapper"
	"tabnote-be/internal/model"
	"tabnote-be/internal/repository/contract"
	"tabnote-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotebookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotebookMapper
}

func NewNotebookRepository(db *gorm.DB) contract.NotebookRepository {
	return &NotebookRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotebookMapper(),
	}
}

func (r *NotebookRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NotebookRepositoryImpl) Create(ctx context.Context, notebook *entity.Notebook) error {
	m := r.mapper.ToModel(notebook)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notebook = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotebookRepositoryImpl) Update(ctx context.Context, notebook *entity.Notebook) error {
	m := r.mapper.ToModel(notebook)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*notebook = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotebookRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Notebook{}, id).Error
}

func (r *NotebookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	var m model.Notebook
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NotebookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	var models []*model.Notebook
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NotebookRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Notebook{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type notebookTabCountRow struct {
	Id          uuid.UUID
	Title       string
	Description string
	TabCount    int64
	UpdatedAt   time.Time
}

func (r *NotebookRepositoryImpl) ListWithTabCount(ctx context.Context, userId uuid.UUID) ([]*entity.NotebookListItem, error) {
	var rows []notebookTabCountRow
	err := r.db.WithContext(ctx).
		Model(&model.Notebook{}).
		Select("notebooks.id, notebooks.title, notebooks.description, notebooks.updated_at, count(tabs.id) AS tab_count").
		Joins("LEFT JOIN tabs ON tabs.notebook_id = notebooks.id AND tabs.deleted_at IS NULL").
		Where("notebooks.user_id = ?", userId).
		Group("notebooks.id").
		Order("notebooks.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entity.NotebookListItem, len(rows))
	for i, row := range rows {
		items[i] = &entity.NotebookListItem{
			Id:          row.Id,
			Title:       row.Title,
			Description: row.Description,
			TabCount:    row.TabCount,
			UpdatedAt:   row.UpdatedAt,
		}
	}
	return items, nil
}

func (r *NotebookRepositoryImpl) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Notebook{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}
