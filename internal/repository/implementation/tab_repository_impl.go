package implementation

import (
	"context"
	"errors"

	"tabnote-be/internal/entity"
	"tabnote-be/internal/mapper"
	"tabnote-be/internal/model"
	"tabnote-be/internal/repository/contract"
	"tabnote-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TabRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TabMapper
}

func NewTabRepository(db *gorm.DB) contract.TabRepository {
	return &TabRepositoryImpl{
		db:     db,
		mapper: mapper.NewTabMapper(),
	}
}

func (r *TabRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TabRepositoryImpl) Create(ctx context.Context, tab *entity.Tab) error {
	m := r.mapper.ToModel(tab)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tab = *r.mapper.ToEntity(m)
	return nil
}

func (r *TabRepositoryImpl) Update(ctx context.Context, tab *entity.Tab) error {
	m := r.mapper.ToModel(tab)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*tab = *r.mapper.ToEntity(m)
	return nil
}

func (r *TabRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tab{}, id).Error
}

func (r *TabRepositoryImpl) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("notebook_id = ?", notebookId).Delete(&model.Tab{}).Error
}

func (r *TabRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tab, error) {
	var m model.Tab
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TabRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tab, error) {
	var models []*model.Tab
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TabRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Tab{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TabRepositoryImpl) MaxPosition(ctx context.Context, notebookId uuid.UUID) (int, bool, error) {
	var pos *int
	err := r.db.WithContext(ctx).
		Model(&model.Tab{}).
		Where("notebook_id = ?", notebookId).
		Select("max(position)").
		Scan(&pos).Error
	if err != nil {
		return 0, false, err
	}
	if pos == nil {
		return 0, false, nil
	}
	return *pos, true, nil
}
