package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByTabID struct {
	TabID uuid.UUID
}

func (s ByTabID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tab_id = ?", s.TabID)
}

type ByTabIDs struct {
	TabIDs []uuid.UUID
}

func (s ByTabIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tab_id IN ?", s.TabIDs)
}
