package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}

type ByGenerationID struct {
	GenerationID uuid.UUID
}

func (s ByGenerationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("generation_id = ?", s.GenerationID)
}
