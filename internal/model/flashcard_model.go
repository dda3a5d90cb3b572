package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Flashcard struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Front        string         `gorm:"type:varchar(200);not null"`
	Back         string         `gorm:"type:varchar(500);not null"`
	Source       string         `gorm:"type:varchar(20);not null;index"`
	GenerationId *uuid.UUID     `gorm:"type:uuid;index"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}
