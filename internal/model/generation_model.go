package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Generation struct {
	Id                    uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                uuid.UUID      `gorm:"type:uuid;not null;index"`
	Model                 string         `gorm:"type:varchar(100);not null"`
	GeneratedCount        int            `gorm:"not null;default:0"`
	AcceptedUneditedCount int            `gorm:"not null;default:0"`
	AcceptedEditedCount   int            `gorm:"not null;default:0"`
	GeneratedDurationMs   int64          `gorm:"not null;default:0"`
	SourceTextHash        string         `gorm:"type:varchar(64);not null;index"`
	SourceTextLength      int            `gorm:"not null"`
	Proposals             datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime"`
}

func (Generation) TableName() string {
	return "generations"
}
