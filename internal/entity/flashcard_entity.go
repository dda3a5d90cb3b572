package entity

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardSource string

const (
	FlashcardSourceManual   FlashcardSource = "manual"
	FlashcardSourceAIFull   FlashcardSource = "ai-full"
	FlashcardSourceAIEdited FlashcardSource = "ai-edited"
)

func (s FlashcardSource) Valid() bool {
	switch s {
	case FlashcardSourceManual, FlashcardSourceAIFull, FlashcardSourceAIEdited:
		return true
	}
	return false
}

// IsAI reports whether the card originated from a generation.
func (s FlashcardSource) IsAI() bool {
	return s == FlashcardSourceAIFull || s == FlashcardSourceAIEdited
}

type Flashcard struct {
	Id           uuid.UUID
	Front        string
	Back         string
	Source       FlashcardSource
	GenerationId *uuid.UUID
	UserId       uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
