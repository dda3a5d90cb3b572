package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFlashcardItem struct {
	Front        string     `json:"front" validate:"required,max=200"`
	Back         string     `json:"back" validate:"required,max=500"`
	Source       string     `json:"source" validate:"required,oneof=manual ai-full ai-edited"`
	GenerationId *uuid.UUID `json:"generation_id"`
}

type CreateFlashcardsRequest struct {
	Flashcards []CreateFlashcardItem `json:"flashcards" validate:"required,min=1,max=50,dive"`
}

type FlashcardDto struct {
	Id           uuid.UUID  `json:"id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Source       string     `json:"source"`
	GenerationId *uuid.UUID `json:"generation_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type CreateFlashcardsResponse struct {
	Flashcards []FlashcardDto `json:"flashcards"`
}

type ListFlashcardsRequest struct {
	Page         int        `query:"page"`
	Limit        int        `query:"limit"`
	Source       string     `query:"source"`
	GenerationId *uuid.UUID `query:"generation_id"`
	Sort         string     `query:"sort"`
}

type PaginationDto struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type ListFlashcardsResponse struct {
	Data       []FlashcardDto `json:"data"`
	Pagination PaginationDto  `json:"pagination"`
}

type UpdateFlashcardRequest struct {
	Id    uuid.UUID
	Front string `json:"front" validate:"required,max=200"`
	Back  string `json:"back" validate:"required,max=500"`
}

type UpdateFlashcardResponse struct {
	Id uuid.UUID `json:"id"`
}
