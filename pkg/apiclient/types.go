package apiclient

import (
	"time"

	"github.com/google/uuid"
)

// Flashcard source values understood by the API.
const (
	SourceManual   = "manual"
	SourceAIFull   = "ai-full"
	SourceAIEdited = "ai-edited"
)

// Proposal is one LLM-generated candidate card, not yet persisted.
type Proposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generation is one recorded LLM invocation session and its proposal batch.
// Proposal order is server order and is significant.
type Generation struct {
	Id                  uuid.UUID  `json:"id"`
	Model               string     `json:"model"`
	GeneratedCount      int        `json:"generated_count"`
	GeneratedDurationMs int64      `json:"generated_duration_ms"`
	SourceTextHash      string     `json:"source_text_hash"`
	SourceTextLength    int        `json:"source_text_length"`
	CreatedAt           time.Time  `json:"created_at"`
	Proposals           []Proposal `json:"proposals"`
}

// FlashcardInput is one card in a create request.
type FlashcardInput struct {
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Source       string     `json:"source"`
	GenerationId *uuid.UUID `json:"generation_id"`
}

// Flashcard is a persisted card record as returned by the API.
type Flashcard struct {
	Id           uuid.UUID  `json:"id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Source       string     `json:"source"`
	GenerationId *uuid.UUID `json:"generation_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// CardContent is the minimal front/back pair used for duplicate detection.
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Pagination mirrors the list endpoint's paging block.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}
