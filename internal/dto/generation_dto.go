package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateFlashcardsRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1000,max=10000"`
}

type ProposalDto struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type GenerateFlashcardsResponse struct {
	Id                  uuid.UUID     `json:"id"`
	Model               string        `json:"model"`
	GeneratedCount      int           `json:"generated_count"`
	GeneratedDurationMs int64         `json:"generated_duration_ms"`
	SourceTextHash      string        `json:"source_text_hash"`
	SourceTextLength    int           `json:"source_text_length"`
	Proposals           []ProposalDto `json:"proposals"`
	CreatedAt           time.Time     `json:"created_at"`
}

// PublishGenerationStatsMessage rides the in-process bus from the flashcard
// service to the stats consumer, which folds accepted counts back into the
// generation row.
type PublishGenerationStatsMessage struct {
	GenerationId  uuid.UUID `json:"generation_id"`
	UneditedDelta int       `json:"unedited_delta"`
	EditedDelta   int       `json:"edited_delta"`
}
