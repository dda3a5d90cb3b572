package entity

import (
	"time"

	"github.com/google/uuid"
)

// GenerationProposal is a single card candidate produced by the LLM,
// stored verbatim so edits can be audited against the original.
type GenerationProposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type Generation struct {
	Id                    uuid.UUID
	UserId                uuid.UUID
	Model                 string
	GeneratedCount        int
	AcceptedUneditedCount int
	AcceptedEditedCount   int
	GeneratedDurationMs   int64
	SourceTextHash        string
	SourceTextLength      int
	Proposals             []GenerationProposal
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}
