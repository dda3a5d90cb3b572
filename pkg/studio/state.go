package studio

import (
	"time"

	"github.com/google/uuid"

	"ai-flashcards-be/pkg/apiclient"
)

// Phase is the generation lifecycle state of the machine.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseGenerating     Phase = "generating"
	PhaseProposalsReady Phase = "proposalsReady"
	PhaseRateLimited    Phase = "rateLimited"
	PhaseFailed         Phase = "failed"
)

// ErrorInfo is the structured error payload surfaced when generation fails.
type ErrorInfo struct {
	Code    string
	Message string
}

// GenericGenerationErrorCode labels failures where the underlying error
// carries no usable message.
const GenericGenerationErrorCode = "AI_SERVICE_ERROR"

// GenerationState tracks one generation attempt. ElapsedTime ticks once per
// second only while IsLoading is true and resets on each new attempt.
type GenerationState struct {
	IsLoading   bool
	ElapsedTime int
	Generation  *apiclient.Generation
	Error       *ErrorInfo
}

// RateLimitState ticks down once per second while limited and clears itself
// at zero.
type RateLimitState struct {
	IsLimited  bool
	RetryAfter int
	ResetTime  *time.Time
}

// SaveStatus is the outcome state of one batch-save item.
type SaveStatus string

const (
	SavePending   SaveStatus = "pending"
	SaveSaving    SaveStatus = "saving"
	SaveSuccess   SaveStatus = "success"
	SaveDuplicate SaveStatus = "duplicate"
	SaveError     SaveStatus = "error"
)

// SaveProgressItem tracks one proposal selected for saving, in save order.
type SaveProgressItem struct {
	ProposalIndex int
	Front         string
	Back          string
	Status        SaveStatus
	Error         string
	FlashcardId   *uuid.UUID
}

// SaveErrorDetail is one failed item in the batch summary. ProgressIndex
// points back into SaveProgress so identical card content never makes two
// failures ambiguous.
type SaveErrorDetail struct {
	ProgressIndex int
	Front         string
	Back          string
	Error         string
}

// SaveSummaryData aggregates a completed batch save. It persists until an
// explicit reset.
type SaveSummaryData struct {
	TotalAttempted int
	SuccessCount   int
	UneditedCount  int
	EditedCount    int
	DuplicateCount int
	ErrorCount     int
	Errors         []SaveErrorDetail
}

// Snapshot is a point-in-time copy of the machine's observable state.
type Snapshot struct {
	Source       SourceTextState
	Phase        Phase
	Generation   GenerationState
	RateLimit    RateLimitState
	Proposals    []ProposalViewModel
	SaveProgress []SaveProgressItem
	Summary      *SaveSummaryData
	Saving       bool
	Counts       StatusCounts
}
