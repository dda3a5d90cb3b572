package service

import "errors"

// Sentinel errors the controllers translate into HTTP status codes.
var (
	ErrGenerationNotFound   = errors.New("generation not found")
	ErrFlashcardNotFound    = errors.New("flashcard not found")
	ErrAIServiceUnavailable = errors.New("ai service unavailable")
	ErrManualWithGeneration = errors.New("manual flashcards cannot reference a generation")
	ErrMissingGenerationId  = errors.New("ai flashcards require a generation_id")
	ErrMixedGenerationIds   = errors.New("all flashcards in a batch must reference the same generation")
	ErrInvalidSource        = errors.New("invalid flashcard source")
)
