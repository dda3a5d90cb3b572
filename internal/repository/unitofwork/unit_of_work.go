package unitofwork

import (
	"context"

	"ai-flashcards-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	GenerationRepository() contract.GenerationRepository
	FlashcardRepository() contract.FlashcardRepository
}
