package contract

import (
	"context"

	"ai-flashcards-be/internal/entity"
	"ai-flashcards-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GenerationRepository interface {
	Create(ctx context.Context, generation *entity.Generation) error
	Update(ctx context.Context, generation *entity.Generation) error
	IncrementAcceptedCounts(ctx context.Context, id uuid.UUID, uneditedDelta, editedDelta int) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Generation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Generation, error)
}
