package contract

import (
	"context"

	"ai-flashcards-be/internal/entity"
	"ai-flashcards-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
