package service

import (
	"context"
	"errors"

	"ai-flashcards-be/internal/dto"
	"ai-flashcards-be/pkg/studio"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type IDraftService interface {
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveDraftRequest) error
	Show(ctx context.Context, userId uuid.UUID) (*dto.ShowDraftResponse, error)
	Clear(ctx context.Context, userId uuid.UUID) error
}

// draftService keys drafts per user in Redis so an interrupted session can
// be resumed from any device.
type draftService struct {
	rdb *redis.Client
}

func NewDraftService(rdb *redis.Client) IDraftService {
	return &draftService{rdb: rdb}
}

func (s *draftService) key(userId uuid.UUID) string {
	return studio.DraftKeyPrefix + userId.String()
}

func (s *draftService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveDraftRequest) error {
	return s.rdb.Set(ctx, s.key(userId), req.SourceText, 0).Err()
}

func (s *draftService) Show(ctx context.Context, userId uuid.UUID) (*dto.ShowDraftResponse, error) {
	val, err := s.rdb.Get(ctx, s.key(userId)).Result()
	if errors.Is(err, redis.Nil) {
		return &dto.ShowDraftResponse{SourceText: ""}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.ShowDraftResponse{SourceText: val}, nil
}

func (s *draftService) Clear(ctx context.Context, userId uuid.UUID) error {
	return s.rdb.Del(ctx, s.key(userId)).Err()
}
