package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"

	"ai-flashcards-be/internal/dto"
	"ai-flashcards-be/internal/entity"
	"ai-flashcards-be/internal/pkg/logger"
	"ai-flashcards-be/internal/repository/unitofwork"
	"ai-flashcards-be/pkg/events"
	"ai-flashcards-be/pkg/flashgen"
	pktNats "ai-flashcards-be/pkg/nats"

	"github.com/google/uuid"
)

type IGenerationService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateFlashcardsRequest) (*dto.GenerateFlashcardsResponse, error)
}

type generationService struct {
	uowFactory     unitofwork.RepositoryFactory
	generator      *flashgen.Generator
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	llmTimeout     time.Duration
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	generator *flashgen.Generator,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
	llmTimeout time.Duration,
) IGenerationService {
	return &generationService{
		uowFactory:     uowFactory,
		generator:      generator,
		eventPublisher: eventPublisher,
		logger:         sysLogger,
		llmTimeout:     llmTimeout,
	}
}

func (s *generationService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateFlashcardsRequest) (*dto.GenerateFlashcardsResponse, error) {
	llmCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	result, err := s.generator.Generate(llmCtx, req.SourceText)
	if err != nil {
		s.logger.Error("generation", "LLM generation failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		// Upstream failures and timeouts alike surface as service unavailable.
		return nil, ErrAIServiceUnavailable
	}

	hash := sha256.Sum256([]byte(req.SourceText))

	proposals := make([]entity.GenerationProposal, len(result.Cards))
	for i, card := range result.Cards {
		proposals[i] = entity.GenerationProposal{Front: card.Front, Back: card.Back}
	}

	generation := entity.Generation{
		Id:                  uuid.New(),
		UserId:              userId,
		Model:               result.Model,
		GeneratedCount:      len(result.Cards),
		GeneratedDurationMs: result.DurationMs,
		SourceTextHash:      hex.EncodeToString(hash[:]),
		SourceTextLength:    utf8.RuneCountInString(req.SourceText),
		Proposals:           proposals,
		CreatedAt:           time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GenerationRepository().Create(ctx, &generation); err != nil {
		return nil, err
	}

	// Notification is auxiliary, log and continue on publish failure.
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeGenerationCompleted,
			Data: map[string]interface{}{
				"generation_id":   generation.Id,
				"user_id":         userId,
				"generated_count": generation.GeneratedCount,
				"model":           generation.Model,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("generation", "Failed to publish GENERATION_COMPLETED event", map[string]interface{}{
				"generation_id": generation.Id,
				"error":         err.Error(),
			})
		}
	}

	proposalDtos := make([]dto.ProposalDto, len(proposals))
	for i, p := range proposals {
		proposalDtos[i] = dto.ProposalDto{Front: p.Front, Back: p.Back}
	}

	return &dto.GenerateFlashcardsResponse{
		Id:                  generation.Id,
		Model:               generation.Model,
		GeneratedCount:      generation.GeneratedCount,
		GeneratedDurationMs: generation.GeneratedDurationMs,
		SourceTextHash:      generation.SourceTextHash,
		SourceTextLength:    generation.SourceTextLength,
		Proposals:           proposalDtos,
		CreatedAt:           generation.CreatedAt,
	}, nil
}
