package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-flashcards-be/internal/dto"
	"ai-flashcards-be/internal/entity"
	"ai-flashcards-be/internal/pkg/logger"
	"ai-flashcards-be/internal/repository/specification"
	"ai-flashcards-be/internal/repository/unitofwork"
	"ai-flashcards-be/pkg/events"
	pktNats "ai-flashcards-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type IFlashcardService interface {
	CreateBatch(ctx context.Context, userId uuid.UUID, req *dto.CreateFlashcardsRequest) (*dto.CreateFlashcardsResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListFlashcardsRequest) (*dto.ListFlashcardsResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFlashcardRequest) (*dto.UpdateFlashcardResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type flashcardService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewFlashcardService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IFlashcardService {
	return &flashcardService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           sysLogger,
	}
}

// validateBatchSources enforces the source/generation_id cross-field rules:
// manual cards carry no generation reference, ai cards all reference the
// same generation. Returns the shared generation id for ai batches.
func validateBatchSources(items []dto.CreateFlashcardItem) (*uuid.UUID, error) {
	var generationId *uuid.UUID

	for _, item := range items {
		source := entity.FlashcardSource(item.Source)
		if !source.Valid() {
			return nil, ErrInvalidSource
		}

		if source == entity.FlashcardSourceManual {
			if item.GenerationId != nil {
				return nil, ErrManualWithGeneration
			}
			continue
		}

		if item.GenerationId == nil {
			return nil, ErrMissingGenerationId
		}
		if generationId == nil {
			generationId = item.GenerationId
		} else if *generationId != *item.GenerationId {
			return nil, ErrMixedGenerationIds
		}
	}

	return generationId, nil
}

func (s *flashcardService) CreateBatch(ctx context.Context, userId uuid.UUID, req *dto.CreateFlashcardsRequest) (*dto.CreateFlashcardsResponse, error) {
	generationId, err := validateBatchSources(req.Flashcards)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if generationId != nil {
		generation, err := uow.GenerationRepository().FindOne(ctx,
			specification.ByID{ID: *generationId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if generation == nil {
			return nil, ErrGenerationNotFound
		}
	}

	now := time.Now()
	cards := make([]*entity.Flashcard, len(req.Flashcards))
	for i, item := range req.Flashcards {
		cards[i] = &entity.Flashcard{
			Id:           uuid.New(),
			Front:        strings.TrimSpace(item.Front),
			Back:         strings.TrimSpace(item.Back),
			Source:       entity.FlashcardSource(item.Source),
			GenerationId: item.GenerationId,
			UserId:       userId,
			CreatedAt:    now,
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.FlashcardRepository().CreateBulk(ctx, cards); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishStats(ctx, generationId, req.Flashcards)
	s.publishCreatedEvent(ctx, userId, cards)

	response := make([]dto.FlashcardDto, len(cards))
	for i, card := range cards {
		response[i] = toFlashcardDto(card)
	}

	return &dto.CreateFlashcardsResponse{Flashcards: response}, nil
}

// publishStats hands accepted counts to the async consumer. Best effort.
func (s *flashcardService) publishStats(ctx context.Context, generationId *uuid.UUID, items []dto.CreateFlashcardItem) {
	if generationId == nil {
		return
	}

	var unedited, edited int
	for _, item := range items {
		switch entity.FlashcardSource(item.Source) {
		case entity.FlashcardSourceAIFull:
			unedited++
		case entity.FlashcardSourceAIEdited:
			edited++
		}
	}
	if unedited == 0 && edited == 0 {
		return
	}

	payload := dto.PublishGenerationStatsMessage{
		GenerationId:  *generationId,
		UneditedDelta: unedited,
		EditedDelta:   edited,
	}
	msgJson, err := json.Marshal(payload)
	if err != nil {
		return
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("flashcard", "Failed to publish generation stats", map[string]interface{}{
			"generation_id": generationId,
			"error":         err.Error(),
		})
	}
}

func (s *flashcardService) publishCreatedEvent(ctx context.Context, userId uuid.UUID, cards []*entity.Flashcard) {
	if s.eventPublisher == nil {
		return
	}

	evt := events.BaseEvent{
		Type: events.TypeFlashcardCreated,
		Data: map[string]interface{}{
			"user_id": userId,
			"count":   len(cards),
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("flashcard", "Failed to publish FLASHCARD_CREATED event", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func (s *flashcardService) List(ctx context.Context, userId uuid.UUID, req *dto.ListFlashcardsRequest) (*dto.ListFlashcardsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filterSpecs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if req.Source != "" {
		if !entity.FlashcardSource(req.Source).Valid() {
			return nil, ErrInvalidSource
		}
		filterSpecs = append(filterSpecs, specification.BySource{Source: req.Source})
	}
	if req.GenerationId != nil {
		filterSpecs = append(filterSpecs, specification.ByGenerationID{GenerationID: *req.GenerationId})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.FlashcardRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, err
	}

	field, desc := parseSort(req.Sort)
	pageSpecs := append(filterSpecs,
		specification.OrderBy{Field: field, Desc: desc},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)

	cards, err := uow.FlashcardRepository().FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, err
	}

	data := make([]dto.FlashcardDto, len(cards))
	for i, card := range cards {
		data[i] = toFlashcardDto(card)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.ListFlashcardsResponse{
		Data: data,
		Pagination: dto.PaginationDto{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// parseSort maps a query sort value onto a whitelisted column. A leading
// "-" requests descending order. Unknown values fall back to newest first.
func parseSort(sort string) (field string, desc bool) {
	desc = strings.HasPrefix(sort, "-")
	field = strings.TrimPrefix(sort, "-")

	switch field {
	case "created_at", "updated_at", "front":
		return field, desc
	default:
		return "created_at", true
	}
}

func (s *flashcardService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFlashcardRequest) (*dto.UpdateFlashcardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	card, err := uow.FlashcardRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrFlashcardNotFound
	}

	now := time.Now()
	card.Front = strings.TrimSpace(req.Front)
	card.Back = strings.TrimSpace(req.Back)
	card.UpdatedAt = &now

	// Editing a card that was saved untouched from a generation
	// reclassifies it as edited.
	if card.Source == entity.FlashcardSourceAIFull {
		card.Source = entity.FlashcardSourceAIEdited
	}

	if err := uow.FlashcardRepository().Update(ctx, card); err != nil {
		return nil, err
	}

	return &dto.UpdateFlashcardResponse{Id: card.Id}, nil
}

func (s *flashcardService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	card, err := uow.FlashcardRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if card == nil {
		return ErrFlashcardNotFound
	}

	return uow.FlashcardRepository().Delete(ctx, id)
}

func toFlashcardDto(card *entity.Flashcard) dto.FlashcardDto {
	return dto.FlashcardDto{
		Id:           card.Id,
		Front:        card.Front,
		Back:         card.Back,
		Source:       string(card.Source),
		GenerationId: card.GenerationId,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
}
