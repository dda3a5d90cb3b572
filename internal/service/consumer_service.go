package service

import (
	"context"
	"encoding/json"

	"ai-flashcards-be/internal/dto"
	"ai-flashcards-be/internal/pkg/logger"
	"ai-flashcards-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService folds accepted-count updates into generation rows off the
// request path.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     sysLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishGenerationStatsMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal stats message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, don't retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	err := uow.GenerationRepository().IncrementAcceptedCounts(
		ctx,
		payload.GenerationId,
		payload.UneditedDelta,
		payload.EditedDelta,
	)
	if err != nil {
		cs.logger.Error("consumer", "Failed to update generation stats", map[string]interface{}{
			"generation_id": payload.GenerationId,
			"error":         err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("consumer", "Generation stats updated", map[string]interface{}{
		"generation_id":  payload.GenerationId,
		"unedited_delta": payload.UneditedDelta,
		"edited_delta":   payload.EditedDelta,
	})
	msg.Ack()
}
