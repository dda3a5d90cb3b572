package bootstrap

import (
	"context"
	"log"

	"ai-flashcards-be/internal/config"
	"ai-flashcards-be/internal/controller"
	"ai-flashcards-be/internal/pkg/logger"
	"ai-flashcards-be/internal/pkg/serverutils"
	"ai-flashcards-be/internal/repository/unitofwork"
	"ai-flashcards-be/internal/service"
	"ai-flashcards-be/pkg/flashgen"
	"ai-flashcards-be/pkg/llm/factory"
	pktNats "ai-flashcards-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	GenerationController controller.IGenerationController
	FlashcardController  controller.IFlashcardController
	DraftController      controller.IDraftController

	// Middleware shared with the route registration
	GenerationRateLimiter *serverutils.RateLimiter

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	generator := flashgen.NewGenerator(llmProvider)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.StatsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.StatsTopic,
		uowFactory,
		sysLogger,
	)

	generationService := service.NewGenerationService(
		uowFactory,
		generator,
		natsPub,
		sysLogger,
		cfg.Ai.Timeout,
	)
	flashcardService := service.NewFlashcardService(
		uowFactory,
		publisherService,
		natsPub,
		sysLogger,
	)
	draftService := service.NewDraftService(rdb)

	rateLimiter := serverutils.NewRateLimiter(
		cfg.RateLimit.GenerationLimit,
		cfg.RateLimit.GenerationWindow,
	)

	// 6. Controllers
	return &Container{
		GenerationController:  controller.NewGenerationController(generationService),
		FlashcardController:   controller.NewFlashcardController(flashcardService),
		DraftController:       controller.NewDraftController(draftService),
		GenerationRateLimiter: rateLimiter,

		ConsumerService: consumerService,
	}
}
