package bootstrap

import (
	"context"
	"log"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/controller"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/internal/service"
	"ai-chatbot-be/pkg/embedding"
	"ai-chatbot-be/pkg/llm/factory"
	"ai-chatbot-be/pkg/memory/mem0"
	"ai-chatbot-be/pkg/rag/executor"
	"ai-chatbot-be/pkg/rag/query"
	"ai-chatbot-be/pkg/rag/retrieval"
	"ai-chatbot-be/pkg/vector/qdrant"

	pktNats "ai-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"time"
)

const analyticsTopic = "analytics_events"

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	ChatController controller.IChatController
	UserController controller.IUserController

	// Shared middleware
	JwtMiddleware fiber.Handler

	// Background Services (exposed for main.go to run)
	ConsumerService  service.IConsumerService
	UserEventService service.IUserEventService
	ChatService      service.IChatService
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

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.OpenAI.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.OpenAI.ChatModel,
		llmBaseURL(cfg),
		cfg.OpenAI.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.OpenAI.ChatModel)

	// Vector store and long-term memory
	vectorStore := qdrant.NewClient(cfg.Qdrant.URL, cfg.Qdrant.APIKey)
	memories := mem0.NewClient(cfg.Mem0.BaseURL, cfg.Mem0.APIKey)
	if memories == nil {
		log.Printf("[WARN] Mem0 API key not set, long-term memory disabled")
	}

	// 4. RAG Pipeline
	embeddingCache := memory.NewEmbeddingCache()
	processor := query.NewProcessor(llmProvider)
	retriever := retrieval.NewRetriever(embeddingProvider, vectorStore, memories, embeddingCache, retrieval.Collections{
		Offerings: cfg.Qdrant.OfferingCollection,
		FAQ:       cfg.Qdrant.FAQCollection,
	})
	pipeline := executor.NewPipeline(processor, retriever, llmProvider, memories, cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature)

	// 5. Redis-backed repositories
	shortTerm := memory.NewShortTermMemoryRepository(
		rdb,
		cfg.Session.ShortTermWindow,
		time.Duration(cfg.Session.ShortTermTTLSec)*time.Second,
	)
	blacklist := memory.NewTokenBlacklistRepository(rdb)

	// 6. Services
	publisherService := service.NewPublisherService(analyticsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, analyticsTopic, uowFactory)
	userEventService := service.NewUserEventService(natsSub, uowFactory)

	chatService := service.NewChatService(uowFactory, pipeline, shortTerm, publisherService, sysLogger, &cfg.Session)
	memoryService := service.NewMemoryService(memories)
	authService := service.NewAuthService(uowFactory, chatService, blacklist, natsPub, &cfg.Auth)
	userService := service.NewUserService(uowFactory, natsPub)

	// 7. Controllers
	return &Container{
		AuthController: controller.NewAuthController(authService),
		ChatController: controller.NewChatController(chatService, memoryService),
		UserController: controller.NewUserController(userService),

		JwtMiddleware: serverutils.NewJwtMiddleware(cfg.Auth.Secret(), blacklist),

		ConsumerService:  consumerService,
		UserEventService: userEventService,
		ChatService:      chatService,
	}
}

// llmBaseURL picks the chat endpoint base for the configured provider.
func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.OpenAI.BaseURL
}
