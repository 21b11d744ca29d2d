package bootstrap

import (
	"log"

	"mindloop-be/internal/config"
	"mindloop-be/internal/controller"
	"mindloop-be/internal/pkg/logger"
	"mindloop-be/internal/repository/memory"
	"mindloop-be/internal/repository/unitofwork"
	"mindloop-be/internal/service"
	"mindloop-be/pkg/classifier"
	"mindloop-be/pkg/embedding"
	"mindloop-be/pkg/generation"
	"mindloop-be/pkg/llm/factory"
	"mindloop-be/pkg/moderation"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ThoughtController controller.IThoughtController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// 4. LLM provider + generation gateway
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	configured := cfg.Keys.GoogleGemini != "" || cfg.Ai.LLMProvider == "ollama"
	gateway := generation.NewGateway(llmProvider, configured, nil)

	// 5. Domain helpers and in-memory session registry
	filter := moderation.NewDefault()
	localClassifier := classifier.NewDefault()
	sessionRepo := memory.NewSessionRepository()

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
	)

	thoughtService := service.NewThoughtService(uowFactory, filter, publisherService)
	generationService := service.NewGenerationService(
		uowFactory,
		gateway,
		localClassifier,
		publisherService,
		sysLogger,
		cfg.Generation,
	)
	sessionService := service.NewSessionService(
		uowFactory,
		sessionRepo,
		gateway,
		localClassifier,
		publisherService,
		sysLogger,
		cfg.Generation,
	)

	// 7. Controllers
	thoughtController := controller.NewThoughtController(
		thoughtService,
		generationService,
		sessionService,
	)

	return &Container{
		ThoughtController: thoughtController,
		ConsumerService:   consumerService,
	}
}
