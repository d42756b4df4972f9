package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-query-router/internal/config"
	"ai-query-router/internal/controller"
	"ai-query-router/internal/pkg/logger"
	"ai-query-router/internal/repository/implementation"
	"ai-query-router/internal/service"
	"ai-query-router/pkg/llm/factory"
	pkgNats "ai-query-router/pkg/nats"
	"ai-query-router/pkg/router"
)

type Container struct {
	// Controllers
	RouteController controller.IRouteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core engine, exposed for the simulation command
	Engine *router.Engine
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
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
		log.Printf("[WARN] Failed to connect to Redis: %v. Classifier cache falls back to in-process", err)
		rdb = nil
	}

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Routing Engine
	scoringCfg, err := router.LoadScoringConfig(cfg.Router.ScoringConfigPath)
	if err != nil {
		log.Printf("[WARN] Failed to load scoring config from %s: %v. Using fallback", cfg.Router.ScoringConfigPath, err)
	}

	classifier := router.NewClassifier(llmProvider, cfg.Ai.LLMModel, cfg.Ai.Timeout, sysLogger)
	cachedClassifier := router.NewCachedClassifier(classifier, rdb, cfg.Router.ClassifierCacheTTL, sysLogger)

	publisherService := service.NewPublisherService(cfg.Router.AuditTopic, pubSub)

	engine := router.NewEngine(scoringCfg,
		router.WithClassifier(cachedClassifier),
		router.WithAuditSink(service.NewAuditSink(publisherService)),
		router.WithFusionConfig(router.FusionConfig{
			HighConfidenceThreshold: cfg.Router.HighConfidenceThreshold,
			MidConfidenceThreshold:  cfg.Router.MidConfidenceThreshold,
			ContradictionMargin:     cfg.Router.ContradictionMargin,
			MinimumConfidence:       cfg.Router.MinimumConfidence,
		}),
		router.WithGateConfig(router.GateConfig{
			ClearWinnerGap:     cfg.Router.ClearWinnerGap,
			CriticalScoreFloor: cfg.Router.CriticalScoreFloor,
		}),
		router.WithLogger(sysLogger),
	)

	// 5. Persistence & Services
	decisionRepo := implementation.NewRoutingDecisionRepository(db)
	routerService := service.NewRouterService(engine, decisionRepo, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Router.AuditTopic, decisionRepo, natsPub)

	// 6. Controllers
	return &Container{
		RouteController: controller.NewRouteController(routerService, cfg.Router.ScoringConfigPath),
		ConsumerService: consumerService,
		Engine:          engine,
	}
}
