package bootstrap

import (
	"context"
	"fmt"
	"time"

	"recipebot/internal/bot"
	"recipebot/internal/config"
	"recipebot/internal/controller"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/memory"
	redisRepo "recipebot/internal/repository/redis"
	"recipebot/internal/repository/unitofwork"
	"recipebot/internal/service"
	"recipebot/internal/telegram"
	"recipebot/pkg/database"
	"recipebot/pkg/extractor"
	"recipebot/pkg/llm/factory"
	pktNats "recipebot/pkg/nats"
	"recipebot/pkg/resolver"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const recipeCreatedTopic = "recipe.created"

type Container struct {
	Logger *logger.ZapLogger

	// Telegram
	Client     *telegram.Client
	Dispatcher *bot.Dispatcher
	Runner     *telegram.Runner

	// Controllers
	SystemController  controller.ISystemController
	WebhookController controller.IWebhookController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger *logger.ZapLogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	sessions, err := c.sessionRepository(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// NATS is optional; without it domain events stay in-process
	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS subscriber", map[string]interface{}{"error": err.Error()})
		} else {
			c.AuditService = service.NewAuditService(natsSub, sysLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 3. Services
	publisherService := service.NewPublisherService(recipeCreatedTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, recipeCreatedTopic, sysLogger)

	recipeService := service.NewRecipeService(uowFactory, publisherService, eventPublisher, sysLogger)
	userService := service.NewUserService(uowFactory, cfg.Bot.TesterIDs, eventPublisher, sysLogger)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
		cfg.Ai.Timeout,
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	sysLogger.Info("Bootstrap", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Telegram
	client, err := telegram.NewClient(cfg.Bot.Token, cfg.Bot.Debug)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Client = client

	c.Dispatcher = bot.NewDispatcher(bot.Dependencies{
		Sessions:  sessions,
		Recipes:   recipeService,
		Users:     userService,
		Extractor: extractor.NewLLMExtractor(llmProvider),
		Resolver:  resolver.NewTikTokResolver(nil),
		Responder: client,
		Logger:    sysLogger,
		Settings: bot.Settings{
			PageSize:        cfg.Bot.PageSize,
			SessionTTL:      cfg.Session.TTL,
			EditIdleTimeout: cfg.Session.EditIdleTimeout,
		},
	})
	c.Runner = telegram.NewRunner(client, c.Dispatcher, sysLogger, cfg.Ai.Timeout+30*time.Second)

	// 5. Controllers
	c.SystemController = controller.NewSystemController(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, c.ConsumerService)
	if cfg.Bot.Mode == config.ModeWebhook {
		c.WebhookController = controller.NewWebhookController(c.Runner, telegram.SecretHeader, cfg.Bot.WebhookSecret)
	}

	return c, nil
}

func (c *Container) sessionRepository(cfg *config.Config) (contract.SessionRepository, error) {
	if cfg.Session.Store != "redis" {
		return memory.NewSessionRepository(cfg.Session.TTL), nil
	}
	rdb, err := redisRepo.NewClient(context.Background(), cfg.App.RedisURL)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	c.Logger.Info("Bootstrap", "Using Redis session store", nil)
	return redisRepo.NewSessionRepository(rdb, cfg.Session.TTL, c.Logger), nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
