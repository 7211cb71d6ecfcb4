package bootstrap

import (
	"context"
	"log"

	"persona-chat-be/internal/config"
	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/controller"
	"persona-chat-be/internal/handler"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/mailer"
	"persona-chat-be/internal/repository/implementation"
	"persona-chat-be/internal/repository/memory"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/internal/service"
	"persona-chat-be/internal/websocket"
	"persona-chat-be/pkg/completion/factory"

	pktNats "persona-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	UserController    controller.IUserController
	OAuthController   controller.IOAuthController
	ProfileController controller.IProfileController
	PersonaController controller.IPersonaController
	ChatController    controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Completion Provider based on Config
	provider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize completion provider: %v", err)
	}
	log.Printf("[INFO] Using completion provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// In-memory conversation state, one entry per signed-in user
	sessionRepo := memory.NewSessionStateRepository()

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

	// WebSocket Hub
	streamLogger := logger.NewIsolatedLogger(cfg.App.StreamLogFilePath)
	wsHub := websocket.NewHub(rdb, streamLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(constant.ExchangeStoredTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.ExchangeStoredTopic,
		wsHub,
		streamLogger,
	)

	// 3. Services
	userService := service.NewUserService(uowFactory, emailService, natsPub, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, cfg, sysLogger)

	profileService := service.NewProfileService(uowFactory, natsPub, sysLogger)
	personaService := service.NewPersonaService(uowFactory, natsPub, sysLogger)

	chatStoreService := service.NewChatStoreService(uowFactory)
	chatSessionService := service.NewChatSessionService(
		sessionRepo,
		provider,
		chatStoreService,
		publisherService,
		wsHub,
		sysLogger,
	)

	// 3.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, streamLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	streamHandler := handler.NewStreamHandler(notifService, wsHub, streamLogger)

	// 4. Controllers
	return &Container{
		StreamHandler: streamHandler,
		WebSocketHub:  wsHub,

		UserController:    controller.NewUserController(userService),
		OAuthController:   controller.NewOAuthController(oauthService),
		ProfileController: controller.NewProfileController(profileService),
		PersonaController: controller.NewPersonaController(personaService),
		ChatController:    controller.NewChatController(chatStoreService, chatSessionService),

		ConsumerService: consumerService,
	}
}
