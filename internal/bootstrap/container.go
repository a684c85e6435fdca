package bootstrap

import (
	"context"
	"log"

	"tabnote-be/internal/config"
	"tabnote-be/internal/controller"
	"tabnote-be/internal/pkg/logger"
	"tabnote-be/internal/repository/memory"
	"tabnote-be/internal/repository/unitofwork"
	"tabnote-be/internal/service"
	"tabnote-be/internal/websocket"

	pktNats "tabnote-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	NotebookController     controller.INotebookController
	TabController          controller.ITabController
	NoteController         controller.INoteController
	NotificationController controller.INotificationController

	// Background workers (main.go runs these)
	TouchConsumer *service.TouchConsumer
	EventNotifier *service.EventNotifier

	// WebSockets
	WebSocketHub  *websocket.Hub
	EditorHandler *websocket.EditorHandler
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. In-process event bus
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

	// Assign only when connected: a typed-nil *Publisher inside the
	// interface would pass the services' nil checks.
	var eventPub service.EventPublisher
	if natsPub != nil {
		eventPub = natsPub
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
		rdb = nil
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Session store
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL)
	sessionService := service.NewSessionService(sessionRepo, pubSub, sysLogger)

	// 4. Services
	notificationService := service.NewNotificationService(uowFactory)
	userService := service.NewUserService(uowFactory, notificationService)
	authService := service.NewAuthService(uowFactory, sessionService, eventPub)
	oauthService := service.NewOAuthService(uowFactory, sessionService, eventPub)

	notebookService := service.NewNotebookService(uowFactory, eventPub)
	tabService := service.NewTabService(uowFactory)
	noteService := service.NewNoteService(uowFactory, eventPub)

	touchPublisher := service.NewTouchPublisher(pubSub, sysLogger)
	touchConsumer := service.NewTouchConsumer(pubSub, notebookService, eventPub, sysLogger)

	eventNotifier := service.NewEventNotifier(natsSub, notificationService, wsHub, wsLogger)
	if natsSub != nil {
		go eventNotifier.Start()
	}

	// 5. Editor websocket
	editorHandler := websocket.NewEditorHandler(
		notebookService,
		tabService,
		noteService,
		sessionService,
		userService,
		pubSub,
		touchPublisher,
		wsHub,
		sysLogger,
		cfg.Editor.AutosaveDebounce,
	)

	return &Container{
		AuthController:         controller.NewAuthController(authService),
		OAuthController:        controller.NewOAuthController(oauthService, cfg.App.ClientURL),
		UserController:         controller.NewUserController(userService),
		NotebookController:     controller.NewNotebookController(notebookService),
		TabController:          controller.NewTabController(tabService),
		NoteController:         controller.NewNoteController(noteService),
		NotificationController: controller.NewNotificationController(notificationService),

		TouchConsumer: touchConsumer,
		EventNotifier: eventNotifier,

		WebSocketHub:  wsHub,
		EditorHandler: editorHandler,
	}
}
