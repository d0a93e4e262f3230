package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Kerhoff/QueueboT/internal/api"
	"github.com/Kerhoff/QueueboT/internal/config"
	"github.com/Kerhoff/QueueboT/internal/handlers"
	repo "github.com/Kerhoff/QueueboT/internal/repository/mongo"
	"github.com/Kerhoff/QueueboT/internal/service"
	"github.com/Kerhoff/QueueboT/internal/telegram"
	"github.com/Kerhoff/QueueboT/pkg/logger"
)

func main() {
	// .env is optional; deployed environments pass real variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting QueueboT...")

	// Storage
	storage, err := config.NewStorage(cfg.MongoURI, cfg.MongoDatabase, l)
	if err != nil {
		l.Fatalf("Failed to connect to storage: %v", err)
	}
	defer storage.Close()

	l.AddHook(logger.NewMongoHook(storage.DB))

	// Repositories
	chatRepo := repo.NewChatRepository(storage.DB)
	userRepo := repo.NewUserRepository(storage.DB)

	// Telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Service layer
	msgSvc := telegram.NewMessageService(bot, chatRepo, l)
	svc := service.New(l, chatRepo, userRepo, msgSvc)

	// Register command handlers
	bot.RegisterCommand("start", handlers.NewStartHandler(l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))

	// Queue lifecycle
	bot.RegisterCommand("create", handlers.NewCreateHandler(svc, l))
	bot.RegisterCommand("queues", handlers.NewQueuesHandler(svc, l))
	bot.RegisterCommand("delete", handlers.NewDeleteHandler(svc, l))
	bot.RegisterCommand("delete_all", handlers.NewDeleteAllHandler(svc, l))
	bot.RegisterCommand("rename", handlers.NewRenameHandler(svc, l))
	bot.RegisterCommand("set_description", handlers.NewSetDescriptionHandler(svc, l))
	bot.RegisterCommand("set_expire_time", handlers.NewSetExpireTimeHandler(svc, l))

	// Member management
	bot.RegisterCommand("insert", handlers.NewInsertHandler(svc, l))
	bot.RegisterCommand("remove", handlers.NewRemoveHandler(svc, l))
	bot.RegisterCommand("replace", handlers.NewReplaceHandler(svc, l))

	// Display names
	bot.RegisterCommand("nickname", handlers.NewNicknameHandler(svc, l))
	bot.RegisterCommand("nickname_global", handlers.NewGlobalNicknameHandler(svc, l))

	// Callback handlers
	bot.RegisterCallback(telegram.ScopeQueue, handlers.NewQueueCallbackHandler(svc, l))
	bot.RegisterCallback(telegram.ScopeQueueMenu, handlers.NewQueueMenuCallbackHandler(svc, l))
	bot.RegisterCallback(telegram.ScopeQueuesMenu, handlers.NewQueuesMenuCallbackHandler(svc, l))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Re-arm expiration timers persisted by a previous run.
	if err := svc.Expirations.RestoreAll(ctx); err != nil {
		l.Errorf("Failed to restore expiration schedules: %v", err)
	}

	// Start ops HTTP server
	apiServer := api.NewServer(svc, bot, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Start Telegram bot polling
	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()

	l.Info("QueueboT started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	svc.Expirations.StopAll()

	l.Info("QueueboT stopped")
}
