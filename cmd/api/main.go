package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-mart-inventory/config"
	"ai-mart-inventory/internal/cache"
	"ai-mart-inventory/internal/calendar"
	"ai-mart-inventory/internal/event"
	"ai-mart-inventory/internal/handler"
	"ai-mart-inventory/internal/llm"
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/migrate"
	"ai-mart-inventory/internal/notify"
	"ai-mart-inventory/internal/refill"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/internal/scheduler"
	"ai-mart-inventory/internal/service"
	"ai-mart-inventory/internal/ws"
	"ai-mart-inventory/pkg/database"
	"ai-mart-inventory/pkg/jwt"
	"ai-mart-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Config + logger
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must(cfg.Server.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := migrate.Run(ctx, db, log, migrate.DefaultOptions()); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	repo := repository.New(db)

	// 3. Live events: websocket hub, plus Kafka when enabled
	// the hub outlives the listener so closing sockets can still unregister
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)
	events := event.Multi{hub}
	if cfg.Kafka.Enabled {
		producer := notify.NewEventProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic, log)
		defer producer.Close()
		events = append(events, producer)
	}

	// 4. Cache
	var festivalCache cache.Cache = cache.NewMemory()
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warn("redis unavailable, using in-memory cache", zap.Error(err))
		} else {
			defer rdb.Close()
			festivalCache = rdb
		}
	}

	mailer, closeMailer := notify.FromConfig(cfg, log)
	defer closeMailer()

	alertLoc, err := time.LoadLocation(cfg.Scheduler.AlertTimezone)
	if err != nil {
		log.Fatal("bad alert timezone", zap.Error(err))
	}

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	ai := llm.NewClient(cfg.AI)
	festivals := calendar.NewService(calendar.NewCalendarific(cfg.Calendar), festivalCache, cfg.Calendar.Country, log)
	engine := refill.NewEngine(db, log, refill.WithPublisher(service.RefillEvents{Publisher: events}))

	authService := service.NewAuthService(repo, tokens, mailer, cfg.FrontendURL, log)
	itemService := service.NewItemService(repo, ai, cfg.AI.Model, events, log)
	saleService := service.NewSaleService(repo, events, log)
	orderService := service.NewOrderService(repo.Orders)
	storeService := service.NewStoreService(repo.Stores)
	alertService := service.NewAlertService(repo, mailer, cfg.SMTP.From, alertLoc, log)
	analyticsService := service.NewAnalyticsService(repo, alertLoc)
	aiService := service.NewAIService(repo, ai, cfg.AI.Model, cfg.AI.FallbackModels, log)
	chatService := service.NewChatService(repo, ai, cfg.AI.ChatModel, log)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		Items:     handler.NewItemHandler(itemService, log),
		Sales:     handler.NewSaleHandler(saleService, orderService, log),
		Refill:    handler.NewRefillHandler(engine, log),
		Stores:    handler.NewStoreHandler(storeService, alertService, log),
		Analytics: handler.NewAnalyticsHandler(analyticsService, log),
		Calendar:  handler.NewCalendarHandler(festivals, log),
		AI:        handler.NewAIHandler(aiService, chatService, log),
		Hub:       hub,
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "AI Mart Inventory",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.AllowedOrigins}))

	handler.Register(app, handlers, middleware.RequireAuth(tokens, repo.Users))

	// 7. Scheduler
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(cfg.Scheduler, engine, repo.Stores, alertService, log)
		if err != nil {
			log.Fatal("scheduler setup failed", zap.Error(err))
		}
		sched.Start()
	}

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	log.Info("server started", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	stopHub()
	log.Info("server exited")
}
