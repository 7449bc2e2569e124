package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/http"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/http/handlers"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/ws"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/config"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/events"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/notify"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/observability"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/persistence"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/realtime"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/service"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/worker"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	taskFileRepo := repository.NewTaskFileRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	historyRepo := repository.NewOrderHistoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	registry := realtime.NewRegistry()

	emailSender := notify.NewEmailSender(cfg.Email, logger)
	guard := notify.NewRedisGuard(redis.ClientHandle())
	fallback := notify.NewFallbackNotifier(userRepo, messageRepo, guard, emailSender, logger)
	router := notify.NewRouter(registry, fallback, logger)

	machine := workflow.NewMachine(workflow.Dependencies{
		OrderRepo:   orderRepo,
		TaskRepo:    taskRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
	})

	authService := service.NewAuthService(*cfg, userRepo)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:    orderRepo,
		TaskRepo:     taskRepo,
		TaskFileRepo: taskFileRepo,
		UserRepo:     userRepo,
		HistoryRepo:  historyRepo,
		Machine:      machine,
	})
	messageService := service.NewMessageService(messageRepo, userRepo, router, logger)

	metrics := observability.NewMetrics()
	notificationService := service.NewNotificationService(dispatcher, orderRepo, taskRepo, router, metrics, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	wsHandler := ws.NewHandler(authMiddleware, registry, messageService, cfg.Realtime, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService, userRepo),
		Orders:         handlers.NewOrdersHandler(orderService),
		Tasks:          handlers.NewTasksHandler(orderService),
		Messages:       handlers.NewMessagesHandler(messageService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Realtime:       wsHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("service started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("env", cfg.App.Env))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
