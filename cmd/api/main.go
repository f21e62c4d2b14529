package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helpdeskhq/helpdesk-service/internal/api/http"
	"github.com/helpdeskhq/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/config"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/observability"
	"github.com/helpdeskhq/helpdesk-service/internal/persistence"
	"github.com/helpdeskhq/helpdesk-service/internal/repository"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
	"github.com/helpdeskhq/helpdesk-service/internal/worker"
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

	rds := persistence.NewRedis(cfg.Redis, logger)
	defer rds.Close()

	pool := pg.PoolHandle()
	directory := repository.NewActorDirectory(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	priorityRepo := repository.NewPriorityRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CommentRepo:  commentRepo,
		PriorityRepo: priorityRepo,
		CategoryRepo: categoryRepo,
		Dispatcher:   dispatcher,
		Defaults:     service.PriorityDefaults{PreferredName: cfg.Ticket.DefaultPriorityName},
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo: ticketRepo,
		Directory:  directory,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(notificationRepo, directory, rds.ClientHandle(), logger)
	authService := service.NewAuthService(*cfg, directory)

	worker.StartNotificationWorker(notificationService, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), directory)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rds),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
