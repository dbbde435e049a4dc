package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/gateway"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/storage"
	"github.com/spec-kit/support-desk/internal/worker"
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

	s3Store, err := storage.NewS3Store(ctx, cfg.S3, logger)
	if err != nil {
		logger.Fatal("failed to init s3 store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	assigneeRepo := repository.NewAssigneeRepository(pool)
	dropdownRepo := repository.NewDropdownRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	taxonomyService := service.NewTaxonomyService(dropdownRepo, redis, cfg.Taxonomy.CacheTTL(), logger)
	dropdownService := service.NewDropdownService(dropdownRepo, taxonomyService, logger)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:       ticketRepo,
		AssigneeRepo:     assigneeRepo,
		TerminalStatuses: cfg.Assignment.TerminalStatuses,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:       ticketRepo,
		AssigneeRepo:     assigneeRepo,
		Taxonomy:         taxonomyService,
		Assignment:       assignmentService,
		Attachments:      s3Store,
		Dispatcher:       dispatcher,
		TerminalStatuses: cfg.Assignment.TerminalStatuses,
		Logger:           logger,
	})
	analyticsService := service.NewAnalyticsService(ticketRepo, assigneeRepo, cfg.Assignment.TerminalStatuses, logger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	adminService := service.NewAdminService(adminRepo, tokenManager, logger)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, adminRepo)

	whatsapp := gateway.NewWhatsAppClient(cfg.WhatsApp, logger)
	notificationService := service.NewNotificationService(whatsapp, logger)
	worker.StartNotificationWorker(notificationService, dispatcher)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.S3.MaxFileSizeBytes) * (cfg.S3.MaxFilesPerTicket + 1),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(ticketService, cfg.S3),
		AdminAuth:      handlers.NewAdminAuthHandler(adminService),
		AdminTickets:   handlers.NewAdminTicketsHandler(ticketService, assignmentService),
		Dropdowns:      handlers.NewDropdownsHandler(dropdownService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
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
