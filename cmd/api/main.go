package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/escalation-service/internal/api/http"
	"github.com/spec-kit/escalation-service/internal/api/http/handlers"
	"github.com/spec-kit/escalation-service/internal/auth"
	"github.com/spec-kit/escalation-service/internal/classifier"
	"github.com/spec-kit/escalation-service/internal/config"
	"github.com/spec-kit/escalation-service/internal/events"
	"github.com/spec-kit/escalation-service/internal/mailgraph"
	"github.com/spec-kit/escalation-service/internal/observability"
	"github.com/spec-kit/escalation-service/internal/persistence"
	"github.com/spec-kit/escalation-service/internal/repository"
	"github.com/spec-kit/escalation-service/internal/service"
	"github.com/spec-kit/escalation-service/internal/worker"
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

	var caseRepo repository.CaseRepository
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		caseRepo = repository.NewCaseRepository(pool)
	} else {
		caseRepo = repository.NewMemoryCaseRepository()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	fingerprintCache := persistence.NewFingerprintCache(redis, logger)

	lexicon := classifier.DefaultLexicon()
	if cfg.Classifier.LexiconPath != "" {
		lexicon, err = classifier.LoadLexicon(cfg.Classifier.LexiconPath)
		if err != nil {
			logger.Fatal("failed to load lexicon", zap.Error(err))
		}
	}
	caseClassifier := classifier.New(lexicon, classifier.WithTriggerPolicy(classifier.TriggerPolicy{
		OnNegativeSentiment: cfg.Classifier.TriggerOnNegative,
		OnHighUrgency:       cfg.Classifier.TriggerOnUrgent,
	}))

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	escalationService := service.NewEscalationService(service.EscalationDependencies{
		CaseRepo:   caseRepo,
		Classifier: caseClassifier,
		Cache:      fingerprintCache,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	authService := service.NewAuthService(cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), cfg.Auth.Enabled)

	var poller *worker.MailPoller
	if cfg.Mail.PollEnabled {
		poller = worker.NewMailPoller(
			mailgraph.NewClient(cfg.Mail),
			escalationService,
			cfg.Mail.PollInterval(),
			cfg.Mail.TickTimeout(),
			logger,
		)
		poller.Start()
		logger.Info("mail poller started",
			zap.Duration("interval", cfg.Mail.PollInterval()),
			zap.Int("mailboxes", len(cfg.Mail.Mailboxes)))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Escalations:    handlers.NewEscalationsHandler(escalationService),
		Metrics:        handlers.NewMetricsHandler(escalationService, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if poller != nil {
		poller.Stop()
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
