package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/denuncia-service/internal/api/http"
	"github.com/spec-kit/denuncia-service/internal/api/http/handlers"
	"github.com/spec-kit/denuncia-service/internal/assets"
	"github.com/spec-kit/denuncia-service/internal/auth"
	"github.com/spec-kit/denuncia-service/internal/config"
	"github.com/spec-kit/denuncia-service/internal/events"
	"github.com/spec-kit/denuncia-service/internal/mail"
	"github.com/spec-kit/denuncia-service/internal/observability"
	"github.com/spec-kit/denuncia-service/internal/persistence"
	"github.com/spec-kit/denuncia-service/internal/ratelimit"
	"github.com/spec-kit/denuncia-service/internal/repository"
	"github.com/spec-kit/denuncia-service/internal/service"
	"github.com/spec-kit/denuncia-service/internal/worker"
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
	accountRepo := repository.NewAccountRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth)
	mailer := mail.NewSMTPMailer(cfg.Mail)

	var assetStore assets.Store
	if store, err := assets.NewS3Store(ctx, cfg.Assets); err != nil {
		logger.Warn("evidence store disabled", zap.Error(err))
	} else {
		assetStore = store
	}

	var limiter *ratelimit.SubmissionLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewSubmissionLimiter(redis.Client, cfg.RateLimit.Window(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))

	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		AccountRepo: accountRepo,
		Tokens:      tokens,
		Mailer:      mailer,
		Dispatcher:  dispatcher,
	})
	adminService := service.NewAdminService(*cfg, adminRepo, tokens)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:   reportRepo,
		AccountRepo:  accountRepo,
		StatsRepo:    statsRepo,
		AssetStore:   assetStore,
		Limiter:      limiter,
		Dispatcher:   dispatcher,
		Logger:       logger,
		UploadWindow: cfg.Assets.Timeout(),
	})

	extractor := auth.NewCredentialExtractor(cfg.Auth.TokenHeader)
	authMiddleware := auth.NewMiddleware(tokens, extractor, accountRepo, adminRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	tokenHeader := responseTokenHeader(cfg.Auth.TokenHeader)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(accountService, tokenHeader),
		Reports:        handlers.NewReportsHandler(reportService),
		Admin:          handlers.NewAdminHandler(adminService, accountService, reportService, tokenHeader),
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

// responseTokenHeader names the header carrying freshly issued tokens. When
// credentials arrive via the Authorization Bearer scheme, issued tokens still
// go out under "auth-token" so clients never parse a Bearer prefix back out.
func responseTokenHeader(configured string) string {
	if configured == "" || configured == "Authorization" {
		return "auth-token"
	}
	return configured
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
