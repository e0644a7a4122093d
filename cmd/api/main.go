package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"candidate-portal/config"
	_ "candidate-portal/docs" // Important for Swagger
	"candidate-portal/internal/delivery/http/middleware"
	v1 "candidate-portal/internal/delivery/http/v1"
	"candidate-portal/internal/domain"
	"candidate-portal/internal/repository/memory"
	"candidate-portal/internal/repository/postgres"
	redisrepo "candidate-portal/internal/repository/redis"
	"candidate-portal/internal/usecase"
	"candidate-portal/pkg/auth"
	"candidate-portal/pkg/brevo"
	"candidate-portal/pkg/database"
	"candidate-portal/pkg/email"
	"candidate-portal/pkg/logger"
	"candidate-portal/pkg/redis"
	"candidate-portal/pkg/security"
	"candidate-portal/pkg/supersede"
	"candidate-portal/pkg/validation"
)

// @title           Candidate Portal API
// @version         1.0
// @description     Candidate onboarding, access guard and landing-page capture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.Production)

	environment := "development"
	if cfg.Production {
		environment = "production"
	}
	audit := security.NewAuditLogger("candidate-portal", environment)
	security.SetDefault(audit)
	defer func() { _ = audit.Sync() }()
	logger.Log.Info("Starting candidate portal", "port", cfg.Port, "guard_fail_open", cfg.GuardFailOpen)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(rootCtx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	redisClient, err := redis.Connect(rootCtx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Warn("Redis not configured - using in-memory drafts, counters and caches")
	case err != nil:
		logger.Log.Error("Redis unavailable - using in-memory fallback", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 5. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	waitlistRepo := postgres.NewWaitlistRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)

	var (
		draftRepo   domain.DraftRepository
		countCache  domain.CountCache
		rateLimiter *middleware.RateLimiter
	)
	if redisClient != nil {
		draftRepo = redisrepo.NewDraftRepository(redisClient)
		countCache = redisrepo.NewCountCache(redisClient, "notif:unread:")
		rateLimiter = middleware.NewRateLimiter(redisClient)
	} else {
		memDrafts := memory.NewDraftRepository()
		draftRepo = memDrafts
		countCache = memory.NewCountCache()
		rateLimiter = middleware.NewRateLimiter(nil)
		go sweep(rootCtx, 5*time.Minute, memDrafts.Sweep)
	}
	go sweep(rootCtx, 5*time.Minute, rateLimiter.Sweep)

	// 6. Setup External Services
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form and welcome emails will be unavailable")
	}

	var syncer domain.ContactSyncer
	brevoClient := brevo.NewClient(cfg.BrevoAPIURL, cfg.BrevoAPIKey)
	if brevoClient.IsConfigured() {
		syncer = usecase.NewBrevoContactSyncer(brevoClient, cfg.BrevoListID)
	} else {
		logger.Log.Warn("BREVO_API_KEY not set - waitlist contacts will not be synced")
	}

	var keySet *auth.KeySet
	if cfg.JWKSURL != "" {
		keySet = auth.NewKeySet(cfg.JWKSURL)
	}
	verifier := auth.NewVerifier(cfg.JWTSecret, keySet)

	// 7. Setup UseCases
	validate := validation.New()
	profileUC := usecase.NewProfileUsecase(profileRepo, validate)
	coordinator := usecase.NewOnboardingCoordinator(profileUC, draftRepo, cfg.DraftTTL)
	guard := usecase.NewAccessGuard(profileUC, supersede.New(), usecase.GuardConfig{
		FailOpen:     cfg.GuardFailOpen,
		FetchTimeout: cfg.GuardFetchTimeout,
	})
	waitlistUC := usecase.NewWaitlistUsecase(waitlistRepo, syncer, emailService, validate)
	contactUC := usecase.NewContactUsecase(emailService)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, countCache, cfg.UnreadCountCacheTTL)

	checks := map[string]usecase.HealthCheck{"database": dbPool.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ProfileUC:      profileUC,
		Coordinator:    coordinator,
		Guard:          guard,
		WaitlistUC:     waitlistUC,
		ContactUC:      contactUC,
		NotificationUC: notificationUC,
		HealthUC:       healthUC,
		Verifier:       verifier,
		RateLimiter:    rateLimiter,
		Config:         cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-rootCtx.Done()
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// sweep runs fn every interval until ctx is done.
func sweep(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
