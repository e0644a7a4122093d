package v1

import (
	"net/http"
	"time"

	"candidate-portal/config"
	"candidate-portal/internal/delivery/http/middleware"
	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/delivery/http/web"
	"candidate-portal/internal/domain"
	"candidate-portal/internal/usecase"
	"candidate-portal/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ProfileUC      domain.ProfileUsecase
	Coordinator    domain.OnboardingCoordinator
	Guard          domain.AccessGuard
	WaitlistUC     domain.WaitlistUsecase
	ContactUC      domain.ContactUsecase
	NotificationUC domain.NotificationUsecase
	HealthUC       usecase.HealthUsecase
	Verifier       *auth.Verifier
	RateLimiter    *middleware.RateLimiter
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.Production)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.Production))
	r.Use(middleware.SessionProvider(deps.Verifier))

	// Page area
	web.Register(r, web.NewHandler(deps.Coordinator, deps.Verifier, web.Config{
		DraftTTL:      cfg.DraftTTL,
		SecureCookies: cfg.Production,
	}), middleware.AccessGuard(deps.Guard))

	v1 := r.Group("/v1")
	v1.Use(middleware.ErrorHandler())
	v1.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	v1.GET("/health", Health(deps.HealthUC))

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Landing forms
	admin := v1.Group("/admin", middleware.RequireAPIKey(cfg.AdminAPIKey))
	landingLimit := deps.RateLimiter.Middleware(middleware.WaitlistRateLimitConfig(cfg.RateLimitWaitlistThreshold, window))
	NewWaitlistHandler(v1, admin, deps.WaitlistUC, landingLimit)
	NewContactHandler(v1, deps.ContactUC, landingLimit)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.RequireSession())
	{
		NewProfileHandler(protected, deps.ProfileUC)
		NewOnboardingHandler(protected, deps.Coordinator)
		NewNotificationHandler(protected, deps.NotificationUC)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found", nil)
	})

	return r
}
