package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authusecases "github.com/eridehero/eridehero/internal/application/auth/usecases"
	"github.com/eridehero/eridehero/internal/application/auth/helpers"
	"github.com/eridehero/eridehero/internal/application/notification"
	socialusecases "github.com/eridehero/eridehero/internal/application/socialauth/usecases"
	trackerusecases "github.com/eridehero/eridehero/internal/application/tracker/usecases"
	userusecases "github.com/eridehero/eridehero/internal/application/user/usecases"
	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/infrastructure/auth"
	"github.com/eridehero/eridehero/internal/infrastructure/cache"
	"github.com/eridehero/eridehero/internal/infrastructure/catalog"
	"github.com/eridehero/eridehero/internal/infrastructure/config"
	"github.com/eridehero/eridehero/internal/infrastructure/email"
	"github.com/eridehero/eridehero/internal/infrastructure/oauth"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/infrastructure/ratelimit"
	"github.com/eridehero/eridehero/internal/infrastructure/repository"
	"github.com/eridehero/eridehero/internal/infrastructure/token"
	"github.com/eridehero/eridehero/internal/interfaces/http/handlers"
	"github.com/eridehero/eridehero/internal/interfaces/http/middleware"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

const (
	oauthStateTTL      = 10 * time.Minute
	pendingProfileTTL  = 10 * time.Minute
	dispatcherBuffSize = 256
)

// Router wires the HTTP surface: repositories, use cases, handlers,
// middleware, and routes.
type Router struct {
	engine            *gin.Engine
	dispatcher        *events.InMemoryEventDispatcher
	authHandler       *handlers.AuthHandler
	socialAuthHandler *handlers.SocialAuthHandler
	trackerHandler    *handlers.TrackerHandler
	userHandler       *handlers.UserHandler
	loginPageHandler  *handlers.LoginPageHandler
	authMiddleware    *middleware.AuthMiddleware
	rateLimit         *middleware.RateLimitMiddleware
	cfg               *config.Config
	logger            logger.Interface
}

// NewRouter builds the full dependency graph for the HTTP server.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	userRepo := repository.NewUserRepository(db, log.Named("user-repo"))
	socialRepo := repository.NewSocialLinkRepository(db, log.Named("social-repo"))
	sessionRepo := repository.NewSessionRepository(db, log.Named("session-repo"))
	trackerRepo := repository.NewTrackerRepository(db, log.Named("tracker-repo"))

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes, cfg.Auth.JWT.RefreshExpDays)
	limiter := ratelimit.NewRedisRateLimiter(redisClient, ratelimit.BuildActions(cfg.Tracker.RateLimits), log.Named("ratelimit"))

	stateStore := cache.NewRedisStateStore(redisClient, "oauth_state", oauthStateTTL)
	pendingStore := cache.NewRedisPendingProfileStore(redisClient, "oauth_pending", pendingProfileTTL)

	registry := oauth.NewRegistry(
		oauth.NewGoogleProvider(cfg.OAuth.Google),
		oauth.NewFacebookProvider(cfg.OAuth.Facebook),
		oauth.NewRedditProvider(cfg.OAuth.Reddit, cfg.OAuth.UserAgent),
	)

	emailService := email.NewSMTPEmailService(cfg.Email)
	priceFetcher := pricing.NewClient(cfg.Pricing, log.Named("pricing"))
	catalogStore := catalog.NewClient(cfg.Catalog, log.Named("catalog"))
	signer := token.NewUnsubscribeSigner(cfg.Tracker.UnsubscribeSecret)

	dispatcher := events.NewInMemoryEventDispatcher(dispatcherBuffSize, logger.WithComponent("events"))
	welcomeHandler := notification.NewWelcomeEmailHandler(emailService, log.Named("welcome"))
	if err := welcomeHandler.Register(dispatcher); err != nil {
		log.Errorw("failed to register welcome email handler", "error", err)
	}

	authHelper := helpers.NewAuthHelper(sessionRepo, jwtService, cfg.Auth.Session, log.Named("auth-helper"))
	emailValidator := authusecases.NewEmailValidator()

	registerUC := authusecases.NewRegisterUseCase(userRepo, hasher, emailValidator, authHelper, dispatcher, cfg.Auth.Password, log.Named("register"))
	loginUC := authusecases.NewLoginUseCase(userRepo, hasher, authHelper, limiter, log.Named("login"))
	forgotPasswordUC := authusecases.NewForgotPasswordUseCase(userRepo, emailService, log.Named("forgot-password"))
	resetPasswordUC := authusecases.NewResetPasswordUseCase(userRepo, hasher, authHelper, cfg.Auth.Password, cfg.Auth.Token, log.Named("reset-password"))
	logoutUC := authusecases.NewLogoutUseCase(sessionRepo, log.Named("logout"))

	usernames := socialusecases.NewUsernameDeriver(userRepo)
	resolver := socialusecases.NewAccountResolver(userRepo, socialRepo, hasher, usernames, dispatcher, log.Named("resolver"))

	initiateUC := socialusecases.NewInitiateOAuthUseCase(registry, stateStore, log.Named("oauth-initiate"))
	callbackUC := socialusecases.NewHandleCallbackUseCase(registry, stateStore, pendingStore, socialRepo, userRepo, resolver, authHelper, log.Named("oauth-callback"))
	completeProfileUC := socialusecases.NewCompleteProfileUseCase(pendingStore, emailValidator, resolver, authHelper, log.Named("complete-profile"))
	listProvidersUC := socialusecases.NewListProvidersUseCase(registry, socialRepo, log.Named("list-providers"))
	unlinkUC := socialusecases.NewUnlinkProviderUseCase(userRepo, socialRepo, log.Named("unlink"))

	createTrackerUC := trackerusecases.NewCreateTrackerUseCase(trackerRepo, priceFetcher, log.Named("tracker-create"))
	updateTrackerUC := trackerusecases.NewUpdateTrackerUseCase(trackerRepo, priceFetcher, log.Named("tracker-update"))
	deleteTrackerUC := trackerusecases.NewDeleteTrackerUseCase(trackerRepo, log.Named("tracker-delete"))
	listTrackersUC := trackerusecases.NewListTrackersUseCase(trackerRepo, catalogStore, priceFetcher, log.Named("tracker-list"))
	getTrackerUC := trackerusecases.NewGetTrackerUseCase(trackerRepo, catalogStore, priceFetcher, log.Named("tracker-get"))
	priceDataUC := trackerusecases.NewPriceDataUseCase(priceFetcher, log.Named("price-data"))
	unsubscribeUC := trackerusecases.NewUnsubscribeUseCase(trackerRepo, signer, log.Named("unsubscribe"))

	getPreferencesUC := userusecases.NewGetPreferencesUseCase(userRepo, log.Named("preferences"))
	updatePreferencesUC := userusecases.NewUpdatePreferencesUseCase(userRepo, log.Named("preferences"))

	authHandler := handlers.NewAuthHandler(
		registerUC, loginUC, forgotPasswordUC, resetPasswordUC, logoutUC,
		userRepo, log.Named("auth-handler"), cfg.Auth.Cookie, cfg.Auth.JWT,
	)
	socialAuthHandler := handlers.NewSocialAuthHandler(
		initiateUC, callbackUC, completeProfileUC, listProvidersUC, unlinkUC,
		log.Named("social-handler"), cfg.Auth.Cookie, cfg.Auth.JWT, cfg.Server.LoginPageURL,
	)
	trackerHandler := handlers.NewTrackerHandler(
		createTrackerUC, updateTrackerUC, deleteTrackerUC, listTrackersUC,
		getTrackerUC, priceDataUC, unsubscribeUC, log.Named("tracker-handler"),
	)
	userHandler := handlers.NewUserHandler(getPreferencesUC, updatePreferencesUC, log.Named("user-handler"))
	loginPageHandler := handlers.NewLoginPageHandler(cfg.Server.LoginPageURL, log.Named("login-gate"))

	return &Router{
		engine:            engine,
		dispatcher:        dispatcher,
		authHandler:       authHandler,
		socialAuthHandler: socialAuthHandler,
		trackerHandler:    trackerHandler,
		userHandler:       userHandler,
		loginPageHandler:  loginPageHandler,
		authMiddleware:    middleware.NewAuthMiddleware(jwtService, log.Named("auth-middleware")),
		rateLimit:         middleware.NewRateLimitMiddleware(limiter, log.Named("ratelimit-middleware")),
		cfg:               cfg,
		logger:            log,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	if err := RegisterValidators(); err != nil {
		r.logger.Errorw("failed to register binding validators", "error", err)
	}

	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "eridehero"})
	})

	r.engine.GET("/login", r.authMiddleware.OptionalAuth(), r.loginPageHandler.Gate)

	authGroup := r.engine.Group("/auth")
	{
		authGroup.POST("/login", r.authMiddleware.OptionalAuth(), middleware.GuestOnly(), r.rateLimit.ForAction(ratelimit.ActionLogin), r.authHandler.Login)
		authGroup.POST("/register", r.authMiddleware.OptionalAuth(), middleware.GuestOnly(), r.rateLimit.ForAction(ratelimit.ActionRegister), r.authHandler.Register)
		authGroup.POST("/forgot-password", r.rateLimit.ForAction(ratelimit.ActionPasswordReset), r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.rateLimit.ForAction(ratelimit.ActionPasswordReset), r.authHandler.ResetPassword)
		authGroup.POST("/logout", r.authMiddleware.OptionalAuth(), r.authHandler.Logout)
		authGroup.GET("/status", r.authMiddleware.OptionalAuth(), r.authHandler.Status)

		authGroup.GET("/social/:provider", r.rateLimit.ForAction(ratelimit.ActionOAuthInitiate), r.socialAuthHandler.Initiate)
		authGroup.GET("/social/:provider/callback", r.socialAuthHandler.Callback)
		authGroup.POST("/social/complete", r.socialAuthHandler.CompleteProfile)
		authGroup.GET("/social/providers", r.authMiddleware.OptionalAuth(), r.socialAuthHandler.ListProviders)
	}

	userGroup := r.engine.Group("/user")
	userGroup.Use(r.authMiddleware.RequireAuth())
	{
		userGroup.GET("/preferences", r.userHandler.GetPreferences)
		userGroup.PUT("/preferences", r.userHandler.UpdatePreferences)

		userGroup.DELETE("/social/:provider", r.socialAuthHandler.Unlink)

		userGroup.GET("/trackers", r.trackerHandler.List)
		userGroup.GET("/trackers/:id", r.trackerHandler.Get)
		userGroup.POST("/trackers", r.rateLimit.ForAction(ratelimit.ActionTrackerCreate), r.trackerHandler.Create)
		userGroup.PUT("/trackers/:id", r.rateLimit.ForAction(ratelimit.ActionTrackerUpdate), r.trackerHandler.Update)
		userGroup.DELETE("/trackers/:id", r.trackerHandler.Delete)
	}

	products := r.engine.Group("/products")
	{
		products.GET("/:id/price-data", r.trackerHandler.PriceData)
		products.GET("/:id/tracker", r.authMiddleware.RequireAuth(), r.trackerHandler.GetByProduct)
		products.DELETE("/:id/tracker", r.authMiddleware.RequireAuth(), r.trackerHandler.DeleteByProduct)
	}

	unsubscribe := r.rateLimit.ForAction(ratelimit.ActionTrackerUnsubscribe)
	r.engine.GET("/trackers/unsubscribe", unsubscribe, r.trackerHandler.Unsubscribe)
	r.engine.POST("/trackers/unsubscribe", unsubscribe, r.trackerHandler.Unsubscribe)

	r.engine.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, 404, "not found")
	})
}

// Start begins event dispatch. Call before serving traffic.
func (r *Router) Start() error {
	return r.dispatcher.Start()
}

// Stop drains the event dispatcher.
func (r *Router) Stop() error {
	return r.dispatcher.Stop()
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
