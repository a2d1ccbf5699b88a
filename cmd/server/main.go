package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/infrastructure/cache"
	"github.com/podsuite/console/internal/infrastructure/config"
	"github.com/podsuite/console/internal/infrastructure/logger"
	"github.com/podsuite/console/internal/infrastructure/telemetry"
	"github.com/podsuite/console/internal/interfaces/http/handler"
	"github.com/podsuite/console/internal/interfaces/http/middleware"
	"github.com/podsuite/console/internal/interfaces/http/router"
	"github.com/podsuite/console/internal/session"
	"github.com/podsuite/console/internal/theme"
	"github.com/podsuite/console/internal/upstream"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POD Console",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	// Initialize tracing
	shutdownTracing, err := telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("Tracing shutdown failed", zap.Error(err))
		}
	}()

	// Session store with theme side effects
	themes := theme.NewStore()
	sessionStore := session.NewStore(themes)

	// Session persistence: restore a prior session, then save on every change
	persister, redisClient, err := newPersister(cfg)
	if err != nil {
		log.Fatal("Failed to initialize session persistence", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 5*time.Second)
	snap, found, err := persister.Load(restoreCtx)
	cancelRestore()
	if err != nil {
		log.Warn("Could not load persisted session, starting logged out", zap.Error(err))
	} else if found {
		sessionStore.Restore(snap)
		log.Info("Session restored",
			zap.Bool("authenticated", sessionStore.Authenticated()))
	}

	sessionStore.Subscribe(func(snap session.Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := persister.Save(ctx, snap); err != nil {
			log.Error("Failed to persist session", zap.Error(err))
		}
	})

	// Query cache
	var queryCache cache.QueryCache
	if cfg.Cache.Enabled {
		factory := cache.NewQueryCacheFactory(cfg.Redis, cfg.Cache, cache.WithLogger(log))
		queryCache, err = factory.CreateCache()
		if err != nil {
			log.Fatal("Failed to initialize query cache", zap.Error(err))
		}
		defer func() { _ = queryCache.Close() }()
	}

	// Upstream client; the transport injects the bearer token and recovers
	// from a single expired-token failure per request
	var baseTransport http.RoundTripper = http.DefaultTransport
	if cfg.Telemetry.Enabled {
		baseTransport = otelhttp.NewTransport(http.DefaultTransport)
	}
	upstreamClient, err := upstream.New(upstream.Config{
		BaseURL:     cfg.Upstream.BaseURL,
		RefreshPath: cfg.Upstream.RefreshPath,
		Timeout:     cfg.Upstream.Timeout,
		Session:     sessionStore,
		Base:        baseTransport,
		Logger:      log,
		OnAuthFailure: func() {
			log.Warn("Session could not be recovered, user logged out")
		},
	})
	if err != nil {
		log.Fatal("Failed to initialize upstream client", zap.Error(err))
	}

	// Handlers
	authHandler := handler.NewAuthHandler(upstreamClient, sessionStore, queryCache, log)
	userHandler := handler.NewUserHandler(upstreamClient, sessionStore, themes, log)
	supplierHandler := handler.NewSupplierHandler(upstreamClient, log)
	shopHandler := handler.NewShopHandler(upstreamClient, log)
	productHandler := handler.NewProductHandler(upstreamClient, queryCache, log)
	templateHandler := handler.NewTemplateHandler(upstreamClient, log)
	orderHandler := handler.NewOrderHandler(upstreamClient, log)
	pricingHandler := handler.NewPricingHandler(upstreamClient, log)
	discountHandler := handler.NewDiscountHandler(upstreamClient, log)
	listingHandler := handler.NewListingHandler(upstreamClient, log)
	analyticsHandler := handler.NewAnalyticsHandler(upstreamClient, log)
	settingsHandler := handler.NewSettingsHandler(upstreamClient, log)
	systemHandler := handler.NewSystemHandler(version)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom binding validators
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, tracing
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Operational endpoints outside /api and outside the guard
	systemRoutes := &router.SystemRoutes{System: systemHandler}
	systemRoutes.Register(engine)

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(&router.PublicRoutes{Auth: authHandler})
	r.Register(&router.ProtectedRoutes{
		Session:   sessionStore,
		LoginPath: cfg.App.LoginPath,
		Auth:      authHandler,
		Users:     userHandler,
		Suppliers: supplierHandler,
		Shops:     shopHandler,
		Products:  productHandler,
		Templates: templateHandler,
		Orders:    orderHandler,
		Pricing:   pricingHandler,
		Discounts: discountHandler,
		Listings:  listingHandler,
		Analytics: analyticsHandler,
		Settings:  settingsHandler,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newPersister builds the configured session persister. The returned Redis
// client, when present, must be closed by the caller.
func newPersister(cfg *config.Config) (session.Persister, *redis.Client, error) {
	if cfg.Session.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return session.NewRedisPersister(client, cfg.Session.StorageKey), client, nil
	}
	return session.NewFilePersister(cfg.Session.Dir, cfg.Session.StorageKey), nil, nil
}
