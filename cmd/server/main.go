package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appanalytics "github.com/studiobook/backend/internal/application/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
	"github.com/studiobook/backend/internal/domain/shared"
	"github.com/studiobook/backend/internal/infrastructure/cache"
	"github.com/studiobook/backend/internal/infrastructure/config"
	"github.com/studiobook/backend/internal/infrastructure/logger"
	"github.com/studiobook/backend/internal/infrastructure/persistence"
	"github.com/studiobook/backend/internal/infrastructure/persistence/demo"
	"github.com/studiobook/backend/internal/interfaces/http/handler"
	"github.com/studiobook/backend/internal/interfaces/http/middleware"
	"github.com/studiobook/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	demoFlag := flag.Bool("demo", false, "serve the seeded demo transaction source instead of the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if *demoFlag {
		cfg.Demo.Enabled = true
	}

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

	log.Info("Starting StudioBook analytics",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("demo", cfg.Demo.Enabled),
	)

	// Transaction source: gorm repository against postgres, or the seeded
	// in-memory demo source.
	var (
		repo booking.TransactionRepository
		db   *persistence.Database
	)
	if cfg.Demo.Enabled {
		merchantID := uuid.New()
		if cfg.Demo.MerchantID != "" {
			merchantID, err = uuid.Parse(cfg.Demo.MerchantID)
			if err != nil {
				log.Fatal("Invalid demo.merchant_id", zap.Error(err))
			}
		}
		source := demo.NewSeededSource(merchantID, cfg.Demo.Seed, time.Now())
		repo = source
		log.Info("Serving seeded demo source",
			zap.String("merchant_id", source.MerchantID().String()),
			zap.Int64("seed", cfg.Demo.Seed),
		)
	} else {
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err = persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		repo = persistence.NewGormTransactionRepository(db.DB)
		log.Info("Database connected successfully")
	}

	// Response cache: redis when reachable, in-memory fallback unless the
	// config demands redis.
	cacheFactory := cache.NewAnalyticsCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Analytics.RequireRedis),
	)
	responseCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create analytics cache", zap.Error(err))
	}
	defer func() {
		if err := responseCache.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	analyticsService := appanalytics.NewAnalyticsService(repo, responseCache, log,
		appanalytics.WithCacheTTL(cfg.Analytics.CacheTTL),
	)

	// Event-driven invalidation: booking writers publish merchant IDs on the
	// invalidation channel; drop cached responses when they arrive.
	invalidatorCtx, stopInvalidator := context.WithCancel(context.Background())
	defer stopInvalidator()
	if _, ok := responseCache.(*cache.RedisAnalyticsCache); ok {
		invalidator, err := cache.NewRedisCacheInvalidator(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cache.WithInvalidatorLogger(log))
		if err != nil {
			log.Fatal("Failed to create cache invalidator", zap.Error(err))
		}
		defer func() {
			if err := invalidator.Close(); err != nil {
				log.Error("Error closing cache invalidator", zap.Error(err))
			}
		}()

		err = invalidator.Subscribe(invalidatorCtx, func(msg shared.CacheInvalidation) {
			merchantID, err := uuid.Parse(msg.MerchantID)
			if err != nil {
				log.Warn("Invalid merchant ID in invalidation message", zap.String("merchant_id", msg.MerchantID))
				return
			}
			if err := analyticsService.InvalidateMerchant(invalidatorCtx, merchantID); err != nil {
				log.Warn("Failed to invalidate merchant cache", zap.Error(err))
			}
		})
		if err != nil {
			log.Fatal("Failed to subscribe to cache invalidation", zap.Error(err))
		}
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		middleware.CORSWithConfig(corsCfg),
		middleware.Secure(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, pinger)
	systemHandler.RegisterRoutes(engine)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, cfg.Analytics.DefaultPageSize)
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(analyticsHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
