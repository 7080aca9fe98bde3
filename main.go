package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/storefront/config"
	"example.com/storefront/internal/infra/cache"
	"example.com/storefront/internal/infra/fallback"
	"example.com/storefront/internal/infra/persistence/postgres"
	"example.com/storefront/internal/infra/security"
	httpapi "example.com/storefront/internal/interface/http"
	appointmentuc "example.com/storefront/internal/usecase/appointment"
	authuc "example.com/storefront/internal/usecase/auth"
	categoryuc "example.com/storefront/internal/usecase/category"
	productuc "example.com/storefront/internal/usecase/product"
	storeuc "example.com/storefront/internal/usecase/store"
	touruc "example.com/storefront/internal/usecase/tour"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, postgres.Config{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("could not connect to postgres", zap.Error(err))
	}
	defer pool.Close()
	db := postgres.NewDB(pool, cfg.Postgres.QueryTimeout, cfg.Postgres.RetryAttempts)

	catalog, err := fallback.Load()
	if err != nil {
		logger.Fatal("could not load fallback catalog", zap.Error(err))
	}

	var facetsCache productuc.FacetsCache
	if cfg.Redis.Addr != "" {
		c, err := cache.NewFacetsCache(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.FacetsTTL,
		})
		if err != nil {
			logger.Warn("redis unavailable, facets are not cached", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		if c.Enabled() {
			facetsCache = c
			defer func() { _ = c.Close() }()
		}
	}

	categoryRepo := postgres.NewCategoryRepository(db)
	storeRepo := postgres.NewStoreRepository(db)

	var authSvc *authuc.Service
	if cfg.Auth.JWTSecret != "" {
		authSvc = authuc.NewService(security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	} else {
		logger.Warn("auth.jwt_secret is empty, staff endpoints will reject every request")
	}

	api := httpapi.NewAPI(httpapi.Dependencies{
		ProductService: productuc.NewService(productuc.Dependencies{
			Repository: postgres.NewProductRepository(db),
			Categories: categoryRepo,
			Fallback:   catalog,
			Cache:      facetsCache,
			Logger:     logger.Named("product"),
		}),
		CategoryService:    categoryuc.NewService(categoryRepo),
		StoreService:       storeuc.NewService(storeRepo),
		AppointmentService: appointmentuc.NewService(postgres.NewAppointmentRepository(db), storeRepo),
		TourService:        touruc.NewService(postgres.NewTourRepository(db)),
		AuthService:        authSvc,
		DB:                 db,
		Logger:             logger.Named("http"),
		SearchRate:         cfg.Search.RatePerSecond,
		SearchBurst:        cfg.Search.Burst,
		ProductPageSize:    cfg.Catalog.ProductPageSize,
		TourPageSize:       cfg.Catalog.TourPageSize,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("stopped")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
