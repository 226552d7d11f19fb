package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"roomies/internal/app/dto"
	listingapp "roomies/internal/app/handlers/listings"
	"roomies/internal/app/middleware"
	"roomies/internal/app/queries"
	"roomies/internal/app/services/auth"
	domainlistings "roomies/internal/domain/listings"
	domainuser "roomies/internal/domain/user"
	"roomies/internal/infra/broker/kafka"
	"roomies/internal/infra/config"
	mongostore "roomies/internal/infra/db/mongo"
	"roomies/internal/infra/geoip"
	ginserver "roomies/internal/infra/http/gin"
	"roomies/internal/infra/obs"
	"roomies/internal/infra/security"
	"roomies/internal/infra/storage/local"
	"roomies/internal/infra/storage/memory"
	"roomies/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(getenv("APP_ENV", "dev")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger, closeLogs := buildLogger(cfg)
	defer closeLogs()

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreMode, "images", cfg.ImagesMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildLogger(cfg config.Config) (*slog.Logger, func()) {
	if !cfg.FluentEnabled {
		return obs.NewLogger(cfg.Env), func() {}
	}
	client, err := obs.NewFluentClient(obs.FluentConfig{Host: cfg.FluentHost, Port: cfg.FluentPort, Tag: cfg.FluentTag})
	if err != nil {
		logger := obs.NewLogger(cfg.Env)
		logger.Warn("fluent bit unavailable, logging to stdout only", "error", err)
		return logger, func() {}
	}
	logger := obs.NewLogger(cfg.Env, obs.NewFluentHandler(client, slog.LevelInfo))
	return logger, func() { _ = client.Close() }
}

type application struct {
	handlers ginserver.Handlers
	ready    func(ctx context.Context) error
	closers  []io.Closer
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{ready: func(context.Context) error { return nil }}

	listingsRepo, usersRepo, err := app.buildStores(ctx, cfg, logger)
	if err != nil {
		app.close()
		return nil, err
	}
	images, err := app.buildImages(ctx, cfg, logger)
	if err != nil {
		app.close()
		return nil, err
	}

	locator := &geoip.Resolver{
		Endpoint: cfg.GeoIPEndpoint,
		Client:   &http.Client{},
		Timeout:  cfg.GeoIPTimeout,
		Logger:   logger.With("component", "geoip"),
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[listingapp.SearchQuery, dto.SearchPage](queryBus, listingapp.SearchQuery{}.Key(), &listingapp.SearchHandler{
		Listings: listingsRepo,
		Locator:  locator,
		Logger:   logger,
	})
	queries.RegisterHandler[listingapp.NearbyQuery, dto.NearbyPage](queryBus, listingapp.NearbyQuery{}.Key(), &listingapp.NearbyHandler{
		Listings: listingsRepo,
		Locator:  locator,
		Limit:    cfg.NearYouLimit,
	})
	queries.RegisterHandler[listingapp.GetDetailQuery, dto.ListingDetail](queryBus, listingapp.GetDetailQuery{}.Key(), &listingapp.GetDetailHandler{
		Listings: listingsRepo,
	})

	mws := []middleware.QueryMiddleware{middleware.QueryLogging(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			logger.Warn("kafka unavailable, search events disabled", "error", err)
		} else {
			app.closers = append(app.closers, producer)
			mws = append(mws, middleware.Announce(producer, producer.Topic(kafka.SearchTopic), cfg.KafkaTimeout, logger))
		}
	}
	queryBusWithMiddleware := middleware.ChainQueries(queryBus, mws...)

	authService := &auth.Service{
		Users:     usersRepo,
		Passwords: security.BcryptHasher{},
		Tokens:    security.JWTIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.SessionTTL},
		Logger:    logger,
	}

	app.handlers = ginserver.Handlers{
		Listing: ginserver.ListingHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Auth:    ginserver.AuthHandler{Service: authService, CookieSecure: cfg.CookieSecure, Logger: logger},
		Images:  &ginserver.ImageHandler{Images: images, Logger: logger},
		Sessions: ginserver.SessionMiddleware{
			Service: authService,
			Logger:  logger,
		},
	}
	return app, nil
}

func (a *application) buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (domainlistings.Repository, domainuser.Repository, error) {
	if cfg.StoreMode == config.StoreMongo {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, closerFunc(func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Close(closeCtx)
		}))
		if err := client.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo index setup failed", "error", err)
		}
		a.ready = client.Ping
		return mongostore.NewListingRepository(client.DB), mongostore.NewUserRepository(client.DB), nil
	}

	listingsRepo := memory.NewListingRepository()
	fixturesPath := cfg.ListingsFixtures
	if fixturesPath == "" {
		fixturesPath = defaultListingFixturesPath()
	}
	if err := loadListingFixtures(ctx, listingsRepo, fixturesPath, logger); err != nil {
		logger.Warn("listing fixtures load failed", "error", err, "path", fixturesPath)
	}
	return listingsRepo, memory.NewUserRepository(), nil
}

func (a *application) buildImages(ctx context.Context, cfg config.Config, logger *slog.Logger) (ginserver.ImageSource, error) {
	if cfg.ImagesMode != config.ImagesS3 {
		store, err := local.NewImageStore(cfg.StaticImgDir)
		if err != nil {
			logger.Warn("image directory unavailable", "dir", cfg.StaticImgDir, "error", err)
			return nil, nil
		}
		a.closers = append(a.closers, store)
		return store, nil
	}

	store, err := s3.NewImageStore(s3.Options{
		Endpoint:  cfg.S3Endpoint,
		UseSSL:    cfg.S3UseSSL,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	if cfg.S3Mirror {
		src, err := local.NewImageStore(cfg.StaticImgDir)
		if err != nil {
			return nil, fmt.Errorf("open image dir for mirroring: %w", err)
		}
		n, err := s3.Mirror(ctx, src, store)
		_ = src.Close()
		if err != nil {
			logger.Warn("image mirror incomplete", "uploaded", n, "error", err)
		} else {
			logger.Info("images mirrored to bucket", "uploaded", n, "bucket", cfg.S3Bucket)
		}
	}
	prev := a.ready
	a.ready = func(ctx context.Context) error {
		if err := prev(ctx); err != nil {
			return err
		}
		return store.Ping(ctx)
	}
	return store, nil
}

func loadListingFixtures(ctx context.Context, repo *memory.ListingRepository, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("listing fixtures file empty", "path", path)
		return nil
	}
	n, err := repo.LoadFixtures(ctx, data)
	if err != nil {
		return err
	}
	logger.Info("listing fixtures imported", "count", n, "path", path)
	return nil
}

func defaultListingFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "listings.json"),
		filepath.Join("..", "..", "data", "listings.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
