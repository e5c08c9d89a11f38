package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/cache"
	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/events"
	"github.com/Mukulraj109/rez-backend-sub002/internal/handler"
	"github.com/Mukulraj109/rez-backend-sub002/internal/media"
	"github.com/Mukulraj109/rez-backend-sub002/internal/middleware"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/internal/repository"
	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/config"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/database"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/jwtutil"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/metrics"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/validation"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Starting service...", cfg.LogFields()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Databases
	mongoDB, err := database.ConnectMongo(ctx, &cfg.Mongo, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Close(context.Background())

	pg, err := database.OpenPostgres(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	if err := database.MigrateModels(pg, &model.Merchant{}, &model.AuditLog{}); err != nil {
		log.Fatal("Failed to migrate Postgres models", zap.Error(err))
	}
	log.Info("Database connections established")

	prometheus.InitMetrics(cfg.Metrics.Prefix, promclient.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(cfg.ServiceName, promclient.DefaultRegisterer)
	log.Info("Prometheus metrics initialized")

	// Adapters
	var pageCache domain.PageCache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, page caching disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			pageCache = redisCache
		}
	}

	var publisher domain.PublisherPort = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	mediaStore, err := media.NewS3Store(ctx, cfg.Media.Bucket, cfg.Media.Region, cfg.Media.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize media store", zap.Error(err))
	}

	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	// Repositories
	db := mongoDB.DB
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	merchantRepo := repository.NewMerchantRepository(pg)
	auditRepo := repository.NewAuditRepository(pg)

	// Services
	stores := service.NewStoreService(storeRepo, log)
	products := service.NewProductService(stores, productRepo, log)
	gallery := service.NewGalleryService(stores, repository.NewGalleryRepository(db), mediaStore, publisher, cfg.Media.MaxUploadBytes, log)
	productGallery := service.NewProductGalleryService(products, repository.NewProductGalleryRepository(db), mediaStore, publisher,
		cfg.Media.MaxProductImageBytes, log)
	offersPage := service.NewOffersPageService(repository.NewOffersCatalog(db), repository.NewSectionConfigRepository(db), pageCache, cfg.Redis.OffersTTL, log)

	handlers := handler.Handlers{
		Auth:           handler.NewAuthHandler(service.NewAuthService(merchantRepo, tokens, log)),
		Stores:         handler.NewStoreHandler(stores),
		Products:       handler.NewProductHandler(products),
		Gallery:        handler.NewGalleryHandler(gallery, cfg.Media.TempDir),
		ProductGallery: handler.NewProductGalleryHandler(productGallery, cfg.Media.TempDir),
		Videos: handler.NewVideoHandler(service.NewVideoService(stores, repository.NewVideoRepository(db), productRepo,
			mediaStore, publisher, log)),
		Bulk: handler.NewBulkHandler(service.NewBulkService(stores, productRepo, repository.NewCategoryRepository(db),
			repository.NewTransactor(mongoDB.Client), auditRepo, publisher, cfg.Import.MaxRows, cfg.Import.BatchSize, log)),
		Orders:    handler.NewOrderHandler(service.NewOrderService(repository.NewOrderRepository(db), publisher, auditRepo, log)),
		Homepage:  handler.NewHomepageHandler(service.NewHomepageService(repository.NewHomepageCatalog(db), pageCache, cfg.Redis.HomepageTTL, log)),
		Offers:    handler.NewOffersHandler(offersPage),
		CoinDrops: handler.NewCoinDropHandler(service.NewCoinDropService(stores, repository.NewCoinDropRepository(db), log)),
		Admin: handler.NewAdminHandler(service.NewAdminService(merchantRepo, stores, repository.NewOfferRepository(db),
			auditRepo, pageCache, log)),
	}

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit(cfg.Media.MaxUploadBytes)))
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	handler.Register(e, handlers, middleware.JWTAuth(tokens))

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// bodyLimit allows a full bulk gallery upload plus multipart overhead
func bodyLimit(maxUploadBytes int64) string {
	const mb = 1 << 20
	limit := maxUploadBytes * service.MaxBulkGalleryFiles / mb
	if limit < 10 {
		limit = 10
	}
	return strconv.FormatInt(limit+1, 10) + "M"
}
