package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/events"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/internal/repository"
	"github.com/Mukulraj109/rez-backend-sub002/internal/seed"
	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/config"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/database"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/jwtutil"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"go.uber.org/zap"
)

const usage = `Usage: seed <command> [flags]

Commands:
  seed offers|sections|categories   load sample offers, default section configs or categories
  seed orders                       create pending sample orders for stores with products
  indexes                           create every MongoDB index
  backfill-gallery-order            number unordered store and product gallery items per category
  admin -email E -password P        create or update an admin account
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log, err := logger.Init(logger.Config{Level: cfg.Log.Level, Environment: cfg.Server.Env, ServiceName: "rez-seed"})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, command string, args []string) error {
	switch command {
	case "seed":
		if len(args) != 1 {
			return fmt.Errorf("seed needs one of offers, sections, categories, orders")
		}
		return runSeed(ctx, cfg, log, args[0])
	case "indexes":
		return withMongo(ctx, cfg, log, func(m *database.Mongo) error {
			n, err := repository.EnsureIndexes(ctx, m.DB, log)
			log.Info("Indexes created", zap.Int("count", n))
			return err
		})
	case "backfill-gallery-order":
		return withMongo(ctx, cfg, log, func(m *database.Mongo) error {
			stores := service.NewStoreService(repository.NewStoreRepository(m.DB), log)
			products := service.NewProductService(stores, repository.NewProductRepository(m.DB), log)
			galleries := []*service.GalleryService{
				service.NewGalleryService(stores, repository.NewGalleryRepository(m.DB), nil, nil, cfg.Media.MaxUploadBytes, log),
				service.NewProductGalleryService(products, repository.NewProductGalleryRepository(m.DB), nil, nil, cfg.Media.MaxProductImageBytes, log),
			}
			total := 0
			for _, gallery := range galleries {
				n, err := gallery.BackfillOrder(ctx)
				total += n
				if err != nil {
					return err
				}
			}
			log.Info("Gallery order backfilled", zap.Int("updated", total))
			return nil
		})
	case "admin":
		return runAdmin(ctx, cfg, log, args)
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", command)
}

func runSeed(ctx context.Context, cfg *config.Config, log *zap.Logger, what string) error {
	return withMongo(ctx, cfg, log, func(m *database.Mongo) error {
		switch what {
		case "offers":
			inserted, err := seed.Offers(ctx, seed.MongoDocuments{DB: m.DB}, time.Now(), log)
			log.Info("Offers seeded", zap.Any("inserted", inserted))
			return err
		case "sections":
			n, err := seed.Sections(ctx, repository.NewSectionConfigRepository(m.DB))
			log.Info("Section configs seeded", zap.Int("count", n))
			return err
		case "categories":
			n, err := seed.Categories(ctx, repository.NewCategoryRepository(m.DB))
			log.Info("Categories seeded", zap.Int("count", n))
			return err
		case "orders":
			orders := service.NewOrderService(repository.NewOrderRepository(m.DB), events.NoopPublisher{}, nil, log)
			n, err := seed.Orders(ctx, seed.MongoDocuments{DB: m.DB}, repository.NewStoreRepository(m.DB),
				repository.NewProductRepository(m.DB), orders, log)
			log.Info("Orders seeded", zap.Int("count", n))
			return err
		}
		return fmt.Errorf("unknown seed target %q", what)
	})
}

func runAdmin(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password, at least 8 characters")
	name := fs.String("name", "Administrator", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("admin needs -email and -password")
	}

	pg, err := database.OpenPostgres(&cfg.DB, log)
	if err != nil {
		return err
	}
	if err := database.MigrateModels(pg, &model.Merchant{}, &model.AuditLog{}); err != nil {
		return err
	}

	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: cfg.JWT.SigningKey, ExpirationHours: cfg.JWT.ExpirationHours})
	auth := service.NewAuthService(repository.NewMerchantRepository(pg), tokens, log)
	admin, err := auth.EnsureAdmin(ctx, *email, *password, *name)
	if err != nil {
		return err
	}
	log.Info("Admin account ready", zap.Uint("merchant_id", admin.ID), zap.String("email", admin.Email))
	return nil
}

func withMongo(ctx context.Context, cfg *config.Config, log *zap.Logger, fn func(m *database.Mongo) error) error {
	m, err := database.ConnectMongo(ctx, &cfg.Mongo, log)
	if err != nil {
		return err
	}
	defer m.Close(context.Background())
	return fn(m)
}
