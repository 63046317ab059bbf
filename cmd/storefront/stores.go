package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type closer func() error

func openCatalog(cfg *config.Config, logger *zap.Logger, migrate bool) (catalog.Catalog, closer, error) {
	var (
		backend catalog.Catalog
		closeFn closer = func() error { return nil }
	)

	switch cfg.Catalog.Driver {
	case config.StoreSQLite:
		repo, err := catalog.NewSQLiteCatalog(cfg.Catalog.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := repo.RunMigrations(cfg.Catalog.MigrationsPath); err != nil {
				repo.Close()
				return nil, nil, err
			}
			logger.Info("catalog migrations completed", zap.String("path", cfg.Catalog.DBPath))
		}
		backend, closeFn = repo, repo.Close
	default:
		backend = catalog.NewMemoryCatalog(catalog.DemoProducts()...)
	}

	settings := catalog.DefaultBreakerSettings()
	if cfg.Catalog.BreakerTimeout > 0 {
		settings.Timeout = cfg.Catalog.BreakerTimeout
	}
	if cfg.Catalog.MaxFailures > 0 {
		settings.ConsecutiveFailures = cfg.Catalog.MaxFailures
	}
	return catalog.NewGuarded(backend, settings, logger), closeFn, nil
}

// orderStore groups the views of the order backend the server needs. Outbox
// and status are nil for stores that do not support them.
type orderStore struct {
	orders repository.OrderRepository
	outbox repository.OutboxRepository
	status repository.StatusUpdater
	close  closer
}

func openOrders(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*orderStore, error) {
	switch cfg.Orders.Driver {
	case config.StorePostgres:
		creds := &repository.Credentials{
			Host:              cfg.Orders.DBHost,
			Port:              cfg.Orders.DBPort,
			User:              cfg.Orders.DBUser,
			Password:          cfg.Orders.DBPassword,
			DBName:            cfg.Orders.DBName,
			MigrationsDirPath: cfg.Orders.MigrationsPath,
		}
		repo, err := repository.NewPostgresRepository(creds, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := repo.RunMigrations(creds); err != nil {
				repo.Close()
				return nil, err
			}
			logger.Info("order migrations completed")
		}
		return &orderStore{orders: repo, outbox: repo, status: repo, close: repo.Close}, nil

	case config.StoreMongo:
		db, err := repository.ConnectMongoDB(ctx, repository.MongoOptions{
			URI:                    cfg.Orders.MongoURI,
			Database:               cfg.Orders.MongoDBName,
			ConnectTimeout:         cfg.Orders.MongoConnectTimeout,
			ServerSelectionTimeout: cfg.Orders.MongoSelectTimeout,
			MaxPoolSize:            cfg.Orders.MongoMaxPoolSize,
			MinPoolSize:            cfg.Orders.MongoMinPoolSize,
		})
		if err != nil {
			return nil, err
		}
		disconnect := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.Client().Disconnect(ctx)
		}
		repo := repository.NewMongoRepository(db)
		if migrate {
			if err := repo.CreateIndexes(ctx); err != nil {
				disconnect()
				return nil, fmt.Errorf("create order indexes: %w", err)
			}
			logger.Info("order indexes created")
		}
		return &orderStore{orders: repo, status: repo, close: disconnect}, nil

	default:
		repo := repository.NewMemoryRepository()
		return &orderStore{orders: repo, status: repo, close: func() error { return nil }}, nil
	}
}

func openSessions(ctx context.Context, cfg *config.Config) (session.Store, closer, error) {
	if cfg.Sessions.Driver != config.StoreRedis {
		return session.NewMemoryStore(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Sessions.RedisAddr,
		Password: cfg.Sessions.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return session.NewRedisStore(client, cfg.Sessions.TTL), client.Close, nil
}
