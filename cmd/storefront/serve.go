package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/consumer"
	storegrpc "github.com/fjod/go_cart/storefront/internal/grpc"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/order"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"go.uber.org/zap"
)

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("storefront starting", zap.String("version", Version))

	policy, err := cfg.PricingPolicy()
	if err != nil {
		return err
	}

	ctx := context.Background()

	cat, closeCatalog, err := openCatalog(cfg, log, true)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer closeCatalog()

	store, err := openOrders(ctx, cfg, log, true)
	if err != nil {
		return fmt.Errorf("open order store: %w", err)
	}
	defer store.close()

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer closeSessions()

	m := metrics.New()
	committer := order.NewCommitter(store.orders, policy, log)
	svc := storefront.NewService(cat, sessions, store.orders, committer, policy, m, log)

	// Background Kafka workers
	var wg sync.WaitGroup
	bgCtx, bgCancel := context.WithCancel(ctx)
	defer bgCancel()

	var poller *publisher.OutboxPoller
	var orderConsumer *consumer.Consumer
	if len(cfg.Kafka.Brokers) > 0 && store.outbox != nil {
		poller = publisher.NewOutboxPoller(store.outbox, cfg.Kafka.Topic, cfg.Kafka.PollEvery, log, cfg.Kafka.Brokers...)
		orderConsumer = consumer.NewConsumer(store.status, cfg.Kafka.Topic, log, cfg.Kafka.Brokers...)

		wg.Add(2)
		go func() {
			defer wg.Done()
			poller.Run(bgCtx)
		}()
		go func() {
			defer wg.Done()
			orderConsumer.Run(bgCtx)
		}()
		log.Info("kafka workers started", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// gRPC server
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPC.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}
	grpcServer := storegrpc.NewServer(store.orders, log)
	go func() {
		log.Info("grpc server listening", zap.String("port", cfg.GRPC.Port))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc server stopped", zap.Error(err))
		}
	}()

	// HTTP server
	router := h.NewRouter(svc, h.RouterConfig{
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		Metrics:            m.Handler(),
	}, log)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("http server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	grpcServer.GracefulStop()
	bgCancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("kafka workers did not stop in time")
	}

	if poller != nil {
		if err := poller.Close(); err != nil {
			log.Warn("error closing kafka writer", zap.Error(err))
		}
		if err := orderConsumer.Close(); err != nil {
			log.Warn("error closing kafka reader", zap.Error(err))
		}
	}

	log.Info("storefront stopped")
	return nil
}

func migrateAll(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, closeCatalog, err := openCatalog(cfg, log, true)
	if err != nil {
		return fmt.Errorf("catalog migrations: %w", err)
	}
	closeCatalog()

	store, err := openOrders(ctx, cfg, log, true)
	if err != nil {
		return fmt.Errorf("order store migrations: %w", err)
	}
	store.close()

	log.Info("migrations completed",
		zap.String("catalog", cfg.Catalog.Driver),
		zap.String("orders", cfg.Orders.Driver))
	return nil
}
