// Orderflow server — HTTP API, конвейер обработки заказов и websocket-лента
// статусов. Хранение в PostgreSQL, обмен сообщениями через RabbitMQ.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/orderflow/internal/api"
	"github.com/shaiso/orderflow/internal/bus"
	"github.com/shaiso/orderflow/internal/config"
	"github.com/shaiso/orderflow/internal/feed"
	"github.com/shaiso/orderflow/internal/mirror"
	"github.com/shaiso/orderflow/internal/processor"
	"github.com/shaiso/orderflow/internal/store"
	"github.com/shaiso/orderflow/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting orderflow-server")

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Подключаемся к базе данных
	pool, err := store.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	orders := store.NewPostgresOrderStore(pool)
	items := store.NewPostgresItemStore(pool)

	// Подключаемся к RabbitMQ
	conn, err := bus.NewConnection(cfg.AMQPURL, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	msgBus := bus.NewAMQPBus(conn, logger)
	logger.Info("connected to rabbitmq")

	registry := feed.NewRegistry(logger)
	group := processor.NewGroup(ctx, logger)

	// Подписчики шины: обработчик новых заказов и зеркало статусов.
	// Подписки должны быть оформлены до запуска доставки.
	processor.NewService(processor.ServiceConfig{
		Items:            items,
		Bus:              msgBus,
		Feed:             registry,
		Group:            group,
		MinProcessingSec: cfg.MinProcessingSec,
		MaxProcessingSec: cfg.MaxProcessingSec,
		Logger:           logger,
	})

	statusMirror := mirror.New(mirror.Config{
		Orders: orders,
		Feed:   registry,
		Logger: logger,
	})
	msgBus.SubscribeStatusUpdates(statusMirror)

	if err := msgBus.Start(ctx); err != nil {
		logger.Error("failed to start message bus", "error", err)
		os.Exit(1)
	}

	// Восстановление записей, брошенных предыдущим запуском
	recovery := processor.NewRecovery(processor.RecoveryConfig{
		Items:        items,
		Bus:          msgBus,
		Feed:         registry,
		Group:        group,
		GraceDelay:   cfg.RecoveryGraceDelay,
		RestartDelay: cfg.RecoveryRestartDelay,
		Stagger:      cfg.RecoveryStagger,
		StaleAfter:   cfg.RecoveryStaleAfter,
		Logger:       logger,
	})
	group.Go("recovery", recovery.Run)

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Orders: orders,
		Items:  items,
		Bus:    msgBus,
		Feed:   registry,
		Logger: logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	registry.CloseAll()
	group.Shutdown()

	if err := msgBus.Close(); err != nil {
		logger.Error("bus close error", "error", err)
	}

	logger.Info("stopped")
}
