// Orderflow demo — автономный стенд без внешних зависимостей.
//
// Вместо PostgreSQL — хранилище в памяти, вместо RabbitMQ — шина
// в памяти с периодической доставкой. Генератор по расписанию
// отправляет случайные заказы в конвейер, так что лента статусов
// показывает живой поток событий сразу после запуска.
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
	"github.com/robfig/cron/v3"

	"github.com/shaiso/orderflow/internal/api"
	"github.com/shaiso/orderflow/internal/bus"
	"github.com/shaiso/orderflow/internal/config"
	"github.com/shaiso/orderflow/internal/demo"
	"github.com/shaiso/orderflow/internal/domain"
	"github.com/shaiso/orderflow/internal/feed"
	"github.com/shaiso/orderflow/internal/mirror"
	"github.com/shaiso/orderflow/internal/processor"
	"github.com/shaiso/orderflow/internal/store"
	"github.com/shaiso/orderflow/internal/telemetry"
)

// seedOrders — сколько заказов отправить сразу при старте,
// чтобы лента не была пустой до первого тика генератора.
const seedOrders = 5

var startTime = time.Now()

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting orderflow-demo")

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	orders := store.NewMemoryOrderStore()
	items := store.NewMemoryItemStore()

	msgBus := bus.NewMockBus(logger, bus.MockBusConfig{
		DrainInterval: cfg.MockDrainInterval,
	})

	registry := feed.NewRegistry(logger)
	group := processor.NewGroup(ctx, logger)

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

	// Генератор демо-заказов: тот же путь, что и у API — хранилище,
	// лента, шина.
	gen := demo.NewGenerator()
	submit := func() {
		order := gen.NewOrder()
		if err := orders.CreateOrder(ctx, &order); err != nil {
			logger.Error("failed to store demo order", "error", err)
			return
		}
		telemetry.OrdersSubmitted.Inc()
		registry.Broadcast([]domain.Order{order})
		if err := msgBus.PublishNewOrder(ctx, &order); err != nil {
			logger.Error("failed to publish demo order", "error", err)
			return
		}
		logger.Info("demo order submitted", "order_id", order.ID)
	}

	for i := 0; i < seedOrders; i++ {
		submit()
	}

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.DemoCron, submit); err != nil {
		logger.Error("invalid demo cron expression", "cron", cfg.DemoCron, "error", err)
		os.Exit(1)
	}
	sched.Start()

	handler := api.NewHandler(api.Config{
		Orders: orders,
		Items:  items,
		Bus:    msgBus,
		Feed:   registry,
		Logger: logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	<-sched.Stop().Done()

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
