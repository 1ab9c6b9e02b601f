package bus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/orderflow/internal/domain"
)

// MockBus — реализация Bus в памяти для тестов и offline-режима.
//
// Эмулирует асинхронность брокера: опубликованные сообщения копятся в
// очереди и доставляются слушателям фоновым циклом раз в DrainInterval.
// Как и AMQPBus, доставляет каждое сообщение не более одного раза.
type MockBus struct {
	logger *slog.Logger

	interval time.Duration

	mu             sync.Mutex
	pendingOrders  []*domain.Order
	pendingUpdates []domain.StatusUpdate

	orderListeners  listenerSet[*domain.Order]
	statusListeners listenerSet[domain.StatusUpdate]

	wg         sync.WaitGroup
	cancelFunc context.CancelFunc
}

// MockBusConfig — конфигурация MockBus.
type MockBusConfig struct {
	// DrainInterval — период доставки накопленных сообщений.
	// По умолчанию 2 секунды.
	DrainInterval time.Duration
}

// NewMockBus создаёт шину в памяти.
func NewMockBus(logger *slog.Logger, cfg MockBusConfig) *MockBus {
	interval := cfg.DrainInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	return &MockBus{
		logger:   logger,
		interval: interval,
	}
}

// PublishNewOrder ставит событие о новом заказе в очередь доставки.
func (b *MockBus) PublishNewOrder(_ context.Context, order *domain.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	copied := *order
	b.pendingOrders = append(b.pendingOrders, &copied)
	return nil
}

// PublishStatusUpdate ставит событие о смене статуса в очередь доставки.
func (b *MockBus) PublishStatusUpdate(_ context.Context, update domain.StatusUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pendingUpdates = append(b.pendingUpdates, update)
	return nil
}

// SubscribeNewOrders регистрирует слушателя новых заказов.
func (b *MockBus) SubscribeNewOrders(l OrderListener) {
	b.orderListeners.add(l.OnNewOrder)
}

// SubscribeStatusUpdates регистрирует слушателя смен статусов.
func (b *MockBus) SubscribeStatusUpdates(l StatusListener) {
	b.statusListeners.add(l.OnStatusUpdate)
}

// Start запускает фоновый цикл доставки.
func (b *MockBus) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.cancelFunc = cancel

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.Drain(ctx)
			}
		}
	}()

	b.logger.Info("mock bus started", "drain_interval", b.interval)

	return nil
}

// Drain немедленно доставляет все накопленные сообщения слушателям.
// Возвращается после завершения всех слушателей.
func (b *MockBus) Drain(ctx context.Context) {
	b.mu.Lock()
	orders := b.pendingOrders
	updates := b.pendingUpdates
	b.pendingOrders = nil
	b.pendingUpdates = nil
	b.mu.Unlock()

	for _, order := range orders {
		b.orderListeners.dispatch(ctx, order, b.logger)
	}
	for _, update := range updates {
		b.statusListeners.dispatch(ctx, update, b.logger)
	}
}

// Pending возвращает количество недоставленных сообщений.
func (b *MockBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pendingOrders) + len(b.pendingUpdates)
}

// Close останавливает цикл доставки. Недоставленные сообщения теряются.
func (b *MockBus) Close() error {
	if b.cancelFunc != nil {
		b.cancelFunc()
	}
	b.wg.Wait()
	return nil
}
