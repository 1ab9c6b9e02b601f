// Package mirror синхронизирует клиентское представление заказов
// с событиями обработки.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/orderflow/internal/domain"
	"github.com/shaiso/orderflow/internal/feed"
	"github.com/shaiso/orderflow/internal/store"
)

// StatusMirror переносит смены статусов обработки на заказы.
//
// Реализует bus.StatusListener: на каждое событие status.update
// обновляет статус заказа в хранилище и рассылает обновлённый заказ
// live-подключениям.
//
// Событие для неизвестного заказа — нормальная ситуация (заказ мог
// быть удалён, или событие пришло из другого окружения): логируется
// и поглощается.
type StatusMirror struct {
	orders store.OrderStore
	feed   *feed.Registry
	logger *slog.Logger
}

// Config — зависимости StatusMirror.
type Config struct {
	Orders store.OrderStore
	Feed   *feed.Registry

	Logger *slog.Logger
}

// New создаёт StatusMirror.
func New(cfg Config) *StatusMirror {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StatusMirror{
		orders: cfg.Orders,
		feed:   cfg.Feed,
		logger: logger,
	}
}

// OnStatusUpdate обновляет статус заказа по событию обработки.
func (m *StatusMirror) OnStatusUpdate(ctx context.Context, update domain.StatusUpdate) error {
	order, err := m.orders.GetOrder(ctx, update.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.logger.Warn("status update for unknown order", "order_id", update.OrderID)
			return nil
		}
		return fmt.Errorf("get order %s: %w", update.OrderID, err)
	}

	order.Status = domain.OrderStatusFor(update.NewStatus)

	if err := m.orders.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("update order %s: %w", update.OrderID, err)
	}

	m.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)

	if m.feed != nil {
		m.feed.Broadcast([]domain.Order{*order})
	}

	return nil
}
