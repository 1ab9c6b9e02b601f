package bus

import (
	"context"

	"github.com/shaiso/orderflow/internal/domain"
)

// Bus — шина сообщений для событий заказов.
//
// Публикация неблокирующая относительно слушателей: Publish* возвращает
// управление после передачи сообщения брокеру, доставка слушателям
// происходит асинхронно. Подписки выполняются до Start.
type Bus interface {
	// PublishNewOrder публикует событие о новом заказе.
	PublishNewOrder(ctx context.Context, order *domain.Order) error

	// PublishStatusUpdate публикует событие о смене статуса заказа.
	PublishStatusUpdate(ctx context.Context, update domain.StatusUpdate) error

	// SubscribeNewOrders регистрирует слушателя новых заказов.
	SubscribeNewOrders(l OrderListener)

	// SubscribeStatusUpdates регистрирует слушателя смен статусов.
	SubscribeStatusUpdates(l StatusListener)

	// Start запускает доставку сообщений слушателям.
	Start(ctx context.Context) error

	// Close останавливает доставку и освобождает ресурсы.
	Close() error
}

// OrderListener получает события о новых заказах.
type OrderListener interface {
	OnNewOrder(ctx context.Context, order *domain.Order) error
}

// OrderListenerFunc — адаптер функции к OrderListener.
type OrderListenerFunc func(ctx context.Context, order *domain.Order) error

func (f OrderListenerFunc) OnNewOrder(ctx context.Context, order *domain.Order) error {
	return f(ctx, order)
}

// StatusListener получает события о смене статусов.
type StatusListener interface {
	OnStatusUpdate(ctx context.Context, update domain.StatusUpdate) error
}

// StatusListenerFunc — адаптер функции к StatusListener.
type StatusListenerFunc func(ctx context.Context, update domain.StatusUpdate) error

func (f StatusListenerFunc) OnStatusUpdate(ctx context.Context, update domain.StatusUpdate) error {
	return f(ctx, update)
}
