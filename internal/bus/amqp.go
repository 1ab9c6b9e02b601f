package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/orderflow/internal/domain"
)

// AMQPBus — реализация Bus поверх RabbitMQ.
//
// Сообщения публикуются persistent в durable очереди: события переживают
// рестарт брокера. Каждая очередь потребляется одним consumer'ом,
// доставка слушателям конкурентная внутри одного сообщения.
type AMQPBus struct {
	conn   *Connection
	logger *slog.Logger

	orderListeners  listenerSet[*domain.Order]
	statusListeners listenerSet[domain.StatusUpdate]

	wg         sync.WaitGroup
	cancelFunc context.CancelFunc
}

// NewAMQPBus создаёт шину поверх существующего соединения.
func NewAMQPBus(conn *Connection, logger *slog.Logger) *AMQPBus {
	return &AMQPBus{
		conn:   conn,
		logger: logger,
	}
}

// PublishNewOrder публикует событие о новом заказе.
func (b *AMQPBus) PublishNewOrder(ctx context.Context, order *domain.Order) error {
	msg := NewMessage(MessageTypeNewOrder, order)
	return b.publish(ctx, ExchangeOrders, RoutingKeyNew, msg)
}

// PublishStatusUpdate публикует событие о смене статуса заказа.
func (b *AMQPBus) PublishStatusUpdate(ctx context.Context, update domain.StatusUpdate) error {
	msg := NewMessage(MessageTypeStatusUpdate, update)
	return b.publish(ctx, ExchangeStatus, RoutingKeyUpdate, msg)
}

// publish сериализует и отправляет сообщение в обменник.
func (b *AMQPBus) publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return b.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		b.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// SubscribeNewOrders регистрирует слушателя новых заказов.
func (b *AMQPBus) SubscribeNewOrders(l OrderListener) {
	b.orderListeners.add(l.OnNewOrder)
}

// SubscribeStatusUpdates регистрирует слушателя смен статусов.
func (b *AMQPBus) SubscribeStatusUpdates(l StatusListener) {
	b.statusListeners.add(l.OnStatusUpdate)
}

// Start объявляет топологию и запускает потребление обеих очередей.
func (b *AMQPBus) Start(ctx context.Context) error {
	if err := SetupTopology(ctx, b.conn); err != nil {
		return fmt.Errorf("setup topology: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancelFunc = cancel

	consumers := []*consumer{
		newConsumer(b.conn, b.logger, QueueOrdersNew, b.handleOrderMessage),
		newConsumer(b.conn, b.logger, QueueStatusUpdates, b.handleStatusMessage),
	}

	for _, c := range consumers {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := c.run(ctx); err != nil && ctx.Err() == nil {
				b.logger.Error("consumer stopped", "queue", c.queue, "error", err)
			}
		}()
	}

	b.logger.Info("amqp bus started")

	return nil
}

// handleOrderMessage доставляет сообщение о новом заказе слушателям.
func (b *AMQPBus) handleOrderMessage(ctx context.Context, msg *Message) {
	order, err := ParsePayload[domain.Order](msg)
	if err != nil {
		b.logger.Error("failed to parse order payload", "message_id", msg.ID, "error", err)
		return
	}

	b.orderListeners.dispatch(ctx, &order, b.logger)
}

// handleStatusMessage доставляет сообщение о смене статуса слушателям.
func (b *AMQPBus) handleStatusMessage(ctx context.Context, msg *Message) {
	update, err := ParsePayload[domain.StatusUpdate](msg)
	if err != nil {
		b.logger.Error("failed to parse status payload", "message_id", msg.ID, "error", err)
		return
	}

	b.statusListeners.dispatch(ctx, update, b.logger)
}

// Close останавливает потребление и закрывает соединение.
func (b *AMQPBus) Close() error {
	if b.cancelFunc != nil {
		b.cancelFunc()
	}
	b.wg.Wait()

	return b.conn.Close()
}
