package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/orderflow/internal/bus"
	"github.com/shaiso/orderflow/internal/domain"
	"github.com/shaiso/orderflow/internal/feed"
	"github.com/shaiso/orderflow/internal/store"
	"github.com/shaiso/orderflow/internal/telemetry"
)

// Processor ведёт одну запись обработки через её жизненный цикл.
//
// Каждый переход статуса атомарен с точки зрения наблюдателей:
// сначала запись сохраняется в хранилище, затем событие публикуется
// в шину и рассылается live-подключениям.
//
// Processor — единственный писатель своей записи. Создаётся на один
// заказ (Service) или на одну брошенную запись (Recovery) и не
// переиспользуется.
type Processor struct {
	item   *domain.ProcessingItem
	items  store.ItemStore
	bus    bus.Bus
	feed   *feed.Registry
	logger *slog.Logger
}

// Config — зависимости Processor.
type Config struct {
	Items store.ItemStore
	Bus   bus.Bus
	Feed  *feed.Registry

	Logger *slog.Logger
}

// New создаёт Processor для записи обработки.
func New(item *domain.ProcessingItem, cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = telemetry.WithItemID(telemetry.WithOrderID(logger, item.Order.ID), item.ID)

	return &Processor{
		item:   item,
		items:  cfg.Items,
		bus:    cfg.Bus,
		feed:   cfg.Feed,
		logger: logger,
	}
}

// Item возвращает запись обработки.
func (p *Processor) Item() *domain.ProcessingItem {
	return p.item
}

// CreateItem сохраняет запись в хранилище и анонсирует её.
//
// Если запись для этого заказа уже существует, запись помечается
// ошибкой, событие эмитится и возвращается store.ErrAlreadyExists:
// вызывающая сторона решает, дубликат это доставки или конфликт.
func (p *Processor) CreateItem(ctx context.Context) error {
	if err := p.items.CreateItem(ctx, p.item); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			p.item.MarkError()
			p.emit(ctx)
			p.logger.Warn("processing item already exists for order")
			return fmt.Errorf("create item: %w", err)
		}
		return fmt.Errorf("create item: %w", err)
	}

	p.emit(ctx)
	p.logger.Info("processing item created", "processing_time", p.item.ProcessingTime)

	return nil
}

// Process выполняет обработку записи до финального статуса.
//
// Отмена контекста прерывает обработку без записи финального статуса:
// запись остаётся в processing и будет подхвачена Recovery после
// рестарта.
func (p *Processor) Process(ctx context.Context) error {
	p.item.MarkProcessing()
	if err := p.items.UpdateItem(ctx, p.item); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return p.fail(ctx, fmt.Errorf("update item: %w", err))
	}
	p.emit(ctx)

	p.logger.Info("processing started", "processing_time", p.item.ProcessingTime)

	select {
	case <-ctx.Done():
		p.logger.Info("processing interrupted")
		return ctx.Err()
	case <-time.After(time.Duration(p.item.ProcessingTime) * time.Second):
	}

	p.item.MarkCompleted()
	if err := p.items.UpdateItem(ctx, p.item); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return p.fail(ctx, fmt.Errorf("update item: %w", err))
	}
	p.emit(ctx)

	telemetry.ItemsFinished.WithLabelValues(string(domain.StatusCompleted)).Inc()
	p.logger.Info("processing completed", "duration", p.item.Duration())

	return nil
}

// Fail переводит запись в статус error, сохраняет и анонсирует его.
func (p *Processor) Fail(ctx context.Context) error {
	p.item.MarkError()
	if err := p.items.UpdateItem(ctx, p.item); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	p.emit(ctx)

	telemetry.ItemsFinished.WithLabelValues(string(domain.StatusError)).Inc()
	p.logger.Warn("processing item failed")

	return nil
}

// Requeue помечает запись для перезапуска, сохраняет и анонсирует это.
func (p *Processor) Requeue(ctx context.Context) error {
	p.item.MarkRecovery()
	if err := p.items.UpdateItem(ctx, p.item); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	p.emit(ctx)

	p.logger.Info("processing item queued for recovery")

	return nil
}

// fail фиксирует ошибку обработки и возвращает её причину.
func (p *Processor) fail(ctx context.Context, cause error) error {
	p.item.MarkError()
	if err := p.items.UpdateItem(ctx, p.item); err != nil {
		p.logger.Error("failed to persist error status", "error", err)
	}
	p.emit(ctx)

	telemetry.ItemsFinished.WithLabelValues(string(domain.StatusError)).Inc()
	p.logger.Error("processing failed", "error", cause)

	return fmt.Errorf("%w: %v", ErrProcessingFailed, cause)
}

// emit анонсирует текущий статус записи: событие в шину и обновление
// live-подключениям. Ошибка публикации не прерывает обработку —
// хранилище остаётся источником истины.
func (p *Processor) emit(ctx context.Context) {
	update := domain.StatusUpdate{
		OrderID:   p.item.Order.ID,
		NewStatus: p.item.Status,
	}

	if err := p.bus.PublishStatusUpdate(ctx, update); err != nil {
		p.logger.Error("failed to publish status update", "status", update.NewStatus, "error", err)
	} else {
		telemetry.StatusUpdatesPublished.Inc()
	}

	if p.feed != nil {
		p.feed.Broadcast([]domain.ProcessingItem{*p.item})
	}
}
