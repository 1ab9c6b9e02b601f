package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/shaiso/orderflow/internal/bus"
	"github.com/shaiso/orderflow/internal/domain"
	"github.com/shaiso/orderflow/internal/feed"
	"github.com/shaiso/orderflow/internal/store"
)

// Default configuration values.
const (
	defaultMinProcessingSec = 10
	defaultMaxProcessingSec = 30
)

// Service принимает новые заказы из шины и запускает их обработку.
//
// Реализует bus.OrderListener: подписывается на события order.new.
// Шина не гарантирует отсутствие повторных доставок, поэтому дубликат
// заказа (запись уже существует) поглощается с предупреждением.
type Service struct {
	items store.ItemStore
	bus   bus.Bus
	feed  *feed.Registry
	group *Group

	minProcessingSec int
	maxProcessingSec int

	logger *slog.Logger
}

// ServiceConfig — конфигурация Service.
type ServiceConfig struct {
	Items store.ItemStore
	Bus   bus.Bus
	Feed  *feed.Registry
	Group *Group

	// Длительность обработки выбирается равномерно из
	// [MinProcessingSec, MaxProcessingSec] секунд.
	// По умолчанию 10 и 30.
	MinProcessingSec int
	MaxProcessingSec int

	Logger *slog.Logger
}

// NewService создаёт Service и подписывает его на новые заказы.
func NewService(cfg ServiceConfig) *Service {
	minSec := cfg.MinProcessingSec
	if minSec <= 0 {
		minSec = defaultMinProcessingSec
	}

	maxSec := cfg.MaxProcessingSec
	if maxSec < minSec {
		maxSec = max(minSec, defaultMaxProcessingSec)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		items:            cfg.Items,
		bus:              cfg.Bus,
		feed:             cfg.Feed,
		group:            cfg.Group,
		minProcessingSec: minSec,
		maxProcessingSec: maxSec,
		logger:           logger,
	}

	s.bus.SubscribeNewOrders(s)

	return s
}

// OnNewOrder создаёт запись обработки для заказа и запускает её.
//
// Повторная доставка того же заказа — не ошибка: запись уже существует,
// событие логируется и поглощается.
func (s *Service) OnNewOrder(ctx context.Context, order *domain.Order) error {
	item := domain.NewItem(*order, s.randomProcessingTime())

	proc := New(item, Config{
		Items:  s.items,
		Bus:    s.bus,
		Feed:   s.feed,
		Logger: s.logger,
	})

	if err := proc.CreateItem(ctx); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			s.logger.Warn("duplicate order delivery ignored", "order_id", order.ID)
			return nil
		}
		return fmt.Errorf("accept order %s: %w", order.ID, err)
	}

	s.group.Go("process "+item.ID, proc.Process)

	return nil
}

// randomProcessingTime возвращает длительность обработки в секундах.
func (s *Service) randomProcessingTime() int {
	return s.minProcessingSec + rand.IntN(s.maxProcessingSec-s.minProcessingSec+1)
}
