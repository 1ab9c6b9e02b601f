package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shaiso/orderflow/internal/domain"
)

// MemoryItemStore — хранилище записей обработки в памяти.
//
// Используется в тестах и в автономном (offline) режиме.
// Хранит копии записей: мутации у вызывающей стороны не видны
// до явного UpdateItem.
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]domain.ProcessingItem
}

// NewMemoryItemStore создаёт пустое хранилище записей.
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		items: make(map[string]domain.ProcessingItem),
	}
}

// CreateItem сохраняет новую запись.
func (s *MemoryItemStore) CreateItem(_ context.Context, item *domain.ProcessingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return ErrAlreadyExists
	}
	for _, existing := range s.items {
		if existing.Order.ID == item.Order.ID {
			return ErrAlreadyExists
		}
	}

	s.items[item.ID] = *item
	return nil
}

// GetItem возвращает запись по id.
func (s *MemoryItemStore) GetItem(_ context.Context, id string) (*domain.ProcessingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

// FindByOrder возвращает запись для заказа.
func (s *MemoryItemStore) FindByOrder(_ context.Context, orderID string) (*domain.ProcessingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.Order.ID == orderID {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// ListItems возвращает записи по фильтру, новые первыми.
func (s *MemoryItemStore) ListItems(_ context.Context, filter ItemFilter) ([]domain.ProcessingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cutoff time.Time
	if filter.MaxAge > 0 {
		cutoff = time.Now().UTC().Add(-filter.MaxAge)
	}

	items := make([]domain.ProcessingItem, 0, len(s.items))
	for _, item := range s.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if !cutoff.IsZero() && item.Created.Before(cutoff) {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Created.After(items[j].Created)
	})

	return items, nil
}

// UpdateItem атомарно заменяет сохранённую запись.
func (s *MemoryItemStore) UpdateItem(_ context.Context, item *domain.ProcessingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return ErrNotFound
	}

	s.items[item.ID] = *item
	return nil
}

// DeleteItem удаляет запись.
func (s *MemoryItemStore) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// DeleteAllItems удаляет все записи.
func (s *MemoryItemStore) DeleteAllItems(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.items)
	return nil
}

// Close — no-op для хранилища в памяти.
func (s *MemoryItemStore) Close() error {
	return nil
}

// MemoryOrderStore — хранилище заказов в памяти.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewMemoryOrderStore создаёт пустое хранилище заказов.
func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		orders: make(map[string]domain.Order),
	}
}

// CreateOrder сохраняет новый заказ.
func (s *MemoryOrderStore) CreateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return ErrAlreadyExists
	}

	s.orders[order.ID] = *order
	return nil
}

// GetOrder возвращает заказ по id.
func (s *MemoryOrderStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

// ListOrders возвращает заказы, новые первыми.
func (s *MemoryOrderStore) ListOrders(_ context.Context, filter OrderFilter) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Created.After(orders[j].Created)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(orders) {
			return nil, nil
		}
		orders = orders[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(orders) {
		orders = orders[:filter.Limit]
	}

	return orders, nil
}

// CountOrders возвращает количество заказов.
func (s *MemoryOrderStore) CountOrders(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), nil
}

// UpdateOrder атомарно заменяет сохранённый заказ.
func (s *MemoryOrderStore) UpdateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return ErrNotFound
	}

	s.orders[order.ID] = *order
	return nil
}

// DeleteOrder удаляет заказ.
func (s *MemoryOrderStore) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, id)
	return nil
}

// DeleteAllOrders удаляет все заказы.
func (s *MemoryOrderStore) DeleteAllOrders(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.orders)
	return nil
}

// Close — no-op для хранилища в памяти.
func (s *MemoryOrderStore) Close() error {
	return nil
}
