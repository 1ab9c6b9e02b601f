package store

import (
	"context"
	"time"

	"github.com/shaiso/orderflow/internal/domain"
)

// ItemFilter — параметры выборки записей обработки.
type ItemFilter struct {
	// Status — фильтр по статусу. Пустое значение — без фильтра.
	Status domain.ProcessingStatus

	// MaxAge — окно свежести: возвращаются только записи,
	// созданные не раньше чем now-MaxAge. 0 — без окна.
	MaxAge time.Duration
}

// ItemStore — хранилище записей обработки.
//
// Все операции атомарны по ключу: конкурентные операции над разными
// записями не мешают друг другу. Запись для каждого заказа уникальна:
// CreateItem возвращает ErrAlreadyExists и при дубликате id записи,
// и при дубликате id заказа.
type ItemStore interface {
	// CreateItem сохраняет новую запись.
	CreateItem(ctx context.Context, item *domain.ProcessingItem) error

	// GetItem возвращает запись по id.
	GetItem(ctx context.Context, id string) (*domain.ProcessingItem, error)

	// FindByOrder возвращает запись для заказа.
	// ErrNotFound, если записи для заказа нет.
	FindByOrder(ctx context.Context, orderID string) (*domain.ProcessingItem, error)

	// ListItems возвращает записи по фильтру, новые первыми.
	ListItems(ctx context.Context, filter ItemFilter) ([]domain.ProcessingItem, error)

	// UpdateItem атомарно заменяет сохранённую запись.
	UpdateItem(ctx context.Context, item *domain.ProcessingItem) error

	// DeleteItem удаляет запись. Отсутствие записи не ошибка.
	DeleteItem(ctx context.Context, id string) error

	// DeleteAllItems удаляет все записи (административная очистка).
	DeleteAllItems(ctx context.Context) error

	// Close освобождает ресурсы хранилища.
	Close() error
}

// OrderFilter — параметры выборки заказов.
type OrderFilter struct {
	// Limit — максимум записей. 0 — без ограничения.
	Limit int

	// Offset — смещение от начала выборки.
	Offset int
}

// OrderStore — хранилище заказов.
type OrderStore interface {
	// CreateOrder сохраняет новый заказ.
	// ErrAlreadyExists, если заказ с таким id уже есть.
	CreateOrder(ctx context.Context, order *domain.Order) error

	// GetOrder возвращает заказ по id.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// ListOrders возвращает заказы, новые первыми.
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)

	// CountOrders возвращает общее количество заказов.
	CountOrders(ctx context.Context) (int, error)

	// UpdateOrder атомарно заменяет сохранённый заказ.
	UpdateOrder(ctx context.Context, order *domain.Order) error

	// DeleteOrder удаляет заказ. Отсутствие заказа не ошибка.
	DeleteOrder(ctx context.Context, id string) error

	// DeleteAllOrders удаляет все заказы.
	DeleteAllOrders(ctx context.Context) error

	// Close освобождает ресурсы хранилища.
	Close() error
}
