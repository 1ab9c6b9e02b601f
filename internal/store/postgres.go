package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/orderflow/internal/domain"
)

// PostgresItemStore — хранилище записей обработки в Postgres.
//
// Заказ хранится внутри записи как jsonb-документ; уникальный индекс
// по order_id обеспечивает "одна запись на заказ" на уровне БД.
type PostgresItemStore struct {
	pool *pgxpool.Pool
}

// NewPostgresItemStore создаёт PostgresItemStore.
func NewPostgresItemStore(pool *pgxpool.Pool) *PostgresItemStore {
	return &PostgresItemStore{pool: pool}
}

// CreateItem сохраняет новую запись.
func (s *PostgresItemStore) CreateItem(ctx context.Context, item *domain.ProcessingItem) error {
	orderDoc, err := json.Marshal(item.Order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `
		INSERT INTO processing_items (id, order_id, order_doc, created, started, processing_time, finished, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.pool.Exec(ctx, query,
		item.ID,
		item.Order.ID,
		orderDoc,
		item.Created,
		item.Started,
		item.ProcessingTime,
		item.Finished,
		item.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert processing item: %w", err)
	}
	return nil
}

// GetItem возвращает запись по id.
func (s *PostgresItemStore) GetItem(ctx context.Context, id string) (*domain.ProcessingItem, error) {
	query := `
		SELECT id, order_doc, created, started, processing_time, finished, status
		FROM processing_items
		WHERE id = $1
	`
	return scanItem(s.pool.QueryRow(ctx, query, id))
}

// FindByOrder возвращает запись для заказа.
func (s *PostgresItemStore) FindByOrder(ctx context.Context, orderID string) (*domain.ProcessingItem, error) {
	query := `
		SELECT id, order_doc, created, started, processing_time, finished, status
		FROM processing_items
		WHERE order_id = $1
	`
	return scanItem(s.pool.QueryRow(ctx, query, orderID))
}

// ListItems возвращает записи по фильтру, новые первыми.
func (s *PostgresItemStore) ListItems(ctx context.Context, filter ItemFilter) ([]domain.ProcessingItem, error) {
	var cutoff *time.Time
	if filter.MaxAge > 0 {
		t := time.Now().UTC().Add(-filter.MaxAge)
		cutoff = &t
	}

	query := `
		SELECT id, order_doc, created, started, processing_time, finished, status
		FROM processing_items
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::timestamptz IS NULL OR created >= $2)
		ORDER BY created DESC
	`
	rows, err := s.pool.Query(ctx, query, nullString(string(filter.Status)), cutoff)
	if err != nil {
		return nil, fmt.Errorf("list processing items: %w", err)
	}
	defer rows.Close()

	var items []domain.ProcessingItem
	for rows.Next() {
		item, err := scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem атомарно заменяет сохранённую запись.
func (s *PostgresItemStore) UpdateItem(ctx context.Context, item *domain.ProcessingItem) error {
	orderDoc, err := json.Marshal(item.Order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `
		UPDATE processing_items
		SET order_doc = $2, started = $3, finished = $4, status = $5
		WHERE id = $1
	`
	result, err := s.pool.Exec(ctx, query,
		item.ID,
		orderDoc,
		item.Started,
		item.Finished,
		item.Status,
	)
	if err != nil {
		return fmt.Errorf("update processing item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem удаляет запись.
func (s *PostgresItemStore) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM processing_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete processing item: %w", err)
	}
	return nil
}

// DeleteAllItems удаляет все записи.
func (s *PostgresItemStore) DeleteAllItems(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM processing_items`); err != nil {
		return fmt.Errorf("delete all processing items: %w", err)
	}
	return nil
}

// Close — пул закрывается владельцем, здесь no-op.
func (s *PostgresItemStore) Close() error {
	return nil
}

// PostgresOrderStore — хранилище заказов в Postgres.
type PostgresOrderStore struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStore создаёт PostgresOrderStore.
func NewPostgresOrderStore(pool *pgxpool.Pool) *PostgresOrderStore {
	return &PostgresOrderStore{pool: pool}
}

// CreateOrder сохраняет новый заказ.
func (s *PostgresOrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `INSERT INTO orders (id, created, status, doc) VALUES ($1, $2, $3, $4)`
	if _, err := s.pool.Exec(ctx, query, order.ID, order.Created, order.Status, doc); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetOrder возвращает заказ по id.
func (s *PostgresOrderStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM orders WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &order, nil
}

// ListOrders возвращает заказы, новые первыми.
func (s *PostgresOrderStore) ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}

	query := `SELECT doc FROM orders ORDER BY created DESC LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, query, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		var order domain.Order
		if err := json.Unmarshal(doc, &order); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// CountOrders возвращает количество заказов.
func (s *PostgresOrderStore) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// UpdateOrder атомарно заменяет сохранённый заказ.
func (s *PostgresOrderStore) UpdateOrder(ctx context.Context, order *domain.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `UPDATE orders SET status = $2, doc = $3 WHERE id = $1`
	result, err := s.pool.Exec(ctx, query, order.ID, order.Status, doc)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder удаляет заказ.
func (s *PostgresOrderStore) DeleteOrder(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// DeleteAllOrders удаляет все заказы.
func (s *PostgresOrderStore) DeleteAllOrders(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("delete all orders: %w", err)
	}
	return nil
}

// Close — пул закрывается владельцем, здесь no-op.
func (s *PostgresOrderStore) Close() error {
	return nil
}

// --- Helpers ---

// scanItem сканирует одну строку в ProcessingItem.
func scanItem(row pgx.Row) (*domain.ProcessingItem, error) {
	var item domain.ProcessingItem
	var orderDoc []byte

	err := row.Scan(
		&item.ID,
		&orderDoc,
		&item.Created,
		&item.Started,
		&item.ProcessingTime,
		&item.Finished,
		&item.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan processing item: %w", err)
	}

	if err := json.Unmarshal(orderDoc, &item.Order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &item, nil
}

// scanItemFromRows сканирует строку из rows в ProcessingItem.
func scanItemFromRows(rows pgx.Rows) (*domain.ProcessingItem, error) {
	var item domain.ProcessingItem
	var orderDoc []byte

	err := rows.Scan(
		&item.ID,
		&orderDoc,
		&item.Created,
		&item.Started,
		&item.ProcessingTime,
		&item.Finished,
		&item.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("scan processing item: %w", err)
	}

	if err := json.Unmarshal(orderDoc, &item.Order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &item, nil
}

// isUniqueViolation проверяет, является ли ошибка конфликтом уникальности.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
