package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/orderflow/internal/domain"
)

func testOrder(id string) domain.Order {
	return domain.Order{
		ID:       id,
		Created:  time.Now().UTC(),
		Customer: domain.Customer{ID: "cust-1", Name: "Customer #1"},
		Items:    []domain.LineItem{{ID: "prod-1", Name: "Product #1"}},
		Status:   domain.OrderStatusNew,
	}
}

func TestMemoryItemStore_CreateAndGet(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	item := domain.NewItem(testOrder("order-1"), 10)
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Order.ID != "order-1" {
		t.Errorf("expected order-1, got %s", got.Order.ID)
	}

	if _, err := s.GetItem(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryItemStore_DuplicateItemID(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	item := domain.NewItem(testOrder("order-1"), 10)
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.CreateItem(ctx, item); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemoryItemStore_DuplicateOrderID(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	first := domain.NewItem(testOrder("order-1"), 10)
	if err := s.CreateItem(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Different item id, same order id
	second := domain.NewItem(testOrder("order-1"), 20)
	if err := s.CreateItem(ctx, second); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Exactly one item for the order remains
	items, err := s.ListItems(ctx, ItemFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for _, item := range items {
		if item.Order.ID == "order-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 item for order-1, got %d", count)
	}
}

func TestMemoryItemStore_FindByOrder(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	item := domain.NewItem(testOrder("order-1"), 10)
	_ = s.CreateItem(ctx, item)

	got, err := s.FindByOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != item.ID {
		t.Errorf("expected item %s, got %s", item.ID, got.ID)
	}

	if _, err := s.FindByOrder(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryItemStore_ListFilters(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	recent := domain.NewItem(testOrder("order-1"), 10)
	recent.MarkProcessing()
	_ = s.CreateItem(ctx, recent)

	old := domain.NewItem(testOrder("order-2"), 10)
	old.Created = time.Now().UTC().Add(-2 * time.Hour)
	_ = s.CreateItem(ctx, old)

	done := domain.NewItem(testOrder("order-3"), 10)
	done.MarkProcessing()
	done.MarkCompleted()
	_ = s.CreateItem(ctx, done)

	// Status filter
	items, err := s.ListItems(ctx, ItemFilter{Status: domain.StatusProcessing})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Order.ID != "order-1" {
		t.Errorf("expected only order-1 in processing, got %v", items)
	}

	// Age window filter
	items, err = s.ListItems(ctx, ItemFilter{MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range items {
		if item.Order.ID == "order-2" {
			t.Error("stale item should be excluded by MaxAge")
		}
	}

	// No filter: newest first
	items, _ = s.ListItems(ctx, ItemFilter{})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Created.After(items[i-1].Created) {
			t.Error("items should be ordered newest first")
		}
	}
}

func TestMemoryItemStore_Update(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	item := domain.NewItem(testOrder("order-1"), 10)
	_ = s.CreateItem(ctx, item)

	item.MarkProcessing()
	if err := s.UpdateItem(ctx, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := s.GetItem(ctx, item.ID)
	if got.Status != domain.StatusProcessing {
		t.Errorf("expected processing, got %s", got.Status)
	}
	if got.Started == nil {
		t.Error("started should be persisted")
	}

	unknown := domain.NewItem(testOrder("order-9"), 10)
	if err := s.UpdateItem(ctx, unknown); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryItemStore_DeleteAll(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	_ = s.CreateItem(ctx, domain.NewItem(testOrder("order-1"), 10))
	_ = s.CreateItem(ctx, domain.NewItem(testOrder("order-2"), 10))

	if err := s.DeleteAllItems(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, _ := s.ListItems(ctx, ItemFilter{})
	if len(items) != 0 {
		t.Errorf("expected empty store, got %d items", len(items))
	}
}

func TestMemoryItemStore_StoresCopies(t *testing.T) {
	s := NewMemoryItemStore()
	ctx := context.Background()

	item := domain.NewItem(testOrder("order-1"), 10)
	_ = s.CreateItem(ctx, item)

	// Mutation without UpdateItem must not be visible
	item.MarkError()

	got, _ := s.GetItem(ctx, item.ID)
	if got.Status != domain.StatusNew {
		t.Errorf("store should hold a copy, got status %s", got.Status)
	}
}

func TestMemoryOrderStore_CRUD(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	order := testOrder("order-1")
	if err := s.CreateOrder(ctx, &order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.CreateOrder(ctx, &order); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := s.GetOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Customer.Name != "Customer #1" {
		t.Errorf("unexpected customer %s", got.Customer.Name)
	}

	got.Status = domain.OrderStatusCompleted
	if err := s.UpdateOrder(ctx, got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, _ := s.GetOrder(ctx, "order-1")
	if updated.Status != domain.OrderStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}

	count, _ := s.CountOrders(ctx)
	if count != 1 {
		t.Errorf("expected 1 order, got %d", count)
	}

	if err := s.DeleteOrder(ctx, "order-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetOrder(ctx, "order-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryOrderStore_ListPagination(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		order := testOrder("order-" + string(rune('a'+i)))
		order.Created = time.Now().UTC().Add(time.Duration(i) * time.Second)
		_ = s.CreateOrder(ctx, &order)
	}

	orders, err := s.ListOrders(ctx, OrderFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}

	// Offset beyond the end yields nothing
	orders, _ = s.ListOrders(ctx, OrderFilter{Offset: 10})
	if len(orders) != 0 {
		t.Errorf("expected no orders, got %d", len(orders))
	}
}
