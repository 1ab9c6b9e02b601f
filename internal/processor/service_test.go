package processor

import (
	"context"
	"testing"
	"time"

	"github.com/shaiso/orderflow/internal/store"
)

func newTestService(env *testEnv, group *Group) *Service {
	return NewService(ServiceConfig{
		Items:            env.items,
		Bus:              env.bus,
		Group:            group,
		MinProcessingSec: 1,
		MaxProcessingSec: 1,
		Logger:           testLogger(),
	})
}

func TestService_OnNewOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	group := NewGroup(ctx, testLogger())
	defer group.Shutdown()

	s := newTestService(env, group)

	order := testOrder("order-1")
	if err := s.OnNewOrder(ctx, &order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := env.items.FindByOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("item should exist: %v", err)
	}
	if item.ProcessingTime != 1 {
		t.Errorf("expected processing time 1, got %d", item.ProcessingTime)
	}
}

func TestService_OnNewOrder_DuplicateIgnored(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	group := NewGroup(ctx, testLogger())
	defer group.Shutdown()

	s := newTestService(env, group)

	order := testOrder("order-1")
	if err := s.OnNewOrder(ctx, &order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Redelivery of the same order is consumed without error
	if err := s.OnNewOrder(ctx, &order); err != nil {
		t.Fatalf("duplicate delivery should be swallowed, got %v", err)
	}

	items, _ := env.items.ListItems(ctx, store.ItemFilter{})
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestService_SubscribesToBus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	group := NewGroup(ctx, testLogger())
	defer group.Shutdown()

	newTestService(env, group)

	order := testOrder("order-1")
	_ = env.bus.PublishNewOrder(ctx, &order)
	env.bus.Drain(ctx)

	// Give the spawned processor a moment to persist the transition
	deadline := time.After(time.Second)
	for {
		if _, err := env.items.FindByOrder(ctx, "order-1"); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("order from the bus was not picked up")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestService_RandomProcessingTimeRange(t *testing.T) {
	env := newTestEnv()
	group := NewGroup(context.Background(), testLogger())
	defer group.Shutdown()

	s := NewService(ServiceConfig{
		Items:            env.items,
		Bus:              env.bus,
		Group:            group,
		MinProcessingSec: 5,
		MaxProcessingSec: 7,
		Logger:           testLogger(),
	})

	for i := 0; i < 100; i++ {
		got := s.randomProcessingTime()
		if got < 5 || got > 7 {
			t.Fatalf("processing time %d out of [5, 7]", got)
		}
	}
}

func TestService_Defaults(t *testing.T) {
	env := newTestEnv()
	group := NewGroup(context.Background(), testLogger())
	defer group.Shutdown()

	s := NewService(ServiceConfig{
		Items:  env.items,
		Bus:    env.bus,
		Group:  group,
		Logger: testLogger(),
	})

	if s.minProcessingSec != defaultMinProcessingSec {
		t.Errorf("expected default min %d, got %d", defaultMinProcessingSec, s.minProcessingSec)
	}
	if s.maxProcessingSec != defaultMaxProcessingSec {
		t.Errorf("expected default max %d, got %d", defaultMaxProcessingSec, s.maxProcessingSec)
	}
}
