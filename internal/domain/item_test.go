package domain

import (
	"testing"
	"time"
)

func testOrder() Order {
	return Order{
		ID:       "order-1",
		Created:  time.Now().UTC(),
		Customer: Customer{ID: "cust-1", Name: "Customer #1"},
		Items:    []LineItem{{ID: "prod-1", Name: "Product #1", Count: 2}},
		Status:   OrderStatusNew,
	}
}

func TestNewItem(t *testing.T) {
	item := NewItem(testOrder(), 10)

	if item.ID == "" {
		t.Error("ID should be generated")
	}
	if item.ID == item.Order.ID {
		t.Error("item ID should be independent of order ID")
	}
	if item.Status != StatusNew {
		t.Errorf("expected status new, got %s", item.Status)
	}
	if item.ProcessingTime != 10 {
		t.Errorf("expected processing time 10, got %d", item.ProcessingTime)
	}
	if item.Started != nil || item.Finished != nil {
		t.Error("started and finished should be nil on creation")
	}
}

func TestItem_MarkProcessing_SetsStartedOnce(t *testing.T) {
	item := NewItem(testOrder(), 5)

	item.MarkProcessing()
	if item.Status != StatusProcessing {
		t.Errorf("expected status processing, got %s", item.Status)
	}
	if item.Started == nil {
		t.Fatal("started should be set")
	}

	first := *item.Started

	// Second transition (recovery path) must not move started
	item.MarkRecovery()
	item.MarkProcessing()
	if !item.Started.Equal(first) {
		t.Error("started should not change on repeated transitions")
	}
}

func TestItem_TerminalTimestamps(t *testing.T) {
	item := NewItem(testOrder(), 5)
	item.MarkProcessing()

	if item.IsFinished() {
		t.Error("processing item should not be finished")
	}

	item.MarkCompleted()
	if !item.IsFinished() {
		t.Error("completed item should be finished")
	}
	if item.Finished == nil {
		t.Error("finished should be set for completed item")
	}

	failed := NewItem(testOrder(), 5)
	failed.MarkProcessing()
	failed.MarkError()
	if failed.Finished == nil {
		t.Error("finished should be set for errored item")
	}
	if !failed.IsFinished() {
		t.Error("errored item should be finished")
	}
}

func TestItem_Duration(t *testing.T) {
	item := NewItem(testOrder(), 5)
	if item.Duration() != 0 {
		t.Error("duration should be 0 before completion")
	}

	started := time.Now().UTC().Add(-3 * time.Second)
	finished := time.Now().UTC()
	item.Started = &started
	item.Finished = &finished

	if item.Duration() < 2*time.Second {
		t.Errorf("unexpected duration %v", item.Duration())
	}
}

func TestProcessingStatus_IsTerminal(t *testing.T) {
	terminal := []ProcessingStatus{StatusCompleted, StatusError}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	nonTerminal := []ProcessingStatus{StatusNew, StatusProcessing, StatusRecovery}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestOrderStatusFor(t *testing.T) {
	cases := map[ProcessingStatus]OrderStatus{
		StatusNew:        OrderStatusNew,
		StatusProcessing: OrderStatusProcessing,
		StatusRecovery:   OrderStatusProcessing,
		StatusCompleted:  OrderStatusCompleted,
		StatusError:      OrderStatusError,
	}

	for in, want := range cases {
		if got := OrderStatusFor(in); got != want {
			t.Errorf("OrderStatusFor(%s) = %s, want %s", in, got, want)
		}
	}
}
