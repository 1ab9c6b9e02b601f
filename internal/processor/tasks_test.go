package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroup_RunsTasks(t *testing.T) {
	g := NewGroup(context.Background(), testLogger())

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		g.Go("task", func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	g.Wait()

	if ran.Load() != 3 {
		t.Errorf("expected 3 tasks run, got %d", ran.Load())
	}
	if g.Active() != 0 {
		t.Errorf("expected no active tasks, got %d", g.Active())
	}
}

func TestGroup_ShutdownCancelsTasks(t *testing.T) {
	g := NewGroup(context.Background(), testLogger())

	started := make(chan struct{})
	var cancelled atomic.Bool

	g.Go("blocked", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})

	<-started

	done := make(chan struct{})
	go func() {
		g.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return")
	}

	if !cancelled.Load() {
		t.Error("task should observe cancellation")
	}
}

func TestGroup_PanicRecovered(t *testing.T) {
	g := NewGroup(context.Background(), testLogger())

	g.Go("bad", func(context.Context) error {
		panic("task bug")
	})

	// Must not crash the test process
	g.Wait()
}

func TestGroup_ParentContextPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g := NewGroup(parent, testLogger())

	returned := make(chan error, 1)
	g.Go("blocked", func(ctx context.Context) error {
		<-ctx.Done()
		err := ctx.Err()
		returned <- err
		return err
	})

	cancel()

	select {
	case err := <-returned:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("task did not observe parent cancellation")
	}
}

func TestGroup_GoAfterShutdownIsNoop(t *testing.T) {
	g := NewGroup(context.Background(), testLogger())
	g.Shutdown()

	var ran atomic.Bool
	g.Go("late", func(context.Context) error {
		ran.Store(true)
		return nil
	})

	// Wait must not block on the rejected task
	g.Wait()

	if ran.Load() {
		t.Error("task submitted after Shutdown must not run")
	}
	if g.Active() != 0 {
		t.Errorf("expected 0 active tasks, got %d", g.Active())
	}
}

func TestGroup_Active(t *testing.T) {
	g := NewGroup(context.Background(), testLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	g.Go("held", func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	<-started
	if g.Active() != 1 {
		t.Errorf("expected 1 active task, got %d", g.Active())
	}

	close(release)
	g.Wait()

	if g.Active() != 0 {
		t.Errorf("expected 0 active tasks, got %d", g.Active())
	}
}
