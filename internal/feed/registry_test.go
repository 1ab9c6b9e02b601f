package feed

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// fakeConn records written values and fails on demand.
type fakeConn struct {
	mu      sync.Mutex
	written []any
	failAt  int // write index that starts failing, -1 means never
	closed  bool

	readCh chan []byte // ReadMessage delivers payloads; closing yields EOF
}

func newFakeConn() *fakeConn {
	return &fakeConn{failAt: -1, readCh: make(chan []byte)}
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failAt >= 0 && len(c.written) >= c.failAt {
		return errors.New("write failed")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	payload, ok := <-c.readCh
	if !ok {
		return 0, nil, io.EOF
	}
	return 1, payload, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) writtenCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func testRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry_AttachSendsSnapshot(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()

	err := r.Attach(conn, "", func() (any, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conn.writtenCount() != 1 {
		t.Fatalf("expected snapshot write, got %d writes", conn.writtenCount())
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 connection, got %d", r.Count())
	}
}

func TestRegistry_AttachWithoutSnapshot(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()

	if err := r.Attach(conn, "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.writtenCount() != 0 {
		t.Error("no writes expected without snapshot")
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 connection, got %d", r.Count())
	}
}

func TestRegistry_AttachSnapshotError(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()

	err := r.Attach(conn, "", func() (any, error) {
		return nil, errors.New("store down")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if r.Count() != 0 {
		t.Error("failed attach must not register the connection")
	}
	if !conn.isClosed() {
		t.Error("failed attach must close the connection")
	}
}

func TestRegistry_AttachWriteError(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()
	conn.failAt = 0

	err := r.Attach(conn, "", func() (any, error) { return "snapshot", nil })
	if err == nil {
		t.Fatal("expected error")
	}
	if r.Count() != 0 {
		t.Error("failed attach must not register the connection")
	}
}

func TestRegistry_Broadcast(t *testing.T) {
	r := testRegistry()

	conns := []*fakeConn{newFakeConn(), newFakeConn(), newFakeConn()}
	for _, c := range conns {
		_ = r.Attach(c, "", nil)
	}

	r.Broadcast("update")

	for i, c := range conns {
		if c.writtenCount() != 1 {
			t.Errorf("conn %d: expected 1 write, got %d", i, c.writtenCount())
		}
	}
}

func TestRegistry_BroadcastDropsDeadConnections(t *testing.T) {
	r := testRegistry()

	healthy := newFakeConn()
	dead := newFakeConn()
	dead.failAt = 0

	_ = r.Attach(healthy, "", nil)
	_ = r.Attach(dead, "", nil)

	r.Broadcast("update")

	if r.Count() != 1 {
		t.Errorf("expected dead connection removed, count is %d", r.Count())
	}
	if !dead.isClosed() {
		t.Error("dead connection should be closed")
	}
	if healthy.writtenCount() != 1 {
		t.Error("healthy connection should still receive the update")
	}

	// Subsequent broadcasts only reach the healthy connection
	r.Broadcast("update2")
	if healthy.writtenCount() != 2 {
		t.Errorf("expected 2 writes, got %d", healthy.writtenCount())
	}
}

func TestRegistry_Send(t *testing.T) {
	r := testRegistry()

	target := newFakeConn()
	other := newFakeConn()
	_ = r.Attach(target, "", nil)
	_ = r.Attach(other, "", nil)

	r.Send(target, "direct")

	if target.writtenCount() != 1 {
		t.Errorf("expected 1 write to target, got %d", target.writtenCount())
	}
	if other.writtenCount() != 0 {
		t.Errorf("other connection must not receive unicast, got %d writes", other.writtenCount())
	}
}

func TestRegistry_SendToDeadConnection(t *testing.T) {
	r := testRegistry()

	dead := newFakeConn()
	dead.failAt = 0
	_ = r.Attach(dead, "", nil)

	r.Send(dead, "direct")

	if r.Count() != 0 {
		t.Errorf("expected dead connection removed, count is %d", r.Count())
	}
	if !dead.isClosed() {
		t.Error("dead connection should be closed")
	}

	// Unregistered connection is silently skipped
	r.Send(newFakeConn(), "direct")
}

func TestRegistry_SnapshotBeforeDeltas(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()

	// Broadcast from another goroutine races with Attach; the
	// connection must never observe a delta before its snapshot.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.Broadcast("delta")
		}
	}()

	_ = r.Attach(conn, "", func() (any, error) { return "snapshot", nil })
	wg.Wait()

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.written) == 0 {
		t.Fatal("expected at least the snapshot")
	}
	if conn.written[0] != "snapshot" {
		t.Errorf("first write must be the snapshot, got %v", conn.written[0])
	}
}

func TestRegistry_Detach(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()
	_ = r.Attach(conn, "", nil)

	r.Detach(conn)

	if r.Count() != 0 {
		t.Errorf("expected 0 connections, got %d", r.Count())
	}
	if !conn.isClosed() {
		t.Error("detached connection should be closed")
	}

	// Double detach is a no-op
	r.Detach(conn)
}

func TestRegistry_ReceiveLoopDetachesOnReadError(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()
	_ = r.Attach(conn, "", nil)

	done := make(chan struct{})
	go func() {
		r.ReceiveLoop(conn, nil)
		close(done)
	}()

	// Unblock ReadMessage with an error
	close(conn.readCh)
	<-done

	if r.Count() != 0 {
		t.Errorf("expected connection removed, count is %d", r.Count())
	}
	if !conn.isClosed() {
		t.Error("connection should be closed after read error")
	}
}

func TestRegistry_ReceiveLoopDeliversMessages(t *testing.T) {
	r := testRegistry()
	conn := newFakeConn()
	_ = r.Attach(conn, "", nil)

	var mu sync.Mutex
	var received [][]byte
	done := make(chan struct{})
	go func() {
		r.ReceiveLoop(conn, func(payload []byte) {
			mu.Lock()
			received = append(received, payload)
			mu.Unlock()
		})
		close(done)
	}()

	conn.readCh <- []byte("ping")
	conn.readCh <- []byte("pong")
	close(conn.readCh)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(received))
	}
	if string(received[0]) != "ping" || string(received[1]) != "pong" {
		t.Errorf("unexpected payloads: %q, %q", received[0], received[1])
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	r := testRegistry()

	conns := []*fakeConn{newFakeConn(), newFakeConn()}
	for _, c := range conns {
		_ = r.Attach(c, "", nil)
	}

	r.CloseAll()

	if r.Count() != 0 {
		t.Errorf("expected 0 connections, got %d", r.Count())
	}
	for i, c := range conns {
		if !c.isClosed() {
			t.Errorf("conn %d should be closed", i)
		}
	}
}
