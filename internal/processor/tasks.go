package processor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Group управляет фоновыми горутинами обработки.
//
// Все горутины получают общий контекст: Shutdown отменяет его и ждёт
// завершения всех. Паника в горутине логируется и не роняет процесс.
type Group struct {
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool

	active atomic.Int32
}

// NewGroup создаёт группу, привязанную к родительскому контексту.
func NewGroup(ctx context.Context, logger *slog.Logger) *Group {
	ctx, cancel := context.WithCancel(ctx)
	return &Group{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go запускает функцию в фоновой горутине.
// Ошибка, кроме отмены контекста, логируется с именем задачи.
// После Shutdown вызов игнорируется: wg.Add нельзя вызывать
// параллельно с wg.Wait.
func (g *Group) Go(name string, fn func(ctx context.Context) error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.logger.Warn("task rejected, group is shut down", "task", name)
		return
	}
	g.wg.Add(1)
	g.active.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer g.active.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				g.logger.Error("task panicked", "task", name, "panic", r)
			}
		}()

		if err := fn(g.ctx); err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Error("task failed", "task", name, "error", err)
		}
	}()
}

// Active возвращает количество работающих горутин.
func (g *Group) Active() int {
	return int(g.active.Load())
}

// Wait блокирует до завершения всех запущенных горутин,
// не отменяя их контекст.
func (g *Group) Wait() {
	g.wg.Wait()
}

// Shutdown отменяет контекст группы и ждёт завершения всех горутин.
// Последующие вызовы Go игнорируются.
func (g *Group) Shutdown() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.cancel()
	g.wg.Wait()
}
