package bus

import (
	"context"
	"log/slog"
	"sync"
)

// listenerSet — потокобезопасный набор слушателей одного типа события.
//
// Доставка конкурентная: каждый слушатель вызывается в своей горутине,
// dispatch возвращается после завершения всех. Ошибка или паника одного
// слушателя не влияет на остальных и не отменяет подтверждение сообщения.
type listenerSet[T any] struct {
	mu  sync.RWMutex
	fns []func(ctx context.Context, event T) error
}

// add регистрирует слушателя.
func (s *listenerSet[T]) add(fn func(ctx context.Context, event T) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

// len возвращает количество зарегистрированных слушателей.
func (s *listenerSet[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fns)
}

// dispatch доставляет событие всем слушателям и ждёт их завершения.
func (s *listenerSet[T]) dispatch(ctx context.Context, event T, logger *slog.Logger) {
	s.mu.RLock()
	fns := make([]func(ctx context.Context, event T) error, len(s.fns))
	copy(fns, s.fns)
	s.mu.RUnlock()

	var wg sync.WaitGroup
	for _, fn := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("listener panicked", "panic", r)
				}
			}()

			if err := fn(ctx, event); err != nil {
				logger.Error("listener failed", "error", err)
			}
		}()
	}
	wg.Wait()
}
