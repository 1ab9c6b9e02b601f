package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/orderflow/internal/bus"
	"github.com/shaiso/orderflow/internal/domain"
	"github.com/shaiso/orderflow/internal/feed"
	"github.com/shaiso/orderflow/internal/store"
	"github.com/shaiso/orderflow/internal/telemetry"
)

// Default configuration values.
const (
	defaultGraceDelay   = 3 * time.Second
	defaultRestartDelay = 15 * time.Second
	defaultStagger      = 2 * time.Second
	defaultStaleAfter   = 3 * time.Hour
)

// Recovery возвращает в обработку записи, брошенные упавшим процессом.
//
// Алгоритм:
//  1. Пауза GraceDelay — даём текущим записям дойти до финала.
//  2. Все записи в processing помечаются: старше StaleAfter —
//     ошибкой, остальные — recovery.
//  3. Пауза RestartDelay.
//  4. Записи в recovery перезапускаются с интервалом Stagger,
//     чтобы не создать всплеск нагрузки.
//
// Recovery запускается один раз при старте процесса. Записи,
// помеченные recovery, но не перезапущенные (процесс упал снова),
// будут подхвачены следующим запуском: restartItems перечитывает
// хранилище, а не держит список в памяти.
type Recovery struct {
	items store.ItemStore
	bus   bus.Bus
	feed  *feed.Registry
	group *Group

	graceDelay   time.Duration
	restartDelay time.Duration
	stagger      time.Duration
	staleAfter   time.Duration

	logger *slog.Logger
}

// RecoveryConfig — конфигурация Recovery.
type RecoveryConfig struct {
	Items store.ItemStore
	Bus   bus.Bus
	Feed  *feed.Registry
	Group *Group

	// GraceDelay — пауза перед пометкой брошенных записей (default: 3s).
	GraceDelay time.Duration

	// RestartDelay — пауза между пометкой и перезапуском (default: 15s).
	RestartDelay time.Duration

	// Stagger — интервал между перезапусками записей (default: 2s).
	Stagger time.Duration

	// StaleAfter — возраст записи, после которого она считается
	// безнадёжной и помечается ошибкой вместо перезапуска (default: 3h).
	StaleAfter time.Duration

	Logger *slog.Logger
}

// NewRecovery создаёт Recovery.
func NewRecovery(cfg RecoveryConfig) *Recovery {
	graceDelay := cfg.GraceDelay
	if graceDelay <= 0 {
		graceDelay = defaultGraceDelay
	}

	restartDelay := cfg.RestartDelay
	if restartDelay <= 0 {
		restartDelay = defaultRestartDelay
	}

	stagger := cfg.Stagger
	if stagger <= 0 {
		stagger = defaultStagger
	}

	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Recovery{
		items:        cfg.Items,
		bus:          cfg.Bus,
		feed:         cfg.Feed,
		group:        cfg.Group,
		graceDelay:   graceDelay,
		restartDelay: restartDelay,
		stagger:      stagger,
		staleAfter:   staleAfter,
		logger:       logger,
	}
}

// Run выполняет один цикл восстановления. Блокирует до перезапуска
// всех подходящих записей или отмены контекста.
func (r *Recovery) Run(ctx context.Context) error {
	r.logger.Info("recovery started", "grace_delay", r.graceDelay)

	if err := sleep(ctx, r.graceDelay); err != nil {
		return err
	}

	marked, err := r.markAbandonedItems(ctx)
	if err != nil {
		return err
	}

	if marked == 0 {
		r.logger.Info("recovery finished, nothing to restart")
		return nil
	}

	r.logger.Info("recovery marked items", "count", marked, "restart_delay", r.restartDelay)

	if err := sleep(ctx, r.restartDelay); err != nil {
		return err
	}

	return r.restartItems(ctx)
}

// markAbandonedItems помечает записи, оставшиеся в processing после
// рестарта. Возвращает количество записей, поставленных в recovery.
func (r *Recovery) markAbandonedItems(ctx context.Context) (int, error) {
	items, err := r.items.ListItems(ctx, store.ItemFilter{Status: domain.StatusProcessing})
	if err != nil {
		return 0, fmt.Errorf("list processing items: %w", err)
	}

	cutoff := time.Now().UTC().Add(-r.staleAfter)
	marked := 0

	for i := range items {
		item := items[i]
		proc := New(&item, r.processorConfig())

		if item.Created.Before(cutoff) {
			if err := proc.Fail(ctx); err != nil {
				r.logger.Error("failed to mark stale item", "item_id", item.ID, "error", err)
			}
			continue
		}

		if err := proc.Requeue(ctx); err != nil {
			r.logger.Error("failed to requeue item", "item_id", item.ID, "error", err)
			continue
		}
		marked++
	}

	return marked, nil
}

// restartItems перезапускает записи в recovery с интервалом stagger.
func (r *Recovery) restartItems(ctx context.Context) error {
	items, err := r.items.ListItems(ctx, store.ItemFilter{Status: domain.StatusRecovery})
	if err != nil {
		return fmt.Errorf("list recovery items: %w", err)
	}

	r.logger.Info("restarting recovered items", "count", len(items), "stagger", r.stagger)

	for i := range items {
		if i > 0 {
			if err := sleep(ctx, r.stagger); err != nil {
				return err
			}
		}

		item := items[i]
		proc := New(&item, r.processorConfig())

		r.group.Go("recover "+item.ID, proc.Process)
		telemetry.ItemsRecovered.Inc()
	}

	return nil
}

func (r *Recovery) processorConfig() Config {
	return Config{
		Items:  r.items,
		Bus:    r.bus,
		Feed:   r.feed,
		Logger: r.logger,
	}
}

// sleep — context-aware ожидание.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
