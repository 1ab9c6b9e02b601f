package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingItem — запись обработки одного заказа.
//
// Ровно одна запись существует для каждого заказа: хранилище отклоняет
// повторное создание для того же order id. Запись мутирует только
// процессор, владеющий её жизненным циклом (single-writer per key).
type ProcessingItem struct {
	// ID — уникальный идентификатор записи (не совпадает с Order.ID).
	ID string `json:"id"`

	// Order — обрабатываемый заказ.
	Order Order `json:"order"`

	// Created — время создания записи.
	Created time.Time `json:"created"`

	// Started — время первого перехода в processing.
	// Устанавливается один раз и больше не меняется.
	Started *time.Time `json:"started,omitempty"`

	// ProcessingTime — длительность обработки в секундах.
	// Фиксируется при создании записи.
	ProcessingTime int `json:"processing_time"`

	// Finished — время завершения. Не nil тогда и только тогда,
	// когда статус completed или error.
	Finished *time.Time `json:"finished,omitempty"`

	// Status — текущий статус обработки.
	Status ProcessingStatus `json:"status"`
}

// NewItem создаёт запись обработки для заказа со статусом new.
func NewItem(order Order, processingTime int) *ProcessingItem {
	return &ProcessingItem{
		ID:             uuid.NewString(),
		Order:          order,
		Created:        time.Now().UTC(),
		ProcessingTime: processingTime,
		Status:         StatusNew,
	}
}

// Duration возвращает фактическую длительность обработки.
// Возвращает 0, если обработка не завершена.
func (i *ProcessingItem) Duration() time.Duration {
	if i.Started == nil || i.Finished == nil {
		return 0
	}
	return i.Finished.Sub(*i.Started)
}

// IsFinished возвращает true, если запись в финальном статусе.
func (i *ProcessingItem) IsFinished() bool {
	return i.Status.IsTerminal()
}

// MarkProcessing переводит запись в статус processing.
// Started выставляется только при первом переходе.
func (i *ProcessingItem) MarkProcessing() {
	i.Status = StatusProcessing
	if i.Started == nil {
		now := time.Now().UTC()
		i.Started = &now
	}
}

// MarkCompleted переводит запись в статус completed.
func (i *ProcessingItem) MarkCompleted() {
	now := time.Now().UTC()
	i.Status = StatusCompleted
	i.Finished = &now
}

// MarkError переводит запись в статус error.
func (i *ProcessingItem) MarkError() {
	now := time.Now().UTC()
	i.Status = StatusError
	i.Finished = &now
}

// MarkRecovery помечает запись для повторного запуска после рестарта.
func (i *ProcessingItem) MarkRecovery() {
	i.Status = StatusRecovery
}
