package domain

// OrderStatus — статус заказа, видимый клиенту.
//
// Жизненный цикл:
//
//	new → processing → completed
//	                 ↘ error
type OrderStatus string

const (
	// OrderStatusNew — заказ принят, обработка ещё не началась.
	OrderStatusNew OrderStatus = "new"

	// OrderStatusProcessing — заказ в обработке.
	OrderStatusProcessing OrderStatus = "processing"

	// OrderStatusCompleted — обработка успешно завершена.
	OrderStatusCompleted OrderStatus = "completed"

	// OrderStatusError — обработка завершилась с ошибкой.
	OrderStatusError OrderStatus = "error"
)

// ProcessingStatus — статус записи обработки (ProcessingItem).
//
// Жизненный цикл:
//
//	new → processing → completed
//	                 ↘ error
//
// Статус recovery достижим только из processing: так Recovery помечает
// записи, брошенные упавшим процессом, перед повторным запуском
// processing → {completed, error}.
type ProcessingStatus string

const (
	// StatusNew — запись создана, обработка не началась.
	StatusNew ProcessingStatus = "new"

	// StatusProcessing — запись в обработке.
	StatusProcessing ProcessingStatus = "processing"

	// StatusCompleted — обработка успешно завершена.
	StatusCompleted ProcessingStatus = "completed"

	// StatusRecovery — запись ожидает повторного запуска после рестарта.
	StatusRecovery ProcessingStatus = "recovery"

	// StatusError — обработка завершилась с ошибкой.
	StatusError ProcessingStatus = "error"
)

// IsTerminal возвращает true, если статус финальный (обработка завершена).
func (s ProcessingStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// OrderStatusFor возвращает статус заказа, соответствующий статусу обработки.
// recovery для клиента неотличим от processing.
func OrderStatusFor(s ProcessingStatus) OrderStatus {
	switch s {
	case StatusNew:
		return OrderStatusNew
	case StatusProcessing, StatusRecovery:
		return OrderStatusProcessing
	case StatusCompleted:
		return OrderStatusCompleted
	default:
		return OrderStatusError
	}
}
