package domain

// StatusUpdate — сообщение о смене статуса обработки заказа.
//
// Производится процессором на каждом переходе, потребляется любым
// подписчиком шины. Не персистится.
type StatusUpdate struct {
	// OrderID — идентификатор заказа.
	OrderID string `json:"order_id"`

	// NewStatus — новый статус обработки.
	NewStatus ProcessingStatus `json:"new_status"`
}
