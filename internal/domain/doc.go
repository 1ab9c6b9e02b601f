// Package domain содержит основные типы предметной области.
//
// Типы:
//   - Order          — заказ клиента (order.go)
//   - ProcessingItem — запись обработки заказа (item.go)
//   - StatusUpdate   — сообщение о смене статуса (update.go)
//   - статусы и их переходы (status.go)
//
// Инварианты:
//   - ровно одна ProcessingItem на заказ
//   - Finished не nil ⟺ статус финальный (completed/error)
//   - Started выставляется один раз при первом переходе в processing
package domain
