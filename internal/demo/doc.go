// Package demo генерирует случайные демонстрационные заказы.
//
// Используется демонстрационным бинарником orderflow-demo: по расписанию
// создаётся случайный заказ и отправляется в конвейер обработки, чтобы
// лента статусов была живой без внешнего трафика.
package demo
