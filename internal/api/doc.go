// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go       — Handler с DI (хранилища, шина, фид, logger)
//   - routes.go        — регистрация маршрутов
//   - middleware.go    — middleware (logging, recovery)
//   - response.go      — унифицированные JSON-ответы и обработка ошибок
//   - dto.go           — Data Transfer Objects (request/response)
//   - order_handler.go — обработчики для /orders
//   - item_handler.go  — обработчики для /items
//   - feed_handler.go  — websocket-фид обновлений обработки
//
// API предоставляет REST endpoints для заказов и записей обработки
// и websocket endpoint с live-обновлениями.
package api
