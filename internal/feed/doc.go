// Package feed предоставляет реестр live-подключений для рассылки
// обновлений заказов.
//
// Структура:
//   - conn.go     — интерфейс подключения (реализуется *websocket.Conn)
//   - registry.go — реестр подключений и широковещательная рассылка
//
// Гарантия согласованности: Attach отправляет снимок состояния и
// регистрирует подключение под той же блокировкой, которую держит
// Broadcast во время рассылки. Подключение не может пропустить
// обновление между снимком и первой дельтой и не может получить
// дельту раньше снимка.
package feed
