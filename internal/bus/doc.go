// Package bus предоставляет шину сообщений для событий заказов.
//
// Структура:
//   - bus.go        — интерфейс Bus и типизированные слушатели
//   - message.go    — формат сообщений и парсинг payload
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - consumer.go   — потребление сообщений из очередей
//   - amqp.go       — реализация Bus поверх RabbitMQ
//   - mock.go       — реализация Bus в памяти для тестов и offline-режима
//
// Типы сообщений:
//   - order.new     — принят новый заказ
//   - status.update — изменился статус обработки заказа
//
// Exchanges:
//   - orderflow.orders — события новых заказов
//   - orderflow.status — события смены статусов
//
// Семантика доставки: сообщение подтверждается (ack) после возврата всех
// слушателей независимо от их ошибок. Повторной доставки на уровне шины
// нет; слушатели обязаны быть устойчивы к дубликатам.
package bus
