// Package processor реализует жизненный цикл обработки заказов.
//
// Структура:
//   - processor.go — Processor: машина состояний одной записи обработки
//   - service.go   — Service: приём новых заказов из шины
//   - recovery.go  — Recovery: перезапуск обработки после рестарта процесса
//   - tasks.go     — Group: управление фоновыми горутинами обработки
//
// Инвариант single-writer: каждую запись обработки мутирует ровно один
// Processor. Service создаёт Processor на заказ, Recovery — на брошенную
// запись; хранилище отклоняет вторую запись для того же заказа, поэтому
// два Processor'а не могут конкурировать за одну запись.
package processor
