// Package store реализует хранилища заказов и записей обработки.
//
// Два взаимозаменяемых бэкенда:
//   - memory.go   — в памяти, для тестов и автономного режима
//   - postgres.go — Postgres через pgxpool, для production
//
// Контракты ItemStore и OrderStore описаны в store.go, общие ошибки —
// в errors.go. DDL применяется через EnsureSchema (schema.go).
package store
