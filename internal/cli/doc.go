// Package cli реализует инструмент командной строки Orderflow.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Orderflow API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления orders и items.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Orderflow API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (dataResponse, listResponse, errorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	orders, total, err := client.ListOrders(cli.ListOrdersOpts{})
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: orderflow order list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - order: submit, list, show
//   - item: list, show, purge
//
// Каждая группа создаётся через фабричную функцию (NewOrderCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
