package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики системы. Регистрируются в default registry и экспортируются
// через promhttp на /metrics.
var (
	// OrdersSubmitted — количество принятых заказов.
	OrdersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderflow_orders_submitted_total",
		Help: "Total orders accepted for processing",
	})

	// StatusUpdatesPublished — количество опубликованных смен статуса.
	StatusUpdatesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderflow_status_updates_published_total",
		Help: "Total status updates published to the bus",
	})

	// ItemsFinished — количество завершённых записей обработки
	// по финальному статусу (completed, error).
	ItemsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderflow_items_finished_total",
		Help: "Total processing items that reached a terminal status",
	}, []string{"status"})

	// ItemsRecovered — количество записей, перезапущенных после рестарта.
	ItemsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderflow_items_recovered_total",
		Help: "Total processing items restarted by recovery",
	})

	// FeedConnections — текущее количество live-подключений.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderflow_feed_connections",
		Help: "Current number of live feed connections",
	})
)
