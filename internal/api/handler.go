package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/shaiso/orderflow/internal/bus"
	"github.com/shaiso/orderflow/internal/feed"
	"github.com/shaiso/orderflow/internal/store"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	orders store.OrderStore
	items  store.ItemStore
	bus    bus.Bus
	feed   *feed.Registry

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Orders store.OrderStore
	Items  store.ItemStore
	Bus    bus.Bus
	Feed   *feed.Registry
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		orders: cfg.Orders,
		items:  cfg.Items,
		bus:    cfg.Bus,
		feed:   cfg.Feed,
		upgrader: websocket.Upgrader{
			// Клиенты фида приходят с любых origin (демо-стенды, curl)
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: cfg.Logger,
	}
}
