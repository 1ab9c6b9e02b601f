package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/orderflow/internal/domain"
	"github.com/shaiso/orderflow/internal/store"
	"github.com/shaiso/orderflow/internal/telemetry"
)

// defaultListLimit — лимит списка заказов по умолчанию.
const defaultListLimit = 50

// CreateOrder принимает новый заказ.
// POST /api/v1/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if msg := req.Validate(); msg != "" {
		BadRequest(w, msg)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	order := &domain.Order{
		ID:       id,
		Created:  time.Now().UTC(),
		Customer: req.Customer,
		Items:    req.Items,
		DueDate:  req.DueDate,
		Status:   domain.OrderStatusNew,
	}

	if err := h.orders.CreateOrder(r.Context(), order); err != nil {
		if HandleStoreError(w, h.logger, err, "") {
			return
		}
	}

	telemetry.OrdersSubmitted.Inc()

	// Анонсируем заказ: live-подключениям и в шину для обработки
	if h.feed != nil {
		h.feed.Broadcast([]domain.Order{*order})
	}
	if err := h.bus.PublishNewOrder(r.Context(), order); err != nil {
		h.logger.Warn("failed to publish new order", "order_id", order.ID, "error", err)
	}

	Created(w, OrderFromDomain(*order))
}

// ListOrders возвращает список заказов, новые первыми.
// GET /api/v1/orders?limit=...&offset=...
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := store.OrderFilter{Limit: defaultListLimit}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			BadRequest(w, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			BadRequest(w, "invalid offset")
			return
		}
		filter.Offset = offset
	}

	orders, err := h.orders.ListOrders(r.Context(), filter)
	if HandleStoreError(w, h.logger, err, "") {
		return
	}

	total, err := h.orders.CountOrders(r.Context())
	if HandleStoreError(w, h.logger, err, "") {
		return
	}

	result := make([]OrderResponse, len(orders))
	for i, order := range orders {
		result[i] = OrderFromDomain(order)
	}

	List(w, result, total)
}

// GetOrder возвращает заказ по id.
// GET /api/v1/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequest(w, "invalid order id")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if HandleStoreError(w, h.logger, err, "order not found") {
		return
	}

	Success(w, OrderFromDomain(*order))
}
