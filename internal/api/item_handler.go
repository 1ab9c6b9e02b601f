package api

import (
	"net/http"
	"time"

	"github.com/shaiso/orderflow/internal/domain"
	"github.com/shaiso/orderflow/internal/store"
)

// ListItems возвращает записи обработки, новые первыми.
// GET /api/v1/items?status=...&max_age=...
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter := store.ItemFilter{}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.ProcessingStatus(status)
	}

	if maxAgeStr := r.URL.Query().Get("max_age"); maxAgeStr != "" {
		maxAge, err := time.ParseDuration(maxAgeStr)
		if err != nil || maxAge <= 0 {
			BadRequest(w, "invalid max_age")
			return
		}
		filter.MaxAge = maxAge
	}

	items, err := h.items.ListItems(r.Context(), filter)
	if HandleStoreError(w, h.logger, err, "") {
		return
	}

	result := make([]ItemResponse, len(items))
	for i, item := range items {
		result[i] = ItemFromDomain(item)
	}

	List(w, result, len(result))
}

// GetItem возвращает запись обработки по id.
// GET /api/v1/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequest(w, "invalid item id")
		return
	}

	item, err := h.items.GetItem(r.Context(), id)
	if HandleStoreError(w, h.logger, err, "item not found") {
		return
	}

	Success(w, ItemFromDomain(*item))
}

// PurgeItems удаляет все записи обработки.
// DELETE /api/v1/items
func (h *Handler) PurgeItems(w http.ResponseWriter, r *http.Request) {
	if err := h.items.DeleteAllItems(r.Context()); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.logger.Info("all processing items purged")

	NoContent(w)
}
