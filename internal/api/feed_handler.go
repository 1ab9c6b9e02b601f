package api

import (
	"net/http"

	"github.com/shaiso/orderflow/internal/store"
	"github.com/shaiso/orderflow/internal/telemetry"
)

// Feed открывает live-подключение с обновлениями обработки.
// GET /api/v1/feed
//
// Сразу после рукопожатия клиент получает снимок всех записей
// обработки, затем — обновления по мере их появления. Входящие
// сообщения логируются и не влияют на обработку.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту при ошибке рукопожатия
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	err = h.feed.Attach(conn, r.RemoteAddr, func() (any, error) {
		// Снимок в том же формате, что и последующие обновления
		items, err := h.items.ListItems(r.Context(), store.ItemFilter{})
		if err != nil {
			return nil, err
		}
		return items, nil
	})
	if err != nil {
		h.logger.Error("failed to attach feed connection", "error", err)
		return
	}

	telemetry.FeedConnections.Set(float64(h.feed.Count()))
	defer func() {
		telemetry.FeedConnections.Set(float64(h.feed.Count()))
	}()

	// Блокирует до разрыва подключения
	h.feed.ReceiveLoop(conn, func(payload []byte) {
		h.logger.Debug("feed message received",
			"remote", r.RemoteAddr, "size", len(payload))
	})
}
