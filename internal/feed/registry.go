package feed

import (
	"log/slog"
	"sync"
)

// Registry — реестр live-подключений.
//
// Мёртвые подключения удаляются молча: ошибка записи при Broadcast
// означает, что клиент ушёл, и подключение закрывается и выбрасывается
// из реестра без прерывания рассылки остальным.
type Registry struct {
	logger *slog.Logger

	mu sync.Mutex
	// значение — опциональная идентичность клиента (для логов)
	conns map[Conn]string
}

// NewRegistry создаёт пустой реестр.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		conns:  make(map[Conn]string),
	}
}

// Attach отправляет подключению снимок состояния и регистрирует его.
// Identity — опциональная метка клиента, попадает в логи.
//
// Снимок вычисляется и отправляется под блокировкой реестра: Broadcast
// не может вклиниться между снимком и регистрацией, поэтому клиент
// видит либо обновление в снимке, либо его доставку после снимка,
// но никогда не теряет его.
//
// При ошибке снимка или записи подключение закрывается и не
// регистрируется.
func (r *Registry) Attach(conn Conn, identity string, snapshot func() (any, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snapshot != nil {
		state, err := snapshot()
		if err != nil {
			conn.Close()
			return err
		}

		if err := conn.WriteJSON(state); err != nil {
			conn.Close()
			return err
		}
	}

	r.conns[conn] = identity

	r.logger.Debug("feed connection attached", "identity", identity, "connections", len(r.conns))

	return nil
}

// Detach удаляет подключение из реестра и закрывает его.
// Повторный вызов для уже удалённого подключения безопасен.
func (r *Registry) Detach(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn]; !ok {
		return
	}

	delete(r.conns, conn)
	conn.Close()

	r.logger.Debug("feed connection detached", "connections", len(r.conns))
}

// Broadcast отправляет значение всем подключениям.
//
// Рассылка идёт под блокировкой реестра последовательно по
// подключениям: все клиенты видят обновления в одном порядке.
// Подключения с ошибкой записи закрываются и удаляются.
func (r *Registry) Broadcast(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conn := range r.conns {
		if err := conn.WriteJSON(v); err != nil {
			delete(r.conns, conn)
			conn.Close()
			r.logger.Debug("feed connection dropped", "error", err, "connections", len(r.conns))
		}
	}
}

// Send отправляет значение одному подключению.
//
// Незарегистрированное подключение молча пропускается. При ошибке
// записи подключение закрывается и удаляется, как при Broadcast;
// ошибка отправителю не возвращается.
func (r *Registry) Send(conn Conn, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn]; !ok {
		return
	}

	if err := conn.WriteJSON(v); err != nil {
		delete(r.conns, conn)
		conn.Close()
		r.logger.Debug("feed connection dropped", "error", err, "connections", len(r.conns))
	}
}

// ReceiveLoop читает входящие сообщения подключения до ошибки чтения,
// после чего удаляет подключение из реестра. Каждое входящее сообщение
// передаётся в onMessage; nil-callback допустим — тогда сообщения
// отбрасываются, чтение нужно только для обнаружения разрыва.
//
// Блокирует до разрыва подключения.
func (r *Registry) ReceiveLoop(conn Conn, onMessage func(payload []byte)) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			r.Detach(conn)
			return
		}
		if onMessage != nil {
			onMessage(payload)
		}
	}
}

// Count возвращает количество активных подключений.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// CloseAll закрывает и удаляет все подключения.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conn := range r.conns {
		conn.Close()
		delete(r.conns, conn)
	}

	r.logger.Info("all feed connections closed")
}
