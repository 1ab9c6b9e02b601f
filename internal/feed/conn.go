package feed

// Conn — live-подключение клиента.
//
// Интерфейс покрывает нужное подмножество *websocket.Conn из
// gorilla/websocket; в тестах подменяется фейком.
type Conn interface {
	// WriteJSON сериализует значение и отправляет его клиенту.
	WriteJSON(v any) error

	// ReadMessage блокирует до следующего сообщения от клиента
	// или ошибки чтения.
	ReadMessage() (messageType int, p []byte, err error)

	// Close закрывает подключение.
	Close() error
}
