package processor

import "errors"

// Ошибки обработки.
var (
	// ErrProcessingFailed — обработка записи завершилась ошибкой.
	ErrProcessingFailed = errors.New("processing failed")
)
